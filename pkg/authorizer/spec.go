package authorizer

import (
	"time"

	validator "github.com/go-playground/validator/v10"
)

// Type is the gateway authorizer type derived from the populated mode.
type Type string

const (
	// TypeRequest is a function-backed authorizer.
	TypeRequest Type = "REQUEST"
	// TypeJWT is the gateway's built-in JWT authorizer.
	TypeJWT Type = "JWT"
)

// DefaultIdentitySource is used by JWT authorizers without an explicit identity source.
const DefaultIdentitySource = "$request.header.Authorization"

// PayloadFormatVersion is the only payload format WebSocket APIs accept for REQUEST authorizers.
const PayloadFormatVersion = "1.0"

// API references the gateway the authorizer is registered against.
type API struct {
	ID           string `yaml:"id" validate:"required"`
	Name         string `yaml:"name"`
	ExecutionARN string `yaml:"executionArn" validate:"required"`
}

// FunctionRef describes the code and configuration of a backing function.
// The configurator never interprets it, it is handed to the Provisioner as is.
type FunctionRef struct {
	CodePath    string            `yaml:"codePath" validate:"required"`
	Handler     string            `yaml:"handler"`
	MemorySize  int               `yaml:"memorySize" validate:"gte=0"`
	Timeout     time.Duration     `yaml:"timeout" validate:"gte=0"`
	Environment map[string]string `yaml:"environment"`
}

// JWTConfig configures the gateway's JWT authorizer.
type JWTConfig struct {
	Issuer         string   `yaml:"issuer" validate:"required,url"`
	Audiences      []string `yaml:"audiences" validate:"required,min=1,dive,required"`
	IdentitySource string   `yaml:"identitySource"`
}

// EffectiveIdentitySource returns the configured identity source or DefaultIdentitySource.
func (j JWTConfig) EffectiveIdentitySource() string {
	if j.IdentitySource == "" {
		return DefaultIdentitySource
	}
	return j.IdentitySource
}

// Spec is the declarative authorizer configuration. Exactly one of Function
// and JWT must be set.
type Spec struct {
	Name     string       `yaml:"name" validate:"required"`
	Function *FunctionRef `yaml:"function,omitempty"`
	JWT      *JWTConfig   `yaml:"jwt,omitempty"`
}

// Mode is the single active authorizer mode of a Spec. It is implemented by
// FunctionMode and JWTMode only.
type Mode interface {
	Type() Type
	mode()
}

// FunctionMode is a REQUEST authorizer backed by a function.
type FunctionMode struct {
	Function FunctionRef
}

// Type implements Mode.
func (FunctionMode) Type() Type { return TypeRequest }

func (FunctionMode) mode() {}

// JWTMode is the gateway's built-in JWT authorizer.
type JWTMode struct {
	JWT JWTConfig
}

// Type implements Mode.
func (JWTMode) Type() Type { return TypeJWT }

func (JWTMode) mode() {}

// ModeOf returns the active mode of the spec. Specs with no mode or with both
// modes set fail with ErrConfiguration.
func ModeOf(spec Spec) (Mode, error) {
	switch {
	case spec.Function != nil && spec.JWT != nil:
		return nil, &ErrConfiguration{Authorizer: spec.Name, Reason: "ambiguous authorizer mode"}
	case spec.Function != nil:
		return FunctionMode{Function: *spec.Function}, nil
	case spec.JWT != nil:
		return JWTMode{JWT: *spec.JWT}, nil
	default:
		return nil, &ErrConfiguration{Authorizer: spec.Name, Reason: "missing authorizer mode"}
	}
}

// validate checks field level constraints of the spec, including the set mode,
// and of the api.
func validate(spec Spec, api API) error {
	v := validator.New()
	if err := v.Struct(spec); err != nil {
		return invalid(spec.Name, err)
	}
	if err := v.Struct(api); err != nil {
		return invalid(spec.Name, err)
	}
	return nil
}
