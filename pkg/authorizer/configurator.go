package authorizer

import (
	"go.uber.org/zap"
)

const (
	invokeAction     = "lambda:InvokeFunction"
	gatewayPrincipal = "apigateway.amazonaws.com"
)

// Configurator validates authorizer specs and provisions them against an API.
type Configurator struct {
	provisioner Provisioner
	logger      *zap.Logger
}

// NewConfigurator returns a Configurator creating resources through p. A nil
// logger disables logging.
func NewConfigurator(p Provisioner, logger *zap.Logger) *Configurator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Configurator{provisioner: p, logger: logger}
}

// Configure validates spec and registers the authorizer against api. Nothing
// is provisioned when validation fails.
func (c *Configurator) Configure(spec Spec, api API) (*Descriptor, error) {
	mode, err := ModeOf(spec)
	if err != nil {
		return nil, err
	}
	if err := validate(spec, api); err != nil {
		return nil, err
	}

	var d *Descriptor
	switch m := mode.(type) {
	case FunctionMode:
		d, err = c.configureFunction(spec.Name, m, api)
	case JWTMode:
		d, err = c.configureJWT(spec.Name, m, api)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("authorizer configured", zap.Object("authorizer", d))
	return d, nil
}

func (c *Configurator) configureFunction(name string, m FunctionMode, api API) (*Descriptor, error) {
	fn, err := c.provisioner.CreateFunction(name+"Function", m.Function, FunctionMetadata{
		Description: "Authorizer for " + api.Name,
	})
	if err != nil {
		return nil, err
	}

	args := AuthorizerArgs{
		APIID:                api.ID,
		Type:                 TypeRequest,
		URI:                  fn.InvokeARN,
		PayloadFormatVersion: PayloadFormatVersion,
	}
	auth, err := c.provisioner.CreateAuthorizer(name, args)
	if err != nil {
		return nil, err
	}

	perm, err := c.provisioner.CreatePermission(name+"Permission", PermissionArgs{
		Action:      invokeAction,
		FunctionARN: fn.ARN,
		Principal:   gatewayPrincipal,
		SourceARN:   SourceARN(api.ExecutionARN, auth.ID),
	})
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		name:       name,
		id:         auth.ID,
		args:       args,
		function:   &fn,
		permission: &perm,
	}, nil
}

func (c *Configurator) configureJWT(name string, m JWTMode, api API) (*Descriptor, error) {
	args := AuthorizerArgs{
		APIID:           api.ID,
		Type:            TypeJWT,
		IdentitySources: []string{m.JWT.EffectiveIdentitySource()},
		JWT: &JWTConfiguration{
			Audiences: append([]string(nil), m.JWT.Audiences...),
			Issuer:    m.JWT.Issuer,
		},
	}
	auth, err := c.provisioner.CreateAuthorizer(name, args)
	if err != nil {
		return nil, err
	}

	return &Descriptor{name: name, id: auth.ID, args: args}, nil
}
