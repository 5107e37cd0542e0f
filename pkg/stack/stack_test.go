package stack

import (
	"errors"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/ian-pascoe/ion/pkg/authorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSecret(t *testing.T) {
	spec := authorizer.Spec{
		Name: "Token",
		Function: &authorizer.FunctionRef{
			CodePath:    "bin/authorizer",
			Environment: map[string]string{"LOG_LEVEL": "debug"},
		},
	}

	got := withSecret(spec, "arn:secret")

	assert.Equal(t, map[string]string{
		"LOG_LEVEL":          "debug",
		EnvSharedTokenSecret: "arn:secret",
	}, got.Function.Environment)
	assert.Equal(t, map[string]string{"LOG_LEVEL": "debug"}, spec.Function.Environment)
}

func TestWithSecret_Untouched(t *testing.T) {
	fn := authorizer.Spec{Name: "Token", Function: &authorizer.FunctionRef{CodePath: "bin/authorizer"}}
	assert.Equal(t, fn, withSecret(fn, ""))

	jwt := authorizer.Spec{Name: "Cognito", JWT: &authorizer.JWTConfig{Issuer: "https://issuer", Audiences: []string{"a"}}}
	assert.Equal(t, jwt, withSecret(jwt, "arn:secret"))
}

func TestNew_RejectsBeforeSynth(t *testing.T) {
	tests := []struct {
		name   string
		spec   authorizer.Spec
		reason string
	}{
		{"missing", authorizer.Spec{Name: "None"}, "missing authorizer mode"},
		{"jwt", authorizer.Spec{Name: "Cognito", JWT: &authorizer.JWTConfig{Issuer: "https://issuer", Audiences: []string{"a"}}}, "WebSocket APIs support only REQUEST authorizers"},
		{"route name", authorizer.Spec{Name: "Connect", Function: &authorizer.FunctionRef{CodePath: "bin/authorizer"}}, `construct id "ConnectFunction" is already used by the stack`},
		{"stack id", authorizer.Spec{Name: "Api", Function: &authorizer.FunctionRef{CodePath: "bin/authorizer"}}, `construct id "Api" is already used by the stack`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d, err := New(nil, Config{Authorizer: tt.spec}, &awscdk.StackProps{}, nil)

			assert.Nil(t, s)
			assert.Nil(t, d)
			var cfgErr *authorizer.ErrConfiguration
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.reason, cfgErr.Reason)
		})
	}
}

func TestCollides(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"Token", "", false},
		{"Connect", "ConnectFunction", true},
		{"Disconnect", "DisconnectFunction", true},
		{"DisconnectRoute", "DisconnectRoute", true},
		{"Connections", "Connections", true},
		{"Authorizer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := collides(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
