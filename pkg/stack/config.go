package stack

import (
	"fmt"
	"io"

	"github.com/ian-pascoe/ion/pkg/authorizer"
	"gopkg.in/yaml.v3"
)

const (
	defaultStackName = "WebSocketApi"
	defaultStage     = "prod"
)

// Config describes a WebSocket API stack guarded by an authorizer.
type Config struct {
	StackName            string          `yaml:"stackName"`
	APIName              string          `yaml:"apiName"`
	Stage                string          `yaml:"stage"`
	ConnectCodePath      string          `yaml:"connectCodePath"`
	DisconnectCodePath   string          `yaml:"disconnectCodePath"`
	SharedTokenSecretARN string          `yaml:"sharedTokenSecretArn"`
	Authorizer           authorizer.Spec `yaml:"authorizer"`
}

// Load decodes a YAML stack config and applies defaults. The authorizer
// section is validated when the stack is built.
func Load(r io.Reader) (Config, error) {
	c := Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return c, fmt.Errorf("could not decode stack config: %s", err)
	}

	if c.StackName == "" {
		c.StackName = defaultStackName
	}
	if c.APIName == "" {
		c.APIName = c.StackName
	}
	if c.Stage == "" {
		c.Stage = defaultStage
	}
	return c, nil
}
