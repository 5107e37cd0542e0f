package authorizer

import (
	"go.uber.org/zap/zapcore"
)

// Descriptor is a configured authorizer. It is immutable; reconfiguring
// produces a new Descriptor.
type Descriptor struct {
	name       string
	id         string
	args       AuthorizerArgs
	function   *FunctionHandle
	permission *PermissionHandle
}

// ID returns the identifier assigned by the provisioner. Routes reference it.
func (d *Descriptor) ID() string { return d.id }

// Name returns the declared authorizer name.
func (d *Descriptor) Name() string { return d.name }

// Type returns REQUEST for function-backed authorizers and JWT otherwise.
func (d *Descriptor) Type() Type { return d.args.Type }

// Authorizer returns the registration that was sent to the provisioner.
func (d *Descriptor) Authorizer() AuthorizerArgs {
	args := d.args
	args.IdentitySources = append([]string(nil), d.args.IdentitySources...)
	if d.args.JWT != nil {
		jwt := *d.args.JWT
		jwt.Audiences = append([]string(nil), d.args.JWT.Audiences...)
		args.JWT = &jwt
	}
	return args
}

// Function returns the backing function. JWT authorizers have none.
func (d *Descriptor) Function() (FunctionHandle, error) {
	if d.function == nil {
		return FunctionHandle{}, &ErrInvalidAccess{Authorizer: d.name, Artifact: "backing function"}
	}
	return *d.function, nil
}

// Permission returns the invocation permission of the backing function. JWT
// authorizers have none.
func (d *Descriptor) Permission() (PermissionHandle, error) {
	if d.permission == nil {
		return PermissionHandle{}, &ErrInvalidAccess{Authorizer: d.name, Artifact: "invoke permission"}
	}
	return *d.permission, nil
}

// MarshalLogObject is a part of zapcore.ObjectMarshaler interface.
func (d *Descriptor) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", d.name)
	enc.AddString("id", d.id)
	enc.AddString("type", string(d.args.Type))
	if d.function != nil {
		enc.AddString("functionArn", d.function.ARN)
	}
	if d.permission != nil {
		enc.AddString("sourceArn", d.permission.SourceARN)
	}
	return nil
}
