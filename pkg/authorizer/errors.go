package authorizer

import (
	"fmt"
)

// ErrConfiguration occurs when an authorizer spec has no mode, more than one
// mode, or fields that don't validate.
type ErrConfiguration struct {
	Authorizer string
	Reason     string
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("authorizer %q: %s", e.Authorizer, e.Reason)
}

// ErrInvalidAccess occurs when reading an artifact that the selected mode never created.
type ErrInvalidAccess struct {
	Authorizer string
	Artifact   string
}

func (e ErrInvalidAccess) Error() string {
	return fmt.Sprintf("authorizer %q: %s is only created for %s authorizers", e.Authorizer, e.Artifact, TypeRequest)
}

func invalid(name string, err error) *ErrConfiguration {
	return &ErrConfiguration{Authorizer: name, Reason: "invalid configuration: " + err.Error()}
}
