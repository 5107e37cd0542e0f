package authorizer

// Provisioner creates the cloud resources an authorizer is made of. Errors are
// provider specific and are returned to the caller of Configure unchanged.
type Provisioner interface {
	CreateFunction(name string, ref FunctionRef, meta FunctionMetadata) (FunctionHandle, error)
	CreateAuthorizer(name string, args AuthorizerArgs) (AuthorizerHandle, error)
	CreatePermission(name string, args PermissionArgs) (PermissionHandle, error)
}

// FunctionMetadata is attached to a backing function at creation.
type FunctionMetadata struct {
	Description string
}

// FunctionHandle identifies a created backing function.
type FunctionHandle struct {
	ARN       string
	InvokeARN string
}

// JWTConfiguration is the JWT section of an authorizer registration.
type JWTConfiguration struct {
	Audiences []string
	Issuer    string
}

// AuthorizerArgs is an authorizer registration request.
type AuthorizerArgs struct {
	APIID                string
	Type                 Type
	URI                  string
	PayloadFormatVersion string
	IdentitySources      []string
	JWT                  *JWTConfiguration
}

// AuthorizerHandle identifies a registered authorizer.
type AuthorizerHandle struct {
	ID string
}

// PermissionArgs is a request to let a service principal invoke a function.
type PermissionArgs struct {
	Action      string
	FunctionARN string
	Principal   string
	SourceARN   string
}

// PermissionHandle identifies a created permission grant.
type PermissionHandle struct {
	ID        string
	SourceARN string
}
