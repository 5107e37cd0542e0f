package provision

import (
	"fmt"

	"github.com/ian-pascoe/ion/pkg/authorizer"
)

// Resource is a resource a Plan would create.
type Resource struct {
	Kind string
	Name string
}

// Plan implements authorizer.Provisioner without creating anything. It
// records the requested resources and hands out placeholder identifiers, so a
// spec can be checked before the app is synthesized.
type Plan struct {
	Partition string
	Region    string
	Account   string

	Resources []Resource
}

// CreateFunction implements authorizer.Provisioner.
func (p *Plan) CreateFunction(name string, _ authorizer.FunctionRef, _ authorizer.FunctionMetadata) (authorizer.FunctionHandle, error) {
	p.Resources = append(p.Resources, Resource{Kind: "AWS::Lambda::Function", Name: name})

	fnARN := fmt.Sprintf("arn:%s:lambda:%s:%s:function:%s", p.Partition, p.Region, p.Account, name)
	return authorizer.FunctionHandle{
		ARN:       fnARN,
		InvokeARN: authorizer.LambdaInvokeURI(p.Partition, p.Region, fnARN),
	}, nil
}

// CreateAuthorizer implements authorizer.Provisioner.
func (p *Plan) CreateAuthorizer(name string, _ authorizer.AuthorizerArgs) (authorizer.AuthorizerHandle, error) {
	p.Resources = append(p.Resources, Resource{Kind: "AWS::ApiGatewayV2::Authorizer", Name: name})
	return authorizer.AuthorizerHandle{ID: "<" + name + ">"}, nil
}

// CreatePermission implements authorizer.Provisioner.
func (p *Plan) CreatePermission(name string, args authorizer.PermissionArgs) (authorizer.PermissionHandle, error) {
	p.Resources = append(p.Resources, Resource{Kind: "AWS::Lambda::Permission", Name: name})
	return authorizer.PermissionHandle{ID: "<" + name + ">", SourceARN: args.SourceARN}, nil
}
