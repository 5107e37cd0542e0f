// Package provision creates authorizer resources as AWS CDK constructs.
package provision

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/ian-pascoe/ion/pkg/authorizer"
	"go.uber.org/zap"
)

// DefaultHandler is the executable name of custom runtime functions.
const DefaultHandler = "bootstrap"

// CDK implements authorizer.Provisioner by adding constructs to a scope.
// Resources are created when the app is synthesized and deployed.
type CDK struct {
	scope     constructs.Construct
	logger    *zap.Logger
	functions map[string]awslambda.Function
}

// NewCDK returns a provisioner adding constructs to scope.
func NewCDK(scope constructs.Construct, logger *zap.Logger) *CDK {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDK{scope: scope, logger: logger, functions: map[string]awslambda.Function{}}
}

// CreateFunction implements authorizer.Provisioner.
func (c *CDK) CreateFunction(name string, ref authorizer.FunctionRef, meta authorizer.FunctionMetadata) (authorizer.FunctionHandle, error) {
	fn := awslambda.NewFunction(c.scope, jsii.String(name), functionProps(ref, meta))
	c.functions[name] = fn

	stack := awscdk.Stack_Of(c.scope)
	handle := authorizer.FunctionHandle{
		ARN:       *fn.FunctionArn(),
		InvokeARN: authorizer.LambdaInvokeURI(*stack.Partition(), *stack.Region(), *fn.FunctionArn()),
	}

	c.logger.Debug("function construct added", zap.String("name", name), zap.String("codePath", ref.CodePath))
	return handle, nil
}

// Function returns the function construct created under name, or nil.
func (c *CDK) Function(name string) awslambda.Function {
	return c.functions[name]
}

// CreateAuthorizer implements authorizer.Provisioner.
func (c *CDK) CreateAuthorizer(name string, args authorizer.AuthorizerArgs) (authorizer.AuthorizerHandle, error) {
	auth := awsapigatewayv2.NewCfnAuthorizer(c.scope, jsii.String(name), authorizerProps(name, args))

	c.logger.Debug("authorizer construct added", zap.String("name", name), zap.String("type", string(args.Type)))
	return authorizer.AuthorizerHandle{ID: *auth.Ref()}, nil
}

// CreatePermission implements authorizer.Provisioner.
func (c *CDK) CreatePermission(name string, args authorizer.PermissionArgs) (authorizer.PermissionHandle, error) {
	perm := awslambda.NewCfnPermission(c.scope, jsii.String(name), &awslambda.CfnPermissionProps{
		Action:       jsii.String(args.Action),
		FunctionName: jsii.String(args.FunctionARN),
		Principal:    jsii.String(args.Principal),
		SourceArn:    jsii.String(args.SourceARN),
	})

	c.logger.Debug("permission construct added", zap.String("name", name))
	return authorizer.PermissionHandle{ID: *perm.Ref(), SourceARN: args.SourceARN}, nil
}

func functionProps(ref authorizer.FunctionRef, meta authorizer.FunctionMetadata) *awslambda.FunctionProps {
	handler := ref.Handler
	if handler == "" {
		handler = DefaultHandler
	}

	props := &awslambda.FunctionProps{
		Code:        awslambda.Code_FromAsset(jsii.String(ref.CodePath), nil),
		Handler:     jsii.String(handler),
		Runtime:     awslambda.Runtime_PROVIDED_AL2(),
		Description: jsii.String(meta.Description),
		Environment: stringMap(ref.Environment),
	}
	if ref.MemorySize > 0 {
		props.MemorySize = jsii.Number(float64(ref.MemorySize))
	}
	if ref.Timeout > 0 {
		props.Timeout = awscdk.Duration_Seconds(jsii.Number(ref.Timeout.Seconds()))
	}
	return props
}

func authorizerProps(name string, args authorizer.AuthorizerArgs) *awsapigatewayv2.CfnAuthorizerProps {
	props := &awsapigatewayv2.CfnAuthorizerProps{
		ApiId:          jsii.String(args.APIID),
		AuthorizerType: jsii.String(string(args.Type)),
		Name:           jsii.String(name),
	}
	if args.URI != "" {
		props.AuthorizerUri = jsii.String(args.URI)
	}
	if args.PayloadFormatVersion != "" {
		props.AuthorizerPayloadFormatVersion = jsii.String(args.PayloadFormatVersion)
	}
	if len(args.IdentitySources) > 0 {
		props.IdentitySource = jsii.Strings(args.IdentitySources...)
	}
	if args.JWT != nil {
		props.JwtConfiguration = &awsapigatewayv2.CfnAuthorizer_JWTConfigurationProperty{
			Audience: jsii.Strings(args.JWT.Audiences...),
			Issuer:   jsii.String(args.JWT.Issuer),
		}
	}
	return props
}

func stringMap(m map[string]string) *map[string]*string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]*string, len(m))
	for k, v := range m {
		out[k] = jsii.String(v)
	}
	return &out
}
