// Package stack assembles a WebSocket API whose $connect route is guarded by
// a configured authorizer.
package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigatewayv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/ian-pascoe/ion/pkg/authorizer"
	"github.com/ian-pascoe/ion/pkg/provision"
	"go.uber.org/zap"
)

// Environment variables read by the Lambda functions of the stack.
const (
	EnvConnectionsTable  = "CONFIG_CONNECTIONS_TABLE_ID"
	EnvSharedTokenSecret = "CONFIG_SHARED_TOKEN_SECRET_ARN"
)

// New adds the stack described by c to app and returns the configured authorizer.
func New(app constructs.Construct, c Config, props *awscdk.StackProps, logger *zap.Logger) (awscdk.Stack, *authorizer.Descriptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := authorizer.ModeOf(c.Authorizer); err != nil {
		return nil, nil, err
	}
	// WebSocket routes only accept REQUEST authorizers
	if c.Authorizer.JWT != nil {
		return nil, nil, &authorizer.ErrConfiguration{
			Authorizer: c.Authorizer.Name,
			Reason:     "WebSocket APIs support only REQUEST authorizers",
		}
	}
	if id, ok := collides(c.Authorizer.Name); ok {
		return nil, nil, &authorizer.ErrConfiguration{
			Authorizer: c.Authorizer.Name,
			Reason:     fmt.Sprintf("construct id %q is already used by the stack", id),
		}
	}

	stack := awscdk.NewStack(app, jsii.String(c.StackName), props)

	api := awsapigatewayv2.NewCfnApi(stack, jsii.String("Api"), &awsapigatewayv2.CfnApiProps{
		Name:                     jsii.String(c.APIName),
		ProtocolType:             jsii.String("WEBSOCKET"),
		RouteSelectionExpression: jsii.String("$request.body.action"),
	})
	executionARN := authorizer.ExecutionARN(*stack.Partition(), *stack.Region(), *stack.Account(), *api.Ref())

	table := awsdynamodb.NewTable(stack, jsii.String("Connections"), &awsdynamodb.TableProps{
		PartitionKey: &awsdynamodb.Attribute{
			Name: jsii.String("ConnectionId"),
			Type: awsdynamodb.AttributeType_STRING,
		},
		BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	spec := withSecret(c.Authorizer, c.SharedTokenSecretARN)
	provisioner := provision.NewCDK(stack, logger)
	d, err := authorizer.NewConfigurator(provisioner, logger).Configure(spec, authorizer.API{
		ID:           *api.Ref(),
		Name:         c.APIName,
		ExecutionARN: executionARN,
	})
	if err != nil {
		return nil, nil, err
	}

	if c.SharedTokenSecretARN != "" {
		if fn := provisioner.Function(spec.Name + "Function"); fn != nil {
			fn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Actions:   jsii.Strings("secretsmanager:GetSecretValue"),
				Resources: jsii.Strings(c.SharedTokenSecretARN),
			}))
		}
	}

	r := routes{stack: stack, api: api, table: table, executionARN: executionARN}
	r.add(connectRoute, "$connect", c.ConnectCodePath, d)
	r.add(disconnectRoute, "$disconnect", c.DisconnectCodePath, nil)

	awsapigatewayv2.NewCfnStage(stack, jsii.String("Stage"), &awsapigatewayv2.CfnStageProps{
		ApiId:      api.Ref(),
		StageName:  jsii.String(c.Stage),
		AutoDeploy: jsii.Bool(true),
	})

	awscdk.NewCfnOutput(stack, jsii.String("AuthorizerId"), &awscdk.CfnOutputProps{Value: jsii.String(d.ID())})
	awscdk.NewCfnOutput(stack, jsii.String("ApiEndpoint"), &awscdk.CfnOutputProps{
		Value: jsii.String(fmt.Sprintf("%s/%s", *api.AttrApiEndpoint(), c.Stage)),
	})

	return stack, d, nil
}

const (
	connectRoute    = "Connect"
	disconnectRoute = "Disconnect"
)

// stackIDs are the construct ids New adds next to the authorizer's.
func stackIDs() []string {
	ids := []string{"Api", "Connections", "Stage", "AuthorizerId", "ApiEndpoint"}
	for _, route := range []string{connectRoute, disconnectRoute} {
		for _, suffix := range []string{"Function", "Permission", "Integration", "Route"} {
			ids = append(ids, route+suffix)
		}
	}
	return ids
}

// collides returns the first construct id the authorizer called name would
// share with the rest of the stack.
func collides(name string) (string, bool) {
	own := map[string]bool{name: true, name + "Function": true, name + "Permission": true}
	for _, id := range stackIDs() {
		if own[id] {
			return id, true
		}
	}
	return "", false
}

// withSecret passes the shared token secret to a function-backed authorizer.
func withSecret(spec authorizer.Spec, secretARN string) authorizer.Spec {
	if spec.Function == nil || secretARN == "" {
		return spec
	}

	fn := *spec.Function
	fn.Environment = make(map[string]string, len(spec.Function.Environment)+1)
	for k, v := range spec.Function.Environment {
		fn.Environment[k] = v
	}
	fn.Environment[EnvSharedTokenSecret] = secretARN
	spec.Function = &fn
	return spec
}

type routes struct {
	stack        awscdk.Stack
	api          awsapigatewayv2.CfnApi
	table        awsdynamodb.Table
	executionARN string
}

// add creates a function integrated with routeKey. The route is guarded when
// d is not nil.
func (r routes) add(name, routeKey, codePath string, d *authorizer.Descriptor) {
	fn := awslambda.NewFunction(r.stack, jsii.String(name+"Function"), &awslambda.FunctionProps{
		Code:    awslambda.Code_FromAsset(jsii.String(codePath), nil),
		Handler: jsii.String(provision.DefaultHandler),
		Runtime: awslambda.Runtime_PROVIDED_AL2(),
		Environment: &map[string]*string{
			EnvConnectionsTable: r.table.TableName(),
		},
	})
	r.table.GrantReadWriteData(fn)

	awslambda.NewCfnPermission(r.stack, jsii.String(name+"Permission"), &awslambda.CfnPermissionProps{
		Action:       jsii.String("lambda:InvokeFunction"),
		FunctionName: fn.FunctionArn(),
		Principal:    jsii.String("apigateway.amazonaws.com"),
		SourceArn:    jsii.String(r.executionARN + "/*/" + routeKey),
	})

	integration := awsapigatewayv2.NewCfnIntegration(r.stack, jsii.String(name+"Integration"), &awsapigatewayv2.CfnIntegrationProps{
		ApiId:           r.api.Ref(),
		IntegrationType: jsii.String("AWS_PROXY"),
		IntegrationUri:  jsii.String(authorizer.LambdaInvokeURI(*r.stack.Partition(), *r.stack.Region(), *fn.FunctionArn())),
	})

	props := &awsapigatewayv2.CfnRouteProps{
		ApiId:    r.api.Ref(),
		RouteKey: jsii.String(routeKey),
		Target:   jsii.String("integrations/" + *integration.Ref()),
	}
	if d != nil {
		props.AuthorizationType = jsii.String("CUSTOM")
		props.AuthorizerId = jsii.String(d.ID())
	} else {
		props.AuthorizationType = jsii.String("NONE")
	}
	awsapigatewayv2.NewCfnRoute(r.stack, jsii.String(name+"Route"), props)
}
