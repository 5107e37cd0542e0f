package authorizer

import (
	"github.com/aws/aws-sdk-go/aws/arn"
)

// LambdaInvokeURI returns the API Gateway integration URI invoking the given function.
func LambdaInvokeURI(partition, region, functionARN string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "apigateway",
		Region:    region,
		AccountID: "lambda",
		Resource:  "path/2015-03-31/functions/" + functionARN + "/invocations",
	}.String()
}

// ExecutionARN returns the execute-api ARN of an API.
func ExecutionARN(partition, region, account, apiID string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "execute-api",
		Region:    region,
		AccountID: account,
		Resource:  apiID,
	}.String()
}

// SourceARN scopes an invocation permission to a single authorizer of an API.
func SourceARN(executionARN, authorizerID string) string {
	return executionARN + "/authorizers/" + authorizerID
}
