package authorizer_test

import (
	"testing"

	"github.com/ian-pascoe/ion/pkg/authorizer"
	"github.com/stretchr/testify/assert"
)

func TestLambdaInvokeURI(t *testing.T) {
	uri := authorizer.LambdaInvokeURI("aws", "eu-central-1", "arn:aws:lambda:eu-central-1:123456789012:function:auth")

	assert.Equal(t, "arn:aws:apigateway:eu-central-1:lambda:path/2015-03-31/functions/arn:aws:lambda:eu-central-1:123456789012:function:auth/invocations", uri)
}

func TestExecutionARN(t *testing.T) {
	assert.Equal(t, "arn:aws-cn:execute-api:cn-north-1:123456789012:a1b2c3", authorizer.ExecutionARN("aws-cn", "cn-north-1", "123456789012", "a1b2c3"))
}

func TestSourceARN(t *testing.T) {
	assert.Equal(t, "arn:aws:execute-api:eu-central-1:123456789012:a1b2c3/authorizers/x9", authorizer.SourceARN("arn:aws:execute-api:eu-central-1:123456789012:a1b2c3", "x9"))
}
