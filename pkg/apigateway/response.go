package apigw

import (
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Response is a typedef for the response type provided by the SDK.
type Response = events.APIGatewayProxyResponse

// InternalServerErrorResponse returns an Amazon API Gateway Proxy Response configured with the correct HTTP status
// code.
func InternalServerErrorResponse() Response {
	return Response{StatusCode: http.StatusInternalServerError}
}

// ForbiddenResponse rejects a route invocation that arrived without authorizer output.
func ForbiddenResponse() Response {
	return Response{StatusCode: http.StatusForbidden}
}

// OkResponse returns an Amazon API Gateway Proxy Response configured with the correct HTTP status code.
func OkResponse() Response {
	return Response{StatusCode: http.StatusOK}
}

// AuthorizerPrincipal extracts the principalId an authorizer attached to the request context.
func AuthorizerPrincipal(authorizer interface{}) (string, bool) {
	m, ok := authorizer.(map[string]interface{})
	if !ok {
		return "", false
	}
	principalId, ok := m["principalId"].(string)
	return principalId, ok && principalId != ""
}
