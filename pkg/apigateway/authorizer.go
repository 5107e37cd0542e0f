package apigw

const (
	// PolicyVersion is the IAM policy language version of every authorizer policy.
	PolicyVersion = "2012-10-17"
	// InvokeAction is the action gated by authorizer policies.
	InvokeAction = "execute-api:Invoke"
)

// Effect of a policy statement.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// EffectOf maps an authorization outcome to a statement effect.
func EffectOf(authorized bool) Effect {
	if authorized {
		return EffectAllow
	}
	return EffectDeny
}

type CustomAuthorizerResponse struct {
	PrincipalId        string                 `json:"principalId"`
	PolicyDocument     PolicyDocument         `json:"policyDocument"`
	Context            map[string]interface{} `json:"context,omitempty"`
	UsageIdentifierKey string                 `json:"usageIdentifierKey,omitempty"`
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

type Statement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

// InvokeStatement returns the statement allowing or denying invocation of arn.
func InvokeStatement(effect Effect, arn string) Statement {
	return Statement{
		Action:   InvokeAction,
		Effect:   effect,
		Resource: arn,
	}
}

// AuthorizerDeny denies invocation of arn.
func AuthorizerDeny(arn string, principalId string) CustomAuthorizerResponse {
	return CustomAuthorizerResponse{
		PrincipalId: principalId,
		PolicyDocument: PolicyDocument{
			Version:   PolicyVersion,
			Statement: []Statement{InvokeStatement(EffectDeny, arn)},
		},
	}
}

// AuthorizerAllow allows principalId to invoke arn.
func AuthorizerAllow(arn string, principalId string) CustomAuthorizerResponse {
	return CustomAuthorizerResponse{
		PrincipalId: principalId,
		PolicyDocument: PolicyDocument{
			Version:   PolicyVersion,
			Statement: []Statement{InvokeStatement(EffectAllow, arn)},
		},
	}
}
