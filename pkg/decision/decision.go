// Package decision turns authorization outcomes into API Gateway custom
// authorizer responses.
package decision

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	apigw "github.com/ian-pascoe/ion/pkg/apigateway"
	"go.uber.org/zap"
)

// Request is the event API Gateway sends to REQUEST authorizers.
type Request = events.APIGatewayCustomAuthorizerRequestTypeRequest

// Response is the protocol response returned to API Gateway.
type Response = apigw.CustomAuthorizerResponse

// PolicyFragment is a partial policy document supplied by a handler. Its
// statements are appended after the mandatory statement, Version is ignored.
// Each statement carries a single action and a single resource, a statement
// covering several of either has to be split into one statement per pair.
type PolicyFragment struct {
	Version   string
	Statement []apigw.Statement
}

// Input is the outcome of a user handler.
type Input struct {
	Authorized bool
	// PrincipalID defaults to the current time in epoch milliseconds.
	PrincipalID        string
	Context            map[string]interface{}
	PolicyDocument     *PolicyFragment
	UsageIdentifierKey string
}

// Handler decides whether a request is authorized.
type Handler func(ctx context.Context, req Request) (Input, error)

// ProtocolHandler is a Lambda handler answering API Gateway authorizer requests.
type ProtocolHandler func(ctx context.Context, req Request) (Response, error)

type options struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures Wrap.
type Option func(*options)

// WithClock sets the clock used for default principal ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger logs every decision at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Wrap adapts h to the authorizer protocol. Errors returned by h are passed
// through unchanged and never converted into a deny.
func Wrap(h Handler, opts ...Option) ProtocolHandler {
	o := options{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context, req Request) (Response, error) {
		in, err := h(ctx, req)
		if err != nil {
			return Response{}, err
		}

		resp := Build(in, req.MethodArn, o.now)

		o.logger.Debug("authorization decision",
			zap.String("principalId", resp.PrincipalId),
			zap.String("effect", string(resp.PolicyDocument.Statement[0].Effect)),
			zap.String("methodArn", req.MethodArn),
		)
		return resp, nil
	}
}

// Build renders the response for in. The first statement always reflects
// in.Authorized for methodArn, caller statements follow in their order.
func Build(in Input, methodArn string, now func() time.Time) Response {
	principalID := PrincipalID(in.PrincipalID, now)

	var resp Response
	if in.Authorized {
		resp = apigw.AuthorizerAllow(methodArn, principalID)
	} else {
		resp = apigw.AuthorizerDeny(methodArn, principalID)
	}

	if in.PolicyDocument != nil {
		resp.PolicyDocument.Statement = append(resp.PolicyDocument.Statement, in.PolicyDocument.Statement...)
	}
	resp.Context = in.Context
	resp.UsageIdentifierKey = in.UsageIdentifierKey

	return resp
}

// PrincipalID returns id, or the epoch milliseconds of now() when id is empty.
func PrincipalID(id string, now func() time.Time) string {
	if id != "" {
		return id
	}
	return strconv.FormatInt(now().UnixMilli(), 10)
}
