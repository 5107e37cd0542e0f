package main

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/ian-pascoe/ion/pkg/decision"
	"github.com/ian-pascoe/ion/pkg/token"
	"go.uber.org/zap"
)

type handlerDependencies struct {
	Logger *zap.Logger
	Tokens token.Source
}

func main() {
	secretARN := os.Getenv("CONFIG_SHARED_TOKEN_SECRET_ARN")

	// create AWS session
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	// create a logger
	logger, _ := zap.NewProduction()

	// start the main handler
	lambda.Start(
		decision.Wrap(
			handler(
				handlerDependencies{
					Logger: logger,
					Tokens: token.NewSecretsManager(secretsmanager.New(sess), secretARN),
				},
			),
			decision.WithLogger(logger),
		),
	)
}

func handler(d handlerDependencies) decision.Handler {
	return func(ctx context.Context, req decision.Request) (decision.Input, error) {

		// get the user and the presented token
		userId := req.QueryStringParameters["userId"]

		got := bearer(header(req.Headers, "Authorization"))
		if got == "" {
			got = strings.TrimSpace(req.QueryStringParameters["token"])
		}

		want, err := d.Tokens.Token(ctx)
		if err != nil {
			d.Logger.Error("could not read the shared token",
				zap.Error(err),
			)
			return decision.Input{}, err
		}

		authorized := got != "" && userId != "" && got == want
		if !authorized {
			d.Logger.Info("connection denied",
				zap.String("userId", userId),
				zap.String("requestId", req.RequestContext.RequestID),
			)
		}

		return decision.Input{
			Authorized:  authorized,
			PrincipalID: userId,
			Context: map[string]interface{}{
				"userId": userId,
			},
		}, nil
	}
}

// header looks name up ignoring case, clients are free to lowercase header names.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func bearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "Bearer "))
}
