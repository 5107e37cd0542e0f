package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	apigw "github.com/ian-pascoe/ion/pkg/apigateway"
	"github.com/ian-pascoe/ion/pkg/connection"
	"go.uber.org/zap"
)

type handlerDependencies struct {
	DynamoDB  dynamodbiface.DynamoDBAPI
	Logger    *zap.Logger
	TableName string
}

func main() {
	// create AWS session
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	// get dynamodb table name
	table := os.Getenv("CONFIG_CONNECTIONS_TABLE_ID")

	// create a logger
	logger, _ := zap.NewProduction()

	// start the main handler
	lambda.Start(
		handler(
			handlerDependencies{
				Logger:    logger,
				DynamoDB:  dynamodb.New(sess),
				TableName: table,
			},
		),
	)
}

func handler(d handlerDependencies) func(_ context.Context, req *events.APIGatewayWebsocketProxyRequest) (apigw.Response, error) {
	return func(_ context.Context, req *events.APIGatewayWebsocketProxyRequest) (apigw.Response, error) {

		// get the connection id
		connectionId := req.RequestContext.ConnectionID

		// the authorizer already let the connection in, take its principal
		principalId, ok := apigw.AuthorizerPrincipal(req.RequestContext.Authorizer)
		if !ok {
			d.Logger.Error("connection without authorizer principal",
				zap.String("connectionId", connectionId),
			)
			return apigw.ForbiddenResponse(), nil
		}

		d.Logger.Info("a new connection opened",
			zap.String("connectionId", connectionId),
			zap.String("principalId", principalId),
		)

		// put record to db
		err := connection.New(connectionId, principalId).Create(d.DynamoDB, d.TableName)
		if err != nil {
			d.Logger.Error("could not create a dynamodb record",
				zap.Error(err),
			)
			return apigw.InternalServerErrorResponse(), fmt.Errorf("could not create DynamoDB record: %s", err)
		}

		// all good
		return apigw.OkResponse(), nil
	}
}
