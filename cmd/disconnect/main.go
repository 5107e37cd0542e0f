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
				DynamoDB:  dynamodb.New(sess),
				Logger:    logger,
				TableName: table,
			},
		),
	)
}

func handler(d handlerDependencies) func(_ context.Context, req *events.APIGatewayWebsocketProxyRequest) (apigw.Response, error) {
	return func(_ context.Context, req *events.APIGatewayWebsocketProxyRequest) (apigw.Response, error) {

		connectionId := req.RequestContext.ConnectionID

		// API Gateway replays the $connect authorizer output on $disconnect,
		// only the principal that opened the connection may remove it
		conn := connection.NewWithConnectionId(connectionId)
		if principalId, ok := apigw.AuthorizerPrincipal(req.RequestContext.Authorizer); ok {
			conn = connection.New(connectionId, principalId)
		}

		d.Logger.Info("removing connection",
			zap.String("connectionId", connectionId),
			zap.String("principalId", conn.PrincipalId),
		)

		err := conn.Delete(d.DynamoDB, d.TableName)
		if connection.IsNotOwned(err) {
			d.Logger.Warn("connection belongs to another principal",
				zap.String("connectionId", connectionId),
				zap.String("principalId", conn.PrincipalId),
			)
			return apigw.ForbiddenResponse(), nil
		}
		if err != nil {
			d.Logger.Error("could not delete dynamodb record",
				zap.String("connectionId", connectionId),
				zap.Error(err),
			)
			return apigw.InternalServerErrorResponse(), fmt.Errorf("could not delete DynamoDB record: %s", err)
		}

		return apigw.OkResponse(), nil
	}
}
