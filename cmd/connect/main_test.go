package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	err  error
	puts []*dynamodb.PutItemInput
}

func (f *fakeDynamoDB) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func connectRequest(authorizer interface{}) *events.APIGatewayWebsocketProxyRequest {
	return &events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			ConnectionID: "conn-1",
			Authorizer:   authorizer,
		},
	}
}

func TestHandler_StoresPrincipal(t *testing.T) {
	db := &fakeDynamoDB{}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), connectRequest(map[string]interface{}{
		"principalId": "u1",
		"userId":      "u1",
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, db.puts, 1)
	assert.Equal(t, "connections", aws.StringValue(db.puts[0].TableName))
	assert.Equal(t, "u1", aws.StringValue(db.puts[0].Item["PrincipalId"].S))
	assert.Equal(t, "conn-1", aws.StringValue(db.puts[0].Item["ConnectionId"].S))
}

func TestHandler_NoPrincipal(t *testing.T) {
	db := &fakeDynamoDB{}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), connectRequest(nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, db.puts)
}

func TestHandler_StoreFailure(t *testing.T) {
	db := &fakeDynamoDB{err: errors.New("ProvisionedThroughputExceededException")}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), connectRequest(map[string]interface{}{"principalId": "u1"}))

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
