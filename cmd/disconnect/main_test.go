package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	err     error
	deletes []*dynamodb.DeleteItemInput
}

func (f *fakeDynamoDB) DeleteItem(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.err
}

func disconnectRequest(authorizer interface{}) *events.APIGatewayWebsocketProxyRequest {
	return &events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			ConnectionID: "conn-1",
			Authorizer:   authorizer,
		},
	}
}

func TestHandler_DeletesOwnConnection(t *testing.T) {
	db := &fakeDynamoDB{}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), disconnectRequest(map[string]interface{}{"principalId": "u1"}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, db.deletes, 1)
	assert.Equal(t, "connections", aws.StringValue(db.deletes[0].TableName))
	assert.Equal(t, "conn-1", aws.StringValue(db.deletes[0].Key["ConnectionId"].S))
	assert.Equal(t, "u1", aws.StringValue(db.deletes[0].ExpressionAttributeValues[":principalId"].S))
}

func TestHandler_NoPrincipal(t *testing.T) {
	db := &fakeDynamoDB{}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), disconnectRequest(nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, db.deletes, 1)
	assert.Equal(t, "conn-1", aws.StringValue(db.deletes[0].Key["ConnectionId"].S))
	assert.Nil(t, db.deletes[0].ConditionExpression)
}

func TestHandler_OtherPrincipal(t *testing.T) {
	db := &fakeDynamoDB{err: awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "The conditional request failed", nil)}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), disconnectRequest(map[string]interface{}{"principalId": "u2"}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandler_DeleteFailure(t *testing.T) {
	db := &fakeDynamoDB{err: errors.New("ProvisionedThroughputExceededException")}
	h := handler(handlerDependencies{DynamoDB: db, Logger: zap.NewNop(), TableName: "connections"})

	resp, err := h(context.Background(), disconnectRequest(map[string]interface{}{"principalId": "u1"}))

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
