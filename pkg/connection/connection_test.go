package connection_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/ian-pascoe/ion/pkg/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	put    *dynamodb.PutItemInput
	delete *dynamodb.DeleteItemInput
}

func (f *fakeDynamoDB) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.put = in
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	f.delete = in
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestCreate(t *testing.T) {
	db := &fakeDynamoDB{}

	err := connection.New("conn-1", "u1").Create(db, "connections")
	require.NoError(t, err)

	assert.Equal(t, "connections", aws.StringValue(db.put.TableName))
	assert.Equal(t, "conn-1", aws.StringValue(db.put.Item["ConnectionId"].S))
	assert.Equal(t, "u1", aws.StringValue(db.put.Item["PrincipalId"].S))
	assert.NotEmpty(t, aws.StringValue(db.put.Item["Created"].S))
}

func TestDelete(t *testing.T) {
	db := &fakeDynamoDB{}

	err := connection.NewWithConnectionId("conn-1").Delete(db, "connections")
	require.NoError(t, err)

	assert.Equal(t, "connections", aws.StringValue(db.delete.TableName))
	assert.Equal(t, "conn-1", aws.StringValue(db.delete.Key["ConnectionId"].S))
	assert.Nil(t, db.delete.ConditionExpression)
}

func TestDelete_OwnedByPrincipal(t *testing.T) {
	db := &fakeDynamoDB{}

	err := connection.New("conn-1", "u1").Delete(db, "connections")
	require.NoError(t, err)

	assert.Equal(t, "conn-1", aws.StringValue(db.delete.Key["ConnectionId"].S))
	assert.Equal(t, "PrincipalId = :principalId", aws.StringValue(db.delete.ConditionExpression))
	assert.Equal(t, "u1", aws.StringValue(db.delete.ExpressionAttributeValues[":principalId"].S))
}

func TestIsNotOwned(t *testing.T) {
	conditional := awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "The conditional request failed", nil)

	assert.True(t, connection.IsNotOwned(conditional))
	assert.True(t, connection.IsNotOwned(fmt.Errorf("delete: %w", conditional)))
	assert.False(t, connection.IsNotOwned(awserr.New(dynamodb.ErrCodeResourceNotFoundException, "no table", nil)))
	assert.False(t, connection.IsNotOwned(errors.New("boom")))
	assert.False(t, connection.IsNotOwned(nil))
}
