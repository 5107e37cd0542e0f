package connection

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// Connection is an authorized WebSocket connection.
type Connection struct {
	ConnectionId string
	PrincipalId  string
	Created      time.Time
}

func New(connectionId string, principalId string) Connection {
	return Connection{
		ConnectionId: connectionId,
		PrincipalId:  principalId,
	}
}

func NewWithConnectionId(connectionId string) Connection {
	return Connection{
		ConnectionId: connectionId,
	}
}

// Create stores the connection in the given DynamoDB table
func (connection Connection) Create(dynamoDbSvc dynamodbiface.DynamoDBAPI, table string) error {
	connection.Created = time.Now()

	av, err := dynamodbattribute.MarshalMap(connection)
	if err != nil {
		return err
	}

	_, err = dynamoDbSvc.PutItem(&dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(table),
	})
	return err
}

// Delete deletes connection by the provided ConnectionId. When the connection
// carries a PrincipalId the record is deleted only if it belongs to that
// principal, otherwise the call fails with a conditional check error.
func (connection Connection) Delete(dynamoDbSvc dynamodbiface.DynamoDBAPI, table string) error {
	in := &dynamodb.DeleteItemInput{
		Key: map[string]*dynamodb.AttributeValue{
			"ConnectionId": {
				S: aws.String(connection.ConnectionId),
			},
		},
		TableName: aws.String(table),
	}
	if connection.PrincipalId != "" {
		in.ConditionExpression = aws.String("PrincipalId = :principalId")
		in.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":principalId": {S: aws.String(connection.PrincipalId)},
		}
	}

	_, err := dynamoDbSvc.DeleteItem(in)
	return err
}

// IsNotOwned reports whether err is the conditional check failure of a Delete
// issued for another principal.
func IsNotOwned(err error) bool {
	var aerr awserr.Error
	return errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}
