package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/student-bubble/internal/domain"
)

// otpRetention keeps expired records readable long enough for verification
// to report them as expired rather than missing. DynamoDB TTL removes them
// some time after.
const otpRetention = time.Hour

// otpItem is the stored shape of an OtpRecord.
// PK: identity. TTL attribute: ttl (Unix seconds).
type otpItem struct {
	Identity  string    `dynamodbav:"identity"`
	Code      string    `dynamodbav:"code"`
	ExpiresAt time.Time `dynamodbav:"expires_at"`
	TTL       int64     `dynamodbav:"ttl"`
}

// OTPStore keeps one-time codes in DynamoDB so they survive restarts and are
// shared between instances.
type OTPStore struct {
	client    ItemAPI
	tableName string
}

func NewOTPStore(client ItemAPI, tableName string) *OTPStore {
	return &OTPStore{client: client, tableName: tableName}
}

func (s *OTPStore) Put(ctx context.Context, rec domain.OtpRecord) error {
	return putItem(ctx, s.client, s.tableName, otpItem{
		Identity:  rec.Identity,
		Code:      rec.Code,
		ExpiresAt: rec.ExpiresAt,
		TTL:       rec.ExpiresAt.Add(otpRetention).Unix(),
	})
}

func (s *OTPStore) Get(ctx context.Context, identity string) (domain.OtpRecord, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey(fieldIdentity, identity),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.OtpRecord{}, false, err
	}
	if out.Item == nil {
		return domain.OtpRecord{}, false, nil
	}
	var it otpItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return domain.OtpRecord{}, false, fmt.Errorf("unmarshal otp: %w", err)
	}
	return domain.OtpRecord{Identity: it.Identity, Code: it.Code, ExpiresAt: it.ExpiresAt}, true, nil
}

// Consume deletes the record only while its code still matches.
func (s *OTPStore) Consume(ctx context.Context, identity, code string) (bool, error) {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      strKey(fieldIdentity, identity),
		ConditionExpression:      aws.String("#c = :c"),
		ExpressionAttributeNames: map[string]string{"#c": fieldCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
