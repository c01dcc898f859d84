package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/student-bubble/internal/domain"
)

// fakeItems keeps items by identity and evaluates the "#c = :c" delete
// condition the way DynamoDB does.
type fakeItems struct {
	items      map[string]map[string]types.AttributeValue
	lastPut    *dynamodb.PutItemInput
	lastGet    *dynamodb.GetItemInput
	lastDelete *dynamodb.DeleteItemInput
	err        error
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(key map[string]types.AttributeValue) string {
	return key[fieldIdentity].(*types.AttributeValueMemberS).Value
}

func (f *fakeItems) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGet = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeItems) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.err != nil {
		return nil, f.err
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeItems) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastDelete = in
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Key)
	item, ok := f.items[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	stored := item[in.ExpressionAttributeNames["#c"]].(*types.AttributeValueMemberS).Value
	want := in.ExpressionAttributeValues[":c"].(*types.AttributeValueMemberS).Value
	if stored != want {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("code mismatch")}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func putRecord(t *testing.T, s *OTPStore, code string) domain.OtpRecord {
	t.Helper()
	rec := domain.OtpRecord{
		Identity:  "ana@uni.edu",
		Code:      code,
		ExpiresAt: time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}
	require.NoError(t, s.Put(context.Background(), rec))
	return rec
}

func TestOTPStore_PutThenGet(t *testing.T) {
	fake := newFakeItems()
	s := NewOTPStore(fake, "OtpCodes")
	rec := putRecord(t, s, "123456")

	assert.Equal(t, "OtpCodes", aws.ToString(fake.lastPut.TableName))
	ttl, ok := fake.lastPut.Item["ttl"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1772363100", ttl.Value) // expiresAt + 1h

	got, found, err := s.Get(context.Background(), rec.Identity)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rec.Code, got.Code)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, aws.ToBool(fake.lastGet.ConsistentRead))
}

func TestOTPStore_GetMissing(t *testing.T) {
	s := NewOTPStore(newFakeItems(), "OtpCodes")

	_, found, err := s.Get(context.Background(), "nobody@uni.edu")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOTPStore_ConsumeMatchingCodeDeletes(t *testing.T) {
	fake := newFakeItems()
	s := NewOTPStore(fake, "OtpCodes")
	rec := putRecord(t, s, "123456")

	ok, err := s.Consume(context.Background(), rec.Identity, "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#c = :c", aws.ToString(fake.lastDelete.ConditionExpression))
	assert.Equal(t, fieldCode, fake.lastDelete.ExpressionAttributeNames["#c"])

	_, found, err := s.Get(context.Background(), rec.Identity)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOTPStore_ConsumeTwiceOnlyFirstWins(t *testing.T) {
	s := NewOTPStore(newFakeItems(), "OtpCodes")
	rec := putRecord(t, s, "123456")

	first, err := s.Consume(context.Background(), rec.Identity, "123456")
	require.NoError(t, err)
	second, err := s.Consume(context.Background(), rec.Identity, "123456")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestOTPStore_ConsumeReplacedCodeKeepsRecord(t *testing.T) {
	s := NewOTPStore(newFakeItems(), "OtpCodes")
	putRecord(t, s, "111111")
	rec := putRecord(t, s, "222222")

	ok, err := s.Consume(context.Background(), rec.Identity, "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	got, found, err := s.Get(context.Background(), rec.Identity)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "222222", got.Code)
}

func TestOTPStore_ConsumePropagatesOtherErrors(t *testing.T) {
	fake := newFakeItems()
	fake.err = errors.New("throttled")
	s := NewOTPStore(fake, "OtpCodes")

	ok, err := s.Consume(context.Background(), "ana@uni.edu", "123456")
	assert.False(t, ok)
	assert.EqualError(t, err, "throttled")
}
