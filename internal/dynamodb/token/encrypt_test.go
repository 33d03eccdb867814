package token_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/notifications/internal/dynamodb/token"
)

func TestEncryptionMarshaler(t *testing.T) {
	marshaler := token.NewGCM()
	accountId := "012345678912"
	lastKey := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "012345678912:Subscription"},
		"SK": &types.AttributeValueMemberS{Value: "cafebabe-0000-1111-2222-deadbeef0000"},
	}

	t.Run("thing==Unmarshal(Marshal(thing))", func(t *testing.T) {
		token, err := marshaler.Marshal(accountId, lastKey)
		if err != nil {
			t.Fatalf("Failed to marshal token: %s", err)
		}
		otherKey, err := marshaler.Unmarshal(accountId, token)
		if err != nil {
			t.Fatalf("Failed to unmarshal token: %s", err)
		}
		for field, value := range lastKey {
			sv, ok := otherKey[field].(*types.AttributeValueMemberS)
			if !ok {
				t.Fatalf("Field %s is not an S type: %v", field, otherKey[field])
			}
			if sv.Value != value.(*types.AttributeValueMemberS).Value {
				t.Errorf("Field %s round-tripped to %s", field, sv.Value)
			}
		}
	})

	t.Run("EmptyKeyIsNilToken", func(t *testing.T) {
		var emptyKey map[string]types.AttributeValue
		token, err := marshaler.Marshal(accountId, emptyKey)
		if err != nil {
			t.Fatalf("Threw an error on marshal: %s", err)
		}
		if token != nil {
			t.Fatalf("Whoa %s is not nil!", token)
		}
	})

	t.Run("accountA!=accountB", func(t *testing.T) {
		token, err := marshaler.Marshal(accountId, lastKey)
		if err != nil {
			t.Fatalf("Failed to marshal token: %s", err)
		}
		otherKey, err := marshaler.Unmarshal("987654321012", token)
		if err == nil {
			t.Fatalf("Expected an err but received, %v", otherKey)
		}
	})
}
