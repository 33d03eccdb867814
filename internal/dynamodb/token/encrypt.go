package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/notifications/internal/data"
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode EncryptMode
}

func NewGCM() *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode: cipher.NewGCM,
	}
}

func _serializeLastKey(lastKey map[string]types.AttributeValue) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	token := make(data.NextToken, len(lastKey))
	for field, value := range lastKey {
		innerMap := make(map[string]string, 1)
		switch tv := value.(type) {
		case *types.AttributeValueMemberS:
			innerMap["S"] = tv.Value
		case *types.AttributeValueMemberN:
			innerMap["N"] = tv.Value
		case *types.AttributeValueMemberB:
			innerMap["B"] = string(tv.Value)
		}
		token[field] = innerMap
	}
	return json.Marshal(token)
}

func _deserializeLastKey(serialized []byte) (map[string]types.AttributeValue, error) {
	var token data.NextToken
	if err := json.Unmarshal(serialized, &token); err != nil {
		return nil, err
	}
	lastKey := make(map[string]types.AttributeValue, len(token))
	for field, innerMap := range token {
		if sv, ok := innerMap["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{Value: sv}
		}
		if nv, ok := innerMap["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{Value: nv}
		}
		if bv, ok := innerMap["B"]; ok {
			lastKey[field] = &types.AttributeValueMemberB{Value: []byte(bv)}
		}
	}
	return lastKey, nil
}

func _mode(marshaler *EncryptionTokenMarshaler, accountId string) (cipher.AEAD, error) {
	hash := sha256.Sum256([]byte(accountId))
	key, err := aes.NewCipher(hash[:])
	if err != nil {
		return nil, err
	}
	return marshaler.Mode(key)
}

// Tokens are sealed per account, so one account's page token
// cannot resume another account's query.
func (em *EncryptionTokenMarshaler) Marshal(accountId string, lastKey map[string]types.AttributeValue) ([]byte, error) {
	serialized, err := _serializeLastKey(lastKey)
	if err != nil || serialized == nil {
		return nil, err
	}
	aesgcm, err := _mode(em, accountId)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := aesgcm.Seal(nonce, nonce, serialized, nil)
	token := make([]byte, base64.URLEncoding.EncodedLen(len(sealed)))
	base64.URLEncoding.Encode(token, sealed)
	return token, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(accountId string, token []byte) (map[string]types.AttributeValue, error) {
	if len(token) == 0 {
		return nil, nil
	}
	sealed := make([]byte, base64.URLEncoding.DecodedLen(len(token)))
	n, err := base64.URLEncoding.Decode(sealed, token)
	if err != nil {
		return nil, err
	}
	sealed = sealed[:n]
	aesgcm, err := _mode(em, accountId)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aesgcm.NonceSize() {
		return nil, base64.CorruptInputError(0)
	}
	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]
	serialized, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return _deserializeLastKey(serialized)
}
