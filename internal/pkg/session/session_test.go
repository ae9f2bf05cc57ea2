package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	payload := Payload{
		ID:      "user-1",
		Email:   "bidder@example.com",
		Role:    RoleUser,
		TagID:   "342",
		Expires: time.Now().Add(time.Hour),
	}

	token, err := codec.Encrypt(payload)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got := codec.Decrypt(token)
	require.NotNil(t, got)
	require.Equal(t, payload.ID, got.ID)
	require.Equal(t, payload.Email, got.Email)
	require.Equal(t, payload.Role, got.Role)
	require.Equal(t, payload.TagID, got.TagID)
	require.WithinDuration(t, payload.Expires, got.Expires, time.Second)
}

func TestDecryptReturnsNilOnGarbage(t *testing.T) {
	codec := NewCodec("test-secret")

	require.Nil(t, codec.Decrypt(""))
	require.Nil(t, codec.Decrypt("not-a-token"))
	require.Nil(t, codec.Decrypt("aaa.bbb.ccc"))
}

func TestDecryptReturnsNilOnWrongSecret(t *testing.T) {
	codec := NewCodec("test-secret")
	other := NewCodec("other-secret")

	token, err := codec.Encrypt(Payload{
		ID:      "user-1",
		Email:   "bidder@example.com",
		Role:    RoleUser,
		Expires: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.Nil(t, other.Decrypt(token))
}

func TestDecryptReturnsNilOnExpired(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Encrypt(Payload{
		ID:      "user-1",
		Email:   "bidder@example.com",
		Role:    RoleUser,
		Expires: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	require.Nil(t, codec.Decrypt(token))
}

func TestRefreshSlidesExpiryKeepingIdentity(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Encrypt(Payload{
		ID:      "user-1",
		Email:   "bidder@example.com",
		Role:    RoleAdmin,
		TagID:   "108",
		Expires: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	fresh, payload := codec.Refresh(token)
	require.NotEmpty(t, fresh)
	require.NotNil(t, payload)
	require.Equal(t, "user-1", payload.ID)
	require.Equal(t, RoleAdmin, payload.Role)
	require.WithinDuration(t, time.Now().Add(TTL), payload.Expires, 5*time.Second)

	got := codec.Decrypt(fresh)
	require.NotNil(t, got)
	require.Equal(t, "108", got.TagID)
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	codec := NewCodec("test-secret")

	fresh, payload := codec.Refresh("bogus")
	require.Empty(t, fresh)
	require.Nil(t, payload)
}
