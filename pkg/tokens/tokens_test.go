package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret: []byte("test-jwt-secret"),
		Expiry: 15 * time.Minute,
	}
}

func TestSignAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	userID := uuid.NewString()

	token, err := cfg.Sign(userID, "alice", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := cfg.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(cfg.Expiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Expiry = -time.Minute

	token, err := cfg.Sign(uuid.NewString(), "alice", "STAFF")
	require.NoError(t, err)

	claims, err := cfg.Parse(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	token, err := cfg.Sign(uuid.NewString(), "alice", "STAFF")
	require.NoError(t, err)

	other := Config{Secret: []byte("other-secret"), Expiry: cfg.Expiry}
	claims, err := other.Parse(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	claims, err := cfg.Parse("not-a-jwt")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrMalformed)
}
