package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tk := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}

	s, err := tk.Mint("user-1", RoleBuyer, time.Now())
	require.NoError(t, err)

	p, err := tk.Verify(s)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, RoleBuyer, p.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	s, err := Tokens{Secret: []byte("one"), TTL: time.Hour}.Mint("user-1", RoleAdmin, time.Now())
	require.NoError(t, err)

	_, err = Tokens{Secret: []byte("two"), TTL: time.Hour}.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tk := Tokens{Secret: []byte("test-secret"), TTL: time.Minute}
	s, err := tk.Mint("user-1", RoleBuyer, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tk.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tk := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	s, err := tk.Mint("user-1", Role("superuser"), time.Now())
	require.NoError(t, err)

	_, err = tk.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "s3cret"))
	assert.False(t, CheckPassword(h, "wrong"))
}
