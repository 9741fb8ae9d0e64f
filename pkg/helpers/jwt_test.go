package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("secret", time.Hour)
	token, exp, err := m.Generate("u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestJWTManager_ParseRejects(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := NewJWTManager("other-secret", time.Hour)
		token, _, err := other.Generate("u-1")
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		past := NewJWTManager("secret", -time.Hour)
		token, _, err := past.Generate("u-1")
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := m.Parse("not.a.token")
		assert.Error(t, err)
	})
}
