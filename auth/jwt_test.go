// auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equiptrack/models"
)

func TestSigner(t *testing.T) {
	user := models.AuthUser{
		ID: "user_1", Name: "Riley", Contact: "10002",
		Role: models.RoleRegularUser, DepartmentID: "dept_tech",
	}

	t.Run("round trip", func(t *testing.T) {
		s := NewSigner("secret", time.Hour)
		token, jti, err := s.Issue(user)
		require.NoError(t, err)
		assert.NotEmpty(t, jti)

		claims, err := s.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user, claims.User)
		assert.Equal(t, jti, claims.ID)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, _, err := NewSigner("secret-a", time.Hour).Issue(user)
		require.NoError(t, err)
		_, err = NewSigner("secret-b", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		s := NewSigner("secret", -time.Minute)
		token, _, err := s.Issue(user)
		require.NoError(t, err)
		_, err = s.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := NewSigner("secret", time.Hour).Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
