package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("secret", 1)

	token, err := m.GenerateToken("s-1", RoleCook, "v-1", "Auntie May")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, RoleCook, claims.Role)
	assert.Equal(t, "v-1", claims.VendorID)
	assert.Equal(t, "Auntie May", claims.VendorName)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	token, err := NewJWTManager("one", 1).GenerateToken("s-1", RoleCustomer, "", "")
	require.NoError(t, err)

	_, err = NewJWTManager("two", 1).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -1)
	token, err := m.GenerateToken("s-1", RoleCustomer, "", "")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
