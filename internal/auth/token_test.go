package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/roster-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 15)
	role := domain.AdminRoleFormation
	formationID := int64(7)

	token, expiresAt, err := tm.Generate(TokenSubject{
		ID:          42,
		Type:        domain.SubjectTypeAdmin,
		AdminRole:   &role,
		FormationID: &formationID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
	require.NotNil(t, claims.AdminRole)
	assert.Equal(t, domain.AdminRoleFormation, *claims.AdminRole)
	require.NotNil(t, claims.FormationID)
	assert.Equal(t, formationID, *claims.FormationID)
	assert.Nil(t, claims.StaffRole)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 15).Generate(TokenSubject{ID: 1, Type: domain.SubjectTypeStaff})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 15).ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := NewTokenManager("secret", 15).ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	_, expiresAt, err := tm.Generate(TokenSubject{ID: 1, Type: domain.SubjectTypeStaff})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
}
