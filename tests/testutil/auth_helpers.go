package testutil

import (
	"testing"

	"github.com/pateando/pateando-api/middleware"
	"github.com/pateando/pateando-api/models"
)

// BearerToken issues a session token for a user, for authenticated
// requests in integration and acceptance tests. Requires a JWT secret
// in the loaded configuration.
func BearerToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := middleware.GenerateToken(user)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return token
}
