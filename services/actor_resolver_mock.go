package services

import (
	"github.com/gin-gonic/gin"

	"github.com/assistec/assistec-api/models"
)

// MockActorProvider is a mock implementation of ActorProvider for testing
type MockActorProvider struct {
	Actor *models.User
	Err   error
}

// NewMockActorProvider creates a mock provider that always resolves the
// given user
func NewMockActorProvider(actor *models.User) *MockActorProvider {
	return &MockActorProvider{Actor: actor}
}

// NewFailingActorProvider creates a mock provider that always fails, for
// asserting that operations abort with zero writes
func NewFailingActorProvider() *MockActorProvider {
	return &MockActorProvider{
		Err: &AuthResolutionError{
			Code:    "AUTH_RESOLUTION_FAILED",
			Message: "Could not determine the acting user",
		},
	}
}

// SetAsMockForTesting sets this mock as the global actor provider
func (m *MockActorProvider) SetAsMockForTesting() {
	SetActorProvider(m)
}

// ResolveActor returns the configured actor or error
func (m *MockActorProvider) ResolveActor(c *gin.Context) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Actor, nil
}
