package testutil

import (
	"github.com/google/uuid"
	"github.com/nerdnum/accounts-api/internal/models"
	"github.com/nerdnum/accounts-api/internal/utils"
)

// DefaultTestPassword is the plain-text password DefaultTestUser is built with.
const DefaultTestPassword = "Test123456"

// NewTestUser builds an unsaved user with a hashed password. active=false
// mirrors a freshly signed-up account.
func NewTestUser(username, fullName, email, password string, active bool) (*models.User, error) {
	user := &models.User{
		UUID:     uuid.New().String(),
		Username: username,
		FullName: fullName,
		Email:    email,
		Disabled: !active,
	}

	if password != "" {
		hashedPassword, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPassword
	}

	return user, nil
}

// NewTestRole builds an unsaved role.
func NewTestRole(name, description string) *models.Role {
	role := &models.Role{
		UUID:     uuid.New().String(),
		Name:     name,
		Disabled: true,
	}
	if description != "" {
		role.Description = &description
	}
	return role
}

// DefaultTestUser returns an activated user with DefaultTestPassword.
func DefaultTestUser() (*models.User, error) {
	return NewTestUser("testuser", "Test User", "test@example.com", DefaultTestPassword, true)
}
