package service

import "errors"

// Domain errors. The messages double as the API-visible "detail" strings, so
// they are spelled the way clients see them.
var (
	ErrUserNotFound        = errors.New("User not found")
	ErrEmailExists         = errors.New("User with that email already exists")
	ErrRoleNotFound        = errors.New("Role not found")
	ErrRoleNameExists      = errors.New("Role with that name already exists")
	ErrAssociationExists   = errors.New("User -> Role association already exists")
	ErrAssociationNotFound = errors.New("User - Role association does not exist")

	ErrInvalidCredentials     = errors.New("Incorrect username or password")
	ErrInactiveUser           = errors.New("Inactive user")
	ErrInvalidAuthCredentials = errors.New("Invalid authentication credentials")
)

// IsDomainError reports whether err is one of the business-rule errors that
// map to a 4xx response rather than a server failure.
func IsDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrUserNotFound,
		ErrEmailExists,
		ErrRoleNotFound,
		ErrRoleNameExists,
		ErrAssociationExists,
		ErrAssociationNotFound,
		ErrInvalidCredentials,
		ErrInactiveUser,
		ErrInvalidAuthCredentials,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
