package service

import (
	"fmt"

	"airwise/internal/db"
	"airwise/internal/validation"
)

// Authorizer resolves a caller's role from the user store. EnsureRole
// returns false when the user exists but holds none of the allowed roles;
// a missing user is an authorization failure outright.
type Authorizer struct {
	users     *db.UserRepository
	validator *validation.Validator
	systemID  string
	sep       string
}

func NewAuthorizer(users *db.UserRepository, validator *validation.Validator, systemID, sep string) *Authorizer {
	return &Authorizer{users: users, validator: validator, systemID: systemID, sep: sep}
}

func (a *Authorizer) EnsureRole(systemID, email string, allowedRoles ...string) (bool, error) {
	if !a.validator.ValidSystemID(systemID) {
		return false, fmt.Errorf("%w: systemID is invalid", ErrInvalidInput)
	}
	if !a.validator.ValidEmail(email) {
		return false, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	user, err := a.users.FindByID(systemID + a.sep + email)
	if err != nil {
		if db.IsNotFound(err) {
			return false, fmt.Errorf("%w: unknown user %s", ErrUnauthorized, email)
		}
		return false, err
	}

	for _, role := range allowedRoles {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}
