package service

import (
	"fmt"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/validation"
)

// UsersService manages the user directory. There are no passwords: login
// is identification by email, the client keeps the session.
type UsersService struct {
	users     *db.UserRepository
	validator *validation.Validator
	systemID  string
	sep       string
}

func NewUsersService(users *db.UserRepository, validator *validation.Validator, systemID, sep string) *UsersService {
	return &UsersService{users: users, validator: validator, systemID: systemID, sep: sep}
}

func (s *UsersService) composeID(id boundary.UserID) string {
	return id.SystemID + s.sep + id.Email
}

func (s *UsersService) toBoundary(e *db.UserEntity, email string) *boundary.UserBoundary {
	return &boundary.UserBoundary{
		UserID:   &boundary.UserID{SystemID: s.systemID, Email: email},
		Role:     e.Role,
		Username: e.Username,
		Avatar:   e.Avatar,
	}
}

// Create registers a new user under this system. Registering an email that
// already exists overwrites the previous record, matching the upsert
// behavior of the store.
func (s *UsersService) Create(newUser *boundary.NewUserBoundary) (*boundary.UserBoundary, error) {
	if newUser == nil {
		return nil, fmt.Errorf("%w: user payload is missing", ErrInvalidInput)
	}
	if !s.validator.ValidEmail(newUser.Email) {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if !s.validator.ValidRole(newUser.Role) {
		return nil, fmt.Errorf("%w: role %q is invalid", ErrInvalidInput, newUser.Role)
	}
	if newUser.Username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if newUser.Avatar == "" {
		return nil, fmt.Errorf("%w: avatar cannot be empty", ErrInvalidInput)
	}

	id := boundary.UserID{SystemID: s.systemID, Email: newUser.Email}
	entity := &db.UserEntity{
		ID:       s.composeID(id),
		Role:     newUser.Role,
		Username: newUser.Username,
		Avatar:   newUser.Avatar,
	}
	if err := s.users.Save(entity); err != nil {
		return nil, err
	}
	return s.toBoundary(entity, newUser.Email), nil
}

// Login looks a user up by id. An unknown email is a forbidden error, not
// a not-found one; clients use that signal to send new visitors through
// registration.
func (s *UsersService) Login(systemID, email string) (*boundary.UserBoundary, error) {
	if !s.validator.ValidSystemID(systemID) {
		return nil, fmt.Errorf("%w: systemID is invalid", ErrInvalidInput)
	}
	if !s.validator.ValidEmail(email) {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	entity, err := s.users.FindByID(systemID + s.sep + email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %s is not registered", ErrForbidden, email)
		}
		return nil, err
	}
	return s.toBoundary(entity, email), nil
}

// Update rewrites role, username and avatar of an existing user. Empty
// fields keep their stored value.
func (s *UsersService) Update(systemID, email string, update *boundary.UserBoundary) error {
	if !s.validator.ValidSystemID(systemID) {
		return fmt.Errorf("%w: systemID is invalid", ErrInvalidInput)
	}
	if !s.validator.ValidEmail(email) {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	entity, err := s.users.FindByID(systemID + s.sep + email)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return err
	}

	if update.Role != "" {
		if !s.validator.ValidRole(update.Role) {
			return fmt.Errorf("%w: role %q is invalid", ErrInvalidInput, update.Role)
		}
		entity.Role = update.Role
	}
	if update.Username != "" {
		entity.Username = update.Username
	}
	if update.Avatar != "" {
		entity.Avatar = update.Avatar
	}
	return s.users.Save(entity)
}

// GetAll lists all users; admin only.
func (s *UsersService) GetAll(userSystemID, userEmail string, size, page int) ([]boundary.UserBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ensureAdmin(userSystemID, userEmail); err != nil {
		return nil, err
	}

	entities, err := s.users.FindAll(size, page)
	if err != nil {
		return nil, err
	}
	out := make([]boundary.UserBoundary, 0, len(entities))
	for i := range entities {
		e := &entities[i]
		id := e.ID
		// stored id is "systemID<sep>email"
		email := id
		if idx := len(s.systemID + s.sep); len(id) > idx {
			email = id[idx:]
		}
		out = append(out, *s.toBoundary(e, email))
	}
	return out, nil
}

// DeleteAll wipes the user directory; admin only.
func (s *UsersService) DeleteAll(userSystemID, userEmail string) error {
	if err := s.ensureAdmin(userSystemID, userEmail); err != nil {
		return err
	}
	return s.users.DeleteAll()
}

func (s *UsersService) ensureAdmin(systemID, email string) error {
	if !s.validator.ValidSystemID(systemID) {
		return fmt.Errorf("%w: systemID is invalid", ErrInvalidInput)
	}
	if !s.validator.ValidEmail(email) {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	entity, err := s.users.FindByID(systemID + s.sep + email)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: unknown user %s", ErrUnauthorized, email)
		}
		return err
	}
	if entity.Role != boundary.RoleAdmin {
		return fmt.Errorf("%w: action requires admin role", ErrUnauthorized)
	}
	return nil
}
