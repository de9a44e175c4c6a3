package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/validation"
)

// ObjectsService is the CRUD surface over the generic object graph. Every
// entity type rides the same envelope; the role of the caller decides
// whether inactive objects are visible.
type ObjectsService struct {
	objects   *db.ObjectRepository
	validator *validation.Validator
	authz     *Authorizer
	systemID  string
	sep       string
	now       func() time.Time
}

func NewObjectsService(objects *db.ObjectRepository, validator *validation.Validator, authz *Authorizer, systemID, sep string) *ObjectsService {
	return &ObjectsService{
		objects:   objects,
		validator: validator,
		authz:     authz,
		systemID:  systemID,
		sep:       sep,
		now:       time.Now,
	}
}

// Create stores a new object. Only operators create objects; the id is
// assigned here and immutable afterwards.
func (s *ObjectsService) Create(obj *boundary.ObjectBoundary) (*boundary.ObjectBoundary, error) {
	if obj == nil || obj.CreatedBy == nil {
		return nil, fmt.Errorf("%w: object boundary is not initialized", ErrInvalidInput)
	}

	ok, err := s.authz.EnsureRole(obj.CreatedBy.UserID.SystemID, obj.CreatedBy.UserID.Email, boundary.RoleOperator)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: action requires operator role", ErrUnauthorized)
	}

	if err := s.validator.CheckObjectBoundary(obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id := boundary.ObjectID{SystemID: s.systemID, ObjectID: uuid.NewString()}
	entity := &db.ObjectEntity{
		ID:                s.composeID(id),
		Type:              obj.Type,
		Alias:             obj.Alias,
		Status:            obj.Status,
		Active:            obj.Active,
		CreationTimestamp: boundary.FormatTimestamp(s.now()),
		CreatedBy:         *obj.CreatedBy,
		ObjectDetails:     obj.ObjectDetails,
	}
	if err := s.objects.Save(entity); err != nil {
		return nil, err
	}
	return s.toBoundary(entity), nil
}

// Update applies a full-object update; there is no partial patch, callers
// re-fetch and merge first. Empty strings in the update leave the stored
// value alone, active is always taken from the payload (it is how soft
// delete happens).
func (s *ObjectsService) Update(systemID, objectID string, update *boundary.ObjectBoundary, userSystemID, userEmail string) error {
	ok, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: action requires operator role", ErrUnauthorized)
	}

	objID := boundary.ObjectID{SystemID: systemID, ObjectID: objectID}
	if !s.validator.ValidObjectID(objID) {
		return fmt.Errorf("%w: objectId is invalid", ErrInvalidInput)
	}

	existing, err := s.objects.FindByID(s.composeID(objID))
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: objectId %s", ErrNotFound, objectID)
		}
		return err
	}

	if update.Alias != "" {
		existing.Alias = update.Alias
	}
	if update.ObjectDetails != nil {
		existing.ObjectDetails = update.ObjectDetails
	}
	if update.Status != "" {
		existing.Status = update.Status
	}
	if update.Type != "" {
		existing.Type = update.Type
	}
	existing.Active = update.Active

	return s.objects.Save(existing)
}

// Get fetches one object. Operators see everything, end users only active
// objects.
func (s *ObjectsService) Get(systemID, objectID, userSystemID, userEmail string) (*boundary.ObjectBoundary, error) {
	objID := boundary.ObjectID{SystemID: systemID, ObjectID: objectID}
	if !s.validator.ValidObjectID(objID) {
		return nil, fmt.Errorf("%w: objectId is invalid", ErrInvalidInput)
	}

	isOperator, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var entity *db.ObjectEntity
	if isOperator {
		entity, err = s.objects.FindByID(s.composeID(objID))
	} else {
		entity, err = s.objects.FindActiveByID(s.composeID(objID))
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: objectId %s", ErrNotFound, objectID)
		}
		return nil, err
	}
	return s.toBoundary(entity), nil
}

// GetAll lists objects, newest first.
func (s *ObjectsService) GetAll(userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	isOperator, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}
	entities, err := s.objects.FindAll(!isOperator, size, page)
	if err != nil {
		return nil, err
	}
	return s.toBoundaries(entities), nil
}

// Bind records child as a structural child of parent. The child must exist
// already: creation and binding are separate steps and the binding is not
// atomic with anything else.
func (s *ObjectsService) Bind(parentSystemID, parentObjectID string, child boundary.ObjectID, userSystemID, userEmail string) error {
	ok, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: action requires operator role", ErrUnauthorized)
	}

	if !s.validator.ValidObjectID(child) {
		return fmt.Errorf("%w: child objectId is invalid", ErrInvalidInput)
	}
	parentID := boundary.ObjectID{SystemID: parentSystemID, ObjectID: parentObjectID}
	if !s.validator.ValidObjectID(parentID) {
		return fmt.Errorf("%w: parent objectId is invalid", ErrInvalidInput)
	}

	parent, err := s.objects.FindByID(s.composeID(parentID))
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: parent object %s", ErrNotFound, parentObjectID)
		}
		return err
	}

	childEntity, err := s.objects.FindByID(s.composeID(child))
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: child object %s", ErrNotFound, child.ObjectID)
		}
		return err
	}

	childEntity.ParentID = parent.ID
	return s.objects.Save(childEntity)
}

// GetChildren lists the active children of a parent; operators also see
// inactive ones. An empty result is reported as not found, callers treat
// that as an expected empty case.
func (s *ObjectsService) GetChildren(parentSystemID, parentObjectID, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	parentID := boundary.ObjectID{SystemID: parentSystemID, ObjectID: parentObjectID}
	if !s.validator.ValidObjectID(parentID) {
		return nil, fmt.Errorf("%w: parent objectId is invalid", ErrInvalidInput)
	}

	isOperator, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}

	parent, err := s.objects.FindByID(s.composeID(parentID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: parent objectId %s", ErrNotFound, parentObjectID)
		}
		return nil, err
	}

	children, err := s.objects.FindChildren(parent.ID, !isOperator, size, page)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: no children found for parent %s", ErrNotFound, parentObjectID)
	}
	return s.toBoundaries(children), nil
}

// GetParents returns the structural parent of a child, as a list for wire
// compatibility; the graph is a forest so there is at most one.
func (s *ObjectsService) GetParents(childSystemID, childObjectID, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	childID := boundary.ObjectID{SystemID: childSystemID, ObjectID: childObjectID}
	if !s.validator.ValidObjectID(childID) {
		return nil, fmt.Errorf("%w: child objectId is invalid", ErrInvalidInput)
	}

	isOperator, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var child *db.ObjectEntity
	if isOperator {
		child, err = s.objects.FindByID(s.composeID(childID))
	} else {
		child, err = s.objects.FindActiveByID(s.composeID(childID))
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: child objectId %s", ErrNotFound, childObjectID)
		}
		return nil, err
	}
	if child.ParentID == "" {
		return nil, fmt.Errorf("%w: no parents found for child %s", ErrNotFound, childObjectID)
	}

	parent, err := s.objects.FindByID(child.ParentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: no parents found for child %s", ErrNotFound, childObjectID)
		}
		return nil, err
	}
	return []boundary.ObjectBoundary{*s.toBoundary(parent)}, nil
}

// SearchByAlias finds objects carrying an exact alias.
func (s *ObjectsService) SearchByAlias(alias, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if alias == "" {
		return nil, fmt.Errorf("%w: alias cannot be empty", ErrInvalidInput)
	}
	return s.search(userSystemID, userEmail, size, page, func(activeOnly bool) ([]db.ObjectEntity, error) {
		return s.objects.FindByAlias(alias, activeOnly, size, page)
	}, "alias "+alias)
}

// SearchByAliasPrefix finds objects whose alias starts with the pattern.
func (s *ObjectsService) SearchByAliasPrefix(pattern, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern cannot be empty", ErrInvalidInput)
	}
	return s.search(userSystemID, userEmail, size, page, func(activeOnly bool) ([]db.ObjectEntity, error) {
		return s.objects.FindByAliasPrefix(pattern, activeOnly, size, page)
	}, "pattern "+pattern)
}

// SearchByType finds objects of one type tag.
func (s *ObjectsService) SearchByType(objType, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if objType == "" {
		return nil, fmt.Errorf("%w: type cannot be empty", ErrInvalidInput)
	}
	return s.search(userSystemID, userEmail, size, page, func(activeOnly bool) ([]db.ObjectEntity, error) {
		return s.objects.FindByType(objType, activeOnly, size, page)
	}, "type "+objType)
}

// SearchByStatus finds objects with one status value.
func (s *ObjectsService) SearchByStatus(status, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status cannot be empty", ErrInvalidInput)
	}
	return s.search(userSystemID, userEmail, size, page, func(activeOnly bool) ([]db.ObjectEntity, error) {
		return s.objects.FindByStatus(status, activeOnly, size, page)
	}, "status "+status)
}

// SearchByTypeAndStatus combines the two filters.
func (s *ObjectsService) SearchByTypeAndStatus(objType, status, userSystemID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	if objType == "" || status == "" {
		return nil, fmt.Errorf("%w: type and status cannot be empty", ErrInvalidInput)
	}
	return s.search(userSystemID, userEmail, size, page, func(activeOnly bool) ([]db.ObjectEntity, error) {
		return s.objects.FindByTypeAndStatus(objType, status, activeOnly, size, page)
	}, "type "+objType+" and status "+status)
}

func (s *ObjectsService) search(userSystemID, userEmail string, size, page int, find func(activeOnly bool) ([]db.ObjectEntity, error), what string) ([]boundary.ObjectBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	isOperator, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleOperator, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}
	entities, err := find(!isOperator)
	if err != nil {
		return nil, err
	}
	if !isOperator && len(entities) == 0 {
		return nil, fmt.Errorf("%w: no objects found with %s", ErrNotFound, what)
	}
	return s.toBoundaries(entities), nil
}

// DeleteAll wipes the object store; admin only.
func (s *ObjectsService) DeleteAll(userSystemID, userEmail string) error {
	ok, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: action requires admin role", ErrUnauthorized)
	}
	return s.objects.DeleteAll()
}
