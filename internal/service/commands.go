package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"airwise/internal/acclient"
	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
	"airwise/internal/validation"
)

// SystemOperatorEmail is the internal account that owns system-generated
// objects (verified ACs, notifications). It is provisioned on first use.
const SystemOperatorEmail = "SystemOperator@airwise.com"

// ACRegistry is the external source of truth for physical units. The demo
// AC API implements it over HTTP; tests stub it.
type ACRegistry interface {
	GetStateBySerial(serial string) (*acclient.Response, error)
	SetState(serial string, attrs map[string]any) (*acclient.Response, error)
}

// CommandsService dispatches command envelopes to their handlers. Every
// invocation is persisted to the history before it runs; the handlers are
// strictly sequential, a multi-unit command touches one unit at a time.
type CommandsService struct {
	objects   *db.ObjectRepository
	commands  *db.CommandRepository
	users     *db.UserRepository
	validator *validation.Validator
	authz     *Authorizer
	registry  ACRegistry
	systemID  string
	sep       string
	now       func() time.Time
}

func NewCommandsService(objects *db.ObjectRepository, commands *db.CommandRepository, users *db.UserRepository, validator *validation.Validator, authz *Authorizer, registry ACRegistry, systemID, sep string) *CommandsService {
	return &CommandsService{
		objects:   objects,
		commands:  commands,
		users:     users,
		validator: validator,
		authz:     authz,
		registry:  registry,
		systemID:  systemID,
		sep:       sep,
		now:       time.Now,
	}
}

// Invoke validates the envelope, records it and runs the matching handler.
// Commands are the end-user surface: operators and admins go through the
// object API instead.
func (s *CommandsService) Invoke(cmd *boundary.CommandBoundary) (any, error) {
	if err := s.validator.CheckCommandBoundary(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ok, err := s.authz.EnsureRole(cmd.InvokedBy.UserID.SystemID, cmd.InvokedBy.UserID.Email, boundary.RoleEndUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: commands can only be invoked by end users", ErrUnauthorized)
	}

	invoked := s.now()
	cmd.ID = &boundary.CommandID{SystemID: s.systemID, CommandID: uuid.NewString()}
	cmd.InvocationTimestamp = boundary.FormatTimestamp(invoked)

	entity := &db.CommandEntity{
		ID:                  cmd.ID.SystemID + s.sep + cmd.ID.CommandID,
		Command:             cmd.Command,
		TargetObject:        cmd.TargetObject,
		InvokedBy:           cmd.InvokedBy,
		CommandAttributes:   cmd.CommandAttributes,
		InvocationTimestamp: cmd.InvocationTimestamp,
	}
	if err := s.commands.Save(entity); err != nil {
		return nil, err
	}

	switch cmd.Command {
	case boundary.CommandUpdateACState:
		return s.handleUpdateACState(cmd)
	case boundary.CommandScheduleTask:
		return s.handleScheduleTask(cmd)
	case boundary.CommandRoomACsControl:
		return s.handleRoomACsControl(cmd)
	case boundary.CommandVerifyACBySerialAdd:
		return s.handleVerifyACBySerialAdd(cmd)
	case boundary.CommandDeleteEntityWithChilds:
		return s.handleDeleteEntityWithChildren(cmd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Command)
	}
}

// History lists past invocations, newest first; admin only.
func (s *CommandsService) History(userSystemID, userEmail string, size, page int) ([]boundary.CommandBoundary, error) {
	if err := s.validator.CheckPagination(size, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ok, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: action requires admin role", ErrUnauthorized)
	}

	entities, err := s.commands.FindAll(size, page)
	if err != nil {
		return nil, err
	}
	out := make([]boundary.CommandBoundary, 0, len(entities))
	for i := range entities {
		e := &entities[i]
		id := s.splitCommandID(e.ID)
		out = append(out, boundary.CommandBoundary{
			ID:                  &id,
			Command:             e.Command,
			TargetObject:        e.TargetObject,
			InvokedBy:           e.InvokedBy,
			CommandAttributes:   e.CommandAttributes,
			InvocationTimestamp: e.InvocationTimestamp,
		})
	}
	return out, nil
}

// DeleteAll wipes the command history; admin only.
func (s *CommandsService) DeleteAll(userSystemID, userEmail string) error {
	ok, err := s.authz.EnsureRole(userSystemID, userEmail, boundary.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: action requires admin role", ErrUnauthorized)
	}
	return s.commands.DeleteAll()
}

// handleDeleteEntityWithChildren soft-deletes the target and everything
// bound under it, depth first. It works on any type and is idempotent: an
// already inactive subtree is deactivated again without complaint.
func (s *CommandsService) handleDeleteEntityWithChildren(cmd *boundary.CommandBoundary) (any, error) {
	targetID := s.composeObjectID(cmd.TargetObject.ID)
	root, err := s.objects.FindByID(targetID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: objectId %s", ErrNotFound, cmd.TargetObject.ID.ObjectID)
		}
		return nil, err
	}

	deleted := 0
	// bindings are operator input and may form a cycle; each id is
	// deactivated at most once
	seen := map[string]bool{root.ID: true}
	stack := []*db.ObjectEntity{root}
	for len(stack) > 0 {
		entity := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entity.Active = false
		if err := s.objects.Save(entity); err != nil {
			return nil, err
		}
		deleted++

		children, err := s.objects.FindChildrenAll(entity.ID)
		if err != nil {
			return nil, err
		}
		for i := range children {
			if seen[children[i].ID] {
				continue
			}
			seen[children[i].ID] = true
			stack = append(stack, &children[i])
		}
	}

	logger.Info("deleted %s (%s) and its subtree, %d objects deactivated", root.Alias, root.Type, deleted)
	return map[string]any{"deleted": deleted}, nil
}

func (s *CommandsService) composeObjectID(id boundary.ObjectID) string {
	return id.SystemID + s.sep + id.ObjectID
}

func (s *CommandsService) splitObjectID(stored string) boundary.ObjectID {
	parts := strings.SplitN(stored, s.sep, 2)
	if len(parts) != 2 {
		return boundary.ObjectID{SystemID: s.systemID, ObjectID: stored}
	}
	return boundary.ObjectID{SystemID: parts[0], ObjectID: parts[1]}
}

func (s *CommandsService) splitCommandID(stored string) boundary.CommandID {
	parts := strings.SplitN(stored, s.sep, 2)
	if len(parts) != 2 {
		return boundary.CommandID{SystemID: s.systemID, CommandID: stored}
	}
	return boundary.CommandID{SystemID: parts[0], CommandID: parts[1]}
}

// loadActiveTarget fetches the command's target and requires it to be both
// present and not soft-deleted.
func (s *CommandsService) loadActiveTarget(cmd *boundary.CommandBoundary, wantType string) (*db.ObjectEntity, error) {
	entity, err := s.objects.FindActiveByID(s.composeObjectID(cmd.TargetObject.ID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: objectId %s", ErrNotFound, cmd.TargetObject.ID.ObjectID)
		}
		return nil, err
	}
	if wantType != "" && entity.Type != wantType {
		return nil, fmt.Errorf("%w: target %s is a %s, expected %s", ErrInvalidInput, entity.Alias, entity.Type, wantType)
	}
	return entity, nil
}

func (s *CommandsService) entityToBoundary(e *db.ObjectEntity) *boundary.ObjectBoundary {
	id := s.splitObjectID(e.ID)
	createdBy := e.CreatedBy
	return &boundary.ObjectBoundary{
		ID:                &id,
		Type:              e.Type,
		Alias:             e.Alias,
		Status:            e.Status,
		Active:            e.Active,
		CreationTimestamp: e.CreationTimestamp,
		CreatedBy:         &createdBy,
		ObjectDetails:     e.ObjectDetails,
	}
}
