package service

import (
	"github.com/google/uuid"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
)

// notify drops an in-app notification under the tenant whose alias matches
// the given email. Tenants are looked up by alias, not id; a user without a
// tenant object simply gets no notifications. Nothing here can fail the
// command that triggered it.
func (s *CommandsService) notify(email, message string) {
	tenants, err := s.objects.FindByAlias(email, true, 1, 0)
	if err != nil {
		logger.Warn("notification lookup for %s failed: %v", email, err)
		return
	}
	var tenant *db.ObjectEntity
	for i := range tenants {
		if tenants[i].Type == boundary.TypeTenant {
			tenant = &tenants[i]
			break
		}
	}
	if tenant == nil {
		logger.Debug("no tenant object for %s, dropping notification", email)
		return
	}

	if err := s.ensureSystemOperator(); err != nil {
		logger.Warn("provisioning the system operator for a notification failed: %v", err)
		return
	}

	tenantID := s.splitObjectID(tenant.ID)
	details, err := boundary.EncodeDetails(boundary.NotificationDetails{Message: message})
	if err != nil {
		logger.Warn("encoding notification for %s failed: %v", email, err)
		return
	}

	entity := &db.ObjectEntity{
		ID:                s.systemID + s.sep + uuid.NewString(),
		Type:              boundary.TypeNotification,
		Alias:             "info-notification-" + tenantID.ObjectID,
		Status:            "info",
		Active:            true,
		CreationTimestamp: boundary.FormatTimestamp(s.now()),
		CreatedBy:         boundary.CreatedBy{UserID: boundary.UserID{SystemID: s.systemID, Email: SystemOperatorEmail}},
		ObjectDetails:     details,
		ParentID:          tenant.ID,
	}
	if err := s.objects.Save(entity); err != nil {
		logger.Warn("storing notification for %s failed: %v", email, err)
	}
}
