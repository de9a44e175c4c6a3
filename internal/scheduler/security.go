package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
	"airwise/internal/service"
)

// SecurityMonitor watches the sites of tenants who marked themselves away.
// Once a minute it polls the registry for motion on every unit inside an
// away site and raises an alert notification for the tenant, throttled to
// one alert per half hour.
type SecurityMonitor struct {
	objects  *db.ObjectRepository
	users    *db.UserRepository
	registry service.ACRegistry
	systemID string
	sep      string
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

func NewSecurityMonitor(objects *db.ObjectRepository, users *db.UserRepository, registry service.ACRegistry, systemID, sep string) *SecurityMonitor {
	return &SecurityMonitor{
		objects:  objects,
		users:    users,
		registry: registry,
		systemID: systemID,
		sep:      sep,
		interval: time.Minute,
		cooldown: 30 * time.Minute,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (m *SecurityMonitor) Start() {
	go m.run()
	logger.Info("Security monitor started with interval: %v", m.interval)
}

func (m *SecurityMonitor) Stop() {
	close(m.stopChan)
	logger.Info("Security monitor stopped")
}

func (m *SecurityMonitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep(m.now())
		case <-m.stopChan:
			return
		}
	}
}

// Sweep is one monitoring pass for the given instant. Exposed so tests can
// drive the clock directly.
func (m *SecurityMonitor) Sweep(now time.Time) {
	if m.registry == nil {
		return
	}
	endUsers, err := m.users.FindAllByRole(boundary.RoleEndUser)
	if err != nil {
		logger.Error("security sweep failed: %v", err)
		return
	}
	for i := range endUsers {
		parts := strings.SplitN(endUsers[i].ID, m.sep, 2)
		if len(parts) != 2 {
			continue
		}
		m.sweepTenant(parts[1], now)
	}
}

// sweepTenant walks the tenant's away sites. The tenant object is found by
// alias, same as the notification path.
func (m *SecurityMonitor) sweepTenant(email string, now time.Time) {
	tenants, err := m.objects.FindByAlias(email, true, 1, 0)
	if err != nil || len(tenants) == 0 || tenants[0].Type != boundary.TypeTenant {
		return
	}
	tenant := &tenants[0]

	sites, err := m.objects.FindChildrenAll(tenant.ID)
	if err != nil {
		logger.Warn("listing sites of %s failed: %v", email, err)
		return
	}
	for i := range sites {
		site := &sites[i]
		if !site.Active || site.Type != boundary.TypeSite || site.ObjectDetails == nil {
			continue
		}
		var details boundary.SiteDetails
		if err := boundary.DecodeDetails(site.ObjectDetails, &details); err != nil || details.InSite {
			continue
		}
		m.sweepSite(tenant, site, now)
	}
}

// sweepSite polls every unit in the site; the first motion hit raises the
// alert and ends the site's pass.
func (m *SecurityMonitor) sweepSite(tenant, site *db.ObjectEntity, now time.Time) {
	rooms, err := m.objects.FindChildrenAll(site.ID)
	if err != nil {
		return
	}
	for i := range rooms {
		room := &rooms[i]
		if !room.Active || room.Type != boundary.TypeRoom {
			continue
		}
		units, err := m.objects.FindChildrenAll(room.ID)
		if err != nil {
			continue
		}
		for j := range units {
			unit := &units[j]
			if !unit.Active || unit.Type != boundary.TypeAirConditioner {
				continue
			}
			if m.motionDetected(unit) {
				m.raiseAlert(tenant, site, now)
				return
			}
		}
	}
}

func (m *SecurityMonitor) motionDetected(unit *db.ObjectEntity) bool {
	var details boundary.AirConditionerDetails
	if err := boundary.DecodeDetails(unit.ObjectDetails, &details); err != nil || details.Serial == "" {
		return false
	}
	state, err := m.registry.GetStateBySerial(details.Serial)
	if err != nil {
		logger.Warn("motion poll for serial %s failed: %v", details.Serial, err)
		return false
	}
	return state.ACState != nil && state.ACState.Motion != nil && *state.ACState.Motion
}

// raiseAlert drops an alert notification under the tenant unless one was
// already raised within the cooldown window.
func (m *SecurityMonitor) raiseAlert(tenant, site *db.ObjectEntity, now time.Time) {
	parts := strings.SplitN(tenant.ID, m.sep, 2)
	if len(parts) != 2 {
		return
	}
	alias := "alert-notification-" + parts[1]

	recent, err := m.objects.FindByAlias(alias, true, 1, 0)
	if err == nil && len(recent) > 0 {
		created, perr := boundary.ParseTimestamp(recent[0].CreationTimestamp)
		if perr == nil && now.Sub(created) < m.cooldown {
			return
		}
	}

	if err := service.EnsureSystemOperator(m.users, m.systemID, m.sep); err != nil {
		logger.Warn("provisioning the system operator for an alert failed: %v", err)
		return
	}

	details, err := boundary.EncodeDetails(boundary.NotificationDetails{
		Title:   "Security Alert: Motion Detected",
		Message: fmt.Sprintf("Motion detected in your Site: %s, while marked as 'Away'. Please check immediately.", site.Alias),
	})
	if err != nil {
		logger.Warn("encoding security alert failed: %v", err)
		return
	}

	entity := &db.ObjectEntity{
		ID:                m.systemID + m.sep + uuid.NewString(),
		Type:              boundary.TypeNotification,
		Alias:             alias,
		Status:            "warning",
		Active:            true,
		CreationTimestamp: boundary.FormatTimestamp(now),
		CreatedBy:         boundary.CreatedBy{UserID: boundary.UserID{SystemID: m.systemID, Email: service.SystemOperatorEmail}},
		ObjectDetails:     details,
		ParentID:          tenant.ID,
	}
	if err := m.objects.Save(entity); err != nil {
		logger.Warn("storing security alert failed: %v", err)
		return
	}
	logger.Info("security alert raised for site %s", site.Alias)
}
