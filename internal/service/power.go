package service

import (
	"time"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
)

const consumptionDateLayout = "2006-01-02"

// bookPowerConsumption turns a completed run of one unit into consumption
// log entries on the owning site. A run crossing midnight is sliced per
// calendar day so each entry stays within its date. Pricing comes from the
// tenant's Settings object; without one the energy is still logged, at
// zero cost. Bookkeeping is best effort and never fails the state change
// that triggered it.
func (s *CommandsService) bookPowerConsumption(unit *db.ObjectEntity, details *boundary.AirConditionerDetails) {
	if details.StartDateTime == "" || details.Watts <= 0 {
		return
	}
	start, err := boundary.ParseTimestamp(details.StartDateTime)
	if err != nil {
		logger.Warn("unit %s carries an unparseable start time %q", unit.Alias, details.StartDateTime)
		return
	}
	end := s.now()
	if !end.After(start) {
		return
	}

	site, settings := s.findSiteAndSettings(unit)
	if site == nil {
		logger.Debug("unit %s has no owning site, skipping consumption log", unit.Alias)
		return
	}

	var siteDetails boundary.SiteDetails
	if err := boundary.DecodeDetails(site.ObjectDetails, &siteDetails); err != nil {
		logger.Warn("site %s carries malformed details: %v", site.Alias, err)
		return
	}

	for _, slice := range sliceByDay(start, end) {
		minutes := slice.end.Sub(slice.start).Minutes()
		kwh := details.Watts * minutes / 1000
		cost := (kwh * (settings.CostPerKwh / 60)) * (1 + settings.VATRate)
		mergeConsumption(&siteDetails, boundary.PowerConsumptionLog{
			Date:    slice.start.Format(consumptionDateLayout),
			Runtime: minutes,
			KWh:     kwh,
			Cost:    cost,
		})
	}

	encoded, err := boundary.EncodeDetails(siteDetails)
	if err != nil {
		logger.Warn("encoding consumption logs for site %s failed: %v", site.Alias, err)
		return
	}
	site.ObjectDetails = encoded
	if err := s.objects.Save(site); err != nil {
		logger.Warn("storing consumption logs for site %s failed: %v", site.Alias, err)
	}
}

// findSiteAndSettings walks unit -> room -> site and resolves the tenant's
// Settings object via its "Settings-<tenantId>" alias. Missing settings
// come back zero-valued.
func (s *CommandsService) findSiteAndSettings(unit *db.ObjectEntity) (*db.ObjectEntity, boundary.SettingsDetails) {
	var settings boundary.SettingsDetails

	if unit.ParentID == "" {
		return nil, settings
	}
	room, err := s.objects.FindByID(unit.ParentID)
	if err != nil || room.ParentID == "" {
		return nil, settings
	}
	site, err := s.objects.FindByID(room.ParentID)
	if err != nil || site.Type != boundary.TypeSite {
		return nil, settings
	}

	if site.ParentID != "" {
		if tenant, err := s.objects.FindByID(site.ParentID); err == nil && tenant.Type == boundary.TypeTenant {
			tenantID := s.splitObjectID(tenant.ID)
			rows, err := s.objects.FindByAlias("Settings-"+tenantID.ObjectID, true, 1, 0)
			if err == nil && len(rows) > 0 && rows[0].Type == boundary.TypeSettings {
				if decodeErr := boundary.DecodeDetails(rows[0].ObjectDetails, &settings); decodeErr != nil {
					settings = boundary.SettingsDetails{}
				}
			}
		}
	}
	return site, settings
}

type daySlice struct {
	start, end time.Time
}

// sliceByDay splits [start, end) at local midnights.
func sliceByDay(start, end time.Time) []daySlice {
	var slices []daySlice
	cur := start
	for cur.Before(end) {
		midnight := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, cur.Location()).AddDate(0, 0, 1)
		sliceEnd := end
		if midnight.Before(end) {
			sliceEnd = midnight
		}
		slices = append(slices, daySlice{start: cur, end: sliceEnd})
		cur = sliceEnd
	}
	return slices
}

func mergeConsumption(details *boundary.SiteDetails, entry boundary.PowerConsumptionLog) {
	for i := range details.PowerConsumptionLogs {
		if details.PowerConsumptionLogs[i].Date == entry.Date {
			details.PowerConsumptionLogs[i].Runtime += entry.Runtime
			details.PowerConsumptionLogs[i].KWh += entry.KWh
			details.PowerConsumptionLogs[i].Cost += entry.Cost
			return
		}
	}
	details.PowerConsumptionLogs = append(details.PowerConsumptionLogs, entry)
}
