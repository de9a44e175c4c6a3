// client/counter.go

package client

import (
	"airwise/internal/boundary"
	"airwise/internal/logger"
)

// countPageSize bounds one children fetch; dashboards never hold more
// units per parent than this.
const countPageSize = 100

// CountActiveACsInRoom counts the room's AC children whose status is on.
// Any failure fetching or reading the room folds to 0; counting is
// best-effort and a count is never an error.
func (c *Client) CountActiveACsInRoom(roomID, userEmail string) int {
	children, err := c.GetChildren(roomID, userEmail, countPageSize, 0)
	if err != nil {
		logger.Warn("counting ACs in room %s failed, reporting 0: %v", roomID, err)
		return 0
	}

	count := 0
	for i := range children {
		if children[i].Type == boundary.TypeAirConditioner && children[i].Status == boundary.StatusOn {
			count++
		}
	}
	return count
}

// CountActiveACsForRooms counts room by room, strictly one room at a
// time. A failing room contributes 0 and does not stop its siblings.
func (c *Client) CountActiveACsForRooms(roomIDs []string, userEmail string) map[string]int {
	counts := make(map[string]int, len(roomIDs))
	for _, roomID := range roomIDs {
		counts[roomID] = c.CountActiveACsInRoom(roomID, userEmail)
	}
	return counts
}

// CountActiveACsInSite sums the per-room counts over the site's Room
// children. A site whose children cannot be fetched counts as 0.
func (c *Client) CountActiveACsInSite(siteID, userEmail string) int {
	children, err := c.GetChildren(siteID, userEmail, countPageSize, 0)
	if err != nil {
		logger.Warn("counting ACs in site %s failed, reporting 0: %v", siteID, err)
		return 0
	}

	total := 0
	for i := range children {
		if children[i].Type != boundary.TypeRoom || children[i].ID == nil {
			continue
		}
		total += c.CountActiveACsInRoom(children[i].ID.ObjectID, userEmail)
	}
	return total
}

// CountActiveACsForSites counts one site after another, sequentially.
func (c *Client) CountActiveACsForSites(siteIDs []string, userEmail string) map[string]int {
	counts := make(map[string]int, len(siteIDs))
	for _, siteID := range siteIDs {
		counts[siteID] = c.CountActiveACsInSite(siteID, userEmail)
	}
	return counts
}
