package service

import (
	"strings"

	"airwise/internal/boundary"
	"airwise/internal/db"
)

// Conversions between the wire envelope and the stored row. The stored id
// is the composite "systemID<sep>objectId" string.

func (s *ObjectsService) composeID(id boundary.ObjectID) string {
	return id.SystemID + s.sep + id.ObjectID
}

func (s *ObjectsService) splitID(stored string) boundary.ObjectID {
	parts := strings.SplitN(stored, s.sep, 2)
	if len(parts) != 2 {
		return boundary.ObjectID{SystemID: s.systemID, ObjectID: stored}
	}
	return boundary.ObjectID{SystemID: parts[0], ObjectID: parts[1]}
}

func (s *ObjectsService) toBoundary(e *db.ObjectEntity) *boundary.ObjectBoundary {
	id := s.splitID(e.ID)
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

func (s *ObjectsService) toBoundaries(entities []db.ObjectEntity) []boundary.ObjectBoundary {
	out := make([]boundary.ObjectBoundary, 0, len(entities))
	for i := range entities {
		out = append(out, *s.toBoundary(&entities[i]))
	}
	return out
}
