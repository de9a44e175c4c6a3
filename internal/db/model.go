package db

import "airwise/internal/boundary"

// ObjectEntity is the stored form of an ObjectBoundary. The primary key is
// the composite "systemID#::#objectId" string; the parent/child relation is
// a single ParentID column, children are the rows pointing at a parent.
type ObjectEntity struct {
	ID                string `gorm:"primaryKey;type:varchar(255)"`
	Type              string `gorm:"index;type:varchar(64)"`
	Alias             string `gorm:"index;type:varchar(255)"`
	Status            string `gorm:"type:varchar(64)"`
	Active            bool
	CreationTimestamp string             `gorm:"type:varchar(64)"`
	CreatedBy         boundary.CreatedBy `gorm:"serializer:json"`
	ObjectDetails     map[string]any     `gorm:"serializer:json"`
	ParentID          string             `gorm:"index;type:varchar(255)"`
}

// UserEntity keyed by "systemID#::#email".
type UserEntity struct {
	ID       string `gorm:"primaryKey;type:varchar(255)"`
	Role     string `gorm:"type:varchar(32)"`
	Username string `gorm:"type:varchar(255)"`
	Avatar   string `gorm:"type:varchar(255)"`
}

// CommandEntity is the persisted history of every invoked command.
type CommandEntity struct {
	ID                  string                `gorm:"primaryKey;type:varchar(255)"`
	Command             string                `gorm:"type:varchar(64)"`
	TargetObject        boundary.TargetObject `gorm:"serializer:json"`
	InvokedBy           boundary.InvokedBy    `gorm:"serializer:json"`
	CommandAttributes   map[string]any        `gorm:"serializer:json"`
	InvocationTimestamp string                `gorm:"type:varchar(64)"`
}
