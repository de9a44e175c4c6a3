// Package boundary holds the wire-level types of the AirWise API: the
// generic object envelope, command envelope, user records and the composite
// identifiers shared by all of them.
package boundary

// ObjectID is the composite key of an object: the systemID partitions
// deployments, the objectId is unique within one systemID.
type ObjectID struct {
	SystemID string `json:"systemID"`
	ObjectID string `json:"objectId"`
}

// UserID identifies a user; the email doubles as the user identity.
type UserID struct {
	SystemID string `json:"systemID"`
	Email    string `json:"email"`
}

type CreatedBy struct {
	UserID UserID `json:"userId"`
}

type InvokedBy struct {
	UserID UserID `json:"userId"`
}

// TargetObject wraps the id a command is aimed at.
type TargetObject struct {
	ID ObjectID `json:"id"`
}

// ChildID is the body of the bind-child request.
type ChildID struct {
	ChildID ObjectID `json:"childId"`
}

type CommandID struct {
	SystemID  string `json:"systemID"`
	CommandID string `json:"commandId"`
}
