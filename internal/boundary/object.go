package boundary

// ObjectBoundary is the universal entity envelope. The type tag determines
// which detail struct the objectDetails bag decodes into (see details.go);
// active is the soft-delete flag, inactive objects never appear in
// non-administrative listings.
type ObjectBoundary struct {
	ID                *ObjectID      `json:"id,omitempty"`
	Type              string         `json:"type"`
	Alias             string         `json:"alias"`
	Status            string         `json:"status"`
	Active            bool           `json:"active"`
	CreationTimestamp string         `json:"creationTimestamp,omitempty"`
	CreatedBy         *CreatedBy     `json:"createdBy,omitempty"`
	ObjectDetails     map[string]any `json:"objectDetails,omitempty"`
}

// UserBoundary is the identity record of a caller.
type UserBoundary struct {
	UserID   *UserID `json:"userId,omitempty"`
	Role     string  `json:"role"`
	Username string  `json:"username"`
	Avatar   string  `json:"avatar"`
}

// NewUserBoundary is the registration payload; the server stamps the
// systemID itself.
type NewUserBoundary struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
