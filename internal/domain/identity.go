package domain

type IdentityID string

// Identity is the authenticated principal whose data scopes a working set.
// Sign-in procedures themselves are owned by an identity adapter; the rest
// of the system only ever sees this value.
type Identity struct {
	ID          IdentityID
	Email       string
	DisplayName string
}
