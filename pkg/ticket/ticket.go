package ticket

import (
	"slices"
	"time"
)

// State is the lifecycle state of a ticket.
type State string

const (
	StateOpen     State = "open"
	StateClaimed  State = "claimed"
	StateResolved State = "resolved"
)

// Resolution records which terminal transition resolved a ticket.
type Resolution string

const (
	ResolutionNone     Resolution = ""
	ResolutionAccepted Resolution = "accepted"
	ResolutionRejected Resolution = "rejected"
	ResolutionDeleted  Resolution = "deleted"
)

// Member is a guild member as far as the ticket system cares.
type Member struct {
	ID          string
	Username    string
	DisplayName string
}

// Name returns the display name, falling back to the username.
func (m Member) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Username
}

// Actor is the member performing an action.
type Actor struct {
	Member

	// RoleIDs are the roles the actor holds.
	RoleIDs []string

	// Admin is set when the actor has the administrator permission.
	Admin bool
}

// HasRole reports whether the actor holds the role.
func (a Actor) HasRole(roleID string) bool {
	return slices.Contains(a.RoleIDs, roleID)
}

// Ticket is a single intake request and the channel it owns.
type Ticket struct {
	// ID identifies the ticket in logs.
	ID string

	GuildID string

	// Owner is the requester.
	Owner Member

	// Fields are the validated intake answers in form order.
	Fields []Field

	// ChannelID is the dedicated channel. Empty until the channel exists.
	ChannelID string

	// ClaimantID is the staff member that claimed the ticket. Set once.
	ClaimantID string

	State      State
	Resolution Resolution

	CreatedAt time.Time
}

// Value returns the submitted value of a field.
func (t *Ticket) Value(id FieldID) string {
	for _, f := range t.Fields {
		if f.ID == id {
			return f.Value
		}
	}
	return ""
}

// Nickname returns the in-game nickname the requester submitted.
func (t *Ticket) Nickname() string {
	return t.Value(FieldNickname)
}

func (t *Ticket) clone() *Ticket {
	c := *t
	c.Fields = slices.Clone(t.Fields)
	return &c
}

// canResolve reports whether the actor may resolve the ticket or act on it in the claimed state.
func (t *Ticket) canResolve(a Actor) bool {
	return a.Admin || (t.ClaimantID != "" && a.ID == t.ClaimantID)
}
