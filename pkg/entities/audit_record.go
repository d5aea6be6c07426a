package entities

import (
	"time"
)

// AuditRecord is an archived audit entry.
type AuditRecord struct {
	// ID is the unique ID of the record.
	ID string `json:"id" bson:"id"`

	// Level is the severity of the entry (debug, info, warning, error, critical).
	Level string `json:"level" bson:"level"`

	// Title is the title of the entry.
	Title string `json:"title" bson:"title"`

	// Description is the free text body of the entry.
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	// ModeratorID is the ID of the staff member the entry is about.
	ModeratorID string `json:"moderator_id,omitempty" bson:"moderator_id,omitempty"`

	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string `json:"owner_id,omitempty" bson:"owner_id,omitempty"`

	// ChannelID is the ID of the ticket channel.
	ChannelID string `json:"channel_id,omitempty" bson:"channel_id,omitempty"`

	// Reason is the reason given for the action, if any.
	Reason string `json:"reason,omitempty" bson:"reason,omitempty"`

	// CreatedAt is the time the entry was emitted.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
