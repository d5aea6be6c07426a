package settings

import (
	"strconv"
)

// Key is the name of a setting as it appears in the settings file.
type Key string

const (
	KeyTicketMessageText     Key = "ticket_message_text"
	KeyTicketButtonChannelID Key = "ticket_button_channel_id"
	KeyLogChannelID          Key = "log_channel_id"
	KeyTicketCategoryID      Key = "ticket_category_id"
	KeyStaffRoleID           Key = "staff_role_id"
	KeyAcceptedRoleID        Key = "accepted_role_id"
	KeyAcceptMessage         Key = "accept_message"
	KeyRejectMessage         Key = "reject_message"
)

const (
	DefaultTicketMessageText = "Press the button below to open a ticket:"
	DefaultAcceptMessage     = "Your ticket has been accepted!"
	DefaultRejectMessage     = "Your ticket has been rejected."
)

// KeyInfo describes a setting for the settings editor.
type KeyInfo struct {
	Key         Key
	Label       string
	Description string

	// Long is set for free text settings that need a multi-line input.
	Long bool
}

var catalogue = []KeyInfo{
	{Key: KeyTicketMessageText, Label: "Button message text", Description: "Text posted with the open ticket button", Long: true},
	{Key: KeyTicketButtonChannelID, Label: "Button channel (ID)", Description: "Channel the open ticket button is posted to"},
	{Key: KeyLogChannelID, Label: "Log channel (ID)", Description: "Channel audit entries are posted to"},
	{Key: KeyTicketCategoryID, Label: "Ticket category (ID)", Description: "Category new ticket channels are created in"},
	{Key: KeyStaffRoleID, Label: "Staff role (ID)", Description: "Role that can claim tickets"},
	{Key: KeyAcceptedRoleID, Label: "Accepted role (ID)", Description: "Role granted when a ticket is accepted"},
	{Key: KeyAcceptMessage, Label: "Accept message", Description: "Direct message sent on acceptance", Long: true},
	{Key: KeyRejectMessage, Label: "Reject message", Description: "Direct message sent on rejection", Long: true},
}

// Keys returns the known settings in display order.
func Keys() []KeyInfo {
	keys := make([]KeyInfo, len(catalogue))
	copy(keys, catalogue)
	return keys
}

// Lookup returns the description of a key.
func Lookup(k Key) (KeyInfo, bool) {
	for _, info := range catalogue {
		if info.Key == k {
			return info, true
		}
	}
	return KeyInfo{}, false
}

// IsID reports whether the key holds a platform ID.
func (k Key) IsID() bool {
	return len(k) > 3 && k[len(k)-3:] == "_id"
}

// Settings is the persisted configuration of the bot. A nil ID means the feature is disabled.
type Settings struct {
	TicketMessageText     string `json:"ticket_message_text"`
	TicketButtonChannelID *int64 `json:"ticket_button_channel_id"`
	LogChannelID          *int64 `json:"log_channel_id"`
	TicketCategoryID      *int64 `json:"ticket_category_id"`
	StaffRoleID           *int64 `json:"staff_role_id"`
	AcceptedRoleID        *int64 `json:"accepted_role_id"`
	AcceptMessage         string `json:"accept_message"`
	RejectMessage         string `json:"reject_message"`
}

// Defaults returns the settings written on first run.
func Defaults() Settings {
	return Settings{
		TicketMessageText: DefaultTicketMessageText,
		AcceptMessage:     DefaultAcceptMessage,
		RejectMessage:     DefaultRejectMessage,
	}
}

func (s *Settings) idField(k Key) **int64 {
	switch k {
	case KeyTicketButtonChannelID:
		return &s.TicketButtonChannelID
	case KeyLogChannelID:
		return &s.LogChannelID
	case KeyTicketCategoryID:
		return &s.TicketCategoryID
	case KeyStaffRoleID:
		return &s.StaffRoleID
	case KeyAcceptedRoleID:
		return &s.AcceptedRoleID
	}
	return nil
}

func (s *Settings) textField(k Key) *string {
	switch k {
	case KeyTicketMessageText:
		return &s.TicketMessageText
	case KeyAcceptMessage:
		return &s.AcceptMessage
	case KeyRejectMessage:
		return &s.RejectMessage
	}
	return nil
}

// Value returns the value of a key: an int64 for ID keys, a string for text keys.
func (s Settings) Value(k Key) (any, bool) {
	if f := s.idField(k); f != nil {
		if *f == nil {
			return nil, false
		}
		return **f, true
	}
	if f := s.textField(k); f != nil {
		return *f, true
	}
	return nil, false
}

func idString(id *int64) (string, bool) {
	if id == nil || *id <= 0 {
		return "", false
	}
	return strconv.FormatInt(*id, 10), true
}

// StaffRole returns the staff role ID as a platform snowflake.
func (s Settings) StaffRole() (string, bool) { return idString(s.StaffRoleID) }

// AcceptedRole returns the accepted role ID as a platform snowflake.
func (s Settings) AcceptedRole() (string, bool) { return idString(s.AcceptedRoleID) }

// LogChannel returns the log channel ID as a platform snowflake.
func (s Settings) LogChannel() (string, bool) { return idString(s.LogChannelID) }

// TicketCategory returns the ticket category ID as a platform snowflake.
func (s Settings) TicketCategory() (string, bool) { return idString(s.TicketCategoryID) }

// ButtonChannel returns the open ticket button channel ID as a platform snowflake.
func (s Settings) ButtonChannel() (string, bool) { return idString(s.TicketButtonChannelID) }
