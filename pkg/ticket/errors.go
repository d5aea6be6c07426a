package ticket

import (
	"errors"
	"fmt"
)

var (
	// ErrTicketNotFound is returned when the channel has no active ticket.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotAuthorized is returned when the actor may not perform the action.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAlreadyClaimed is returned when a ticket is claimed a second time.
	ErrAlreadyClaimed = errors.New("ticket already claimed")

	// ErrNotClaimed is returned when an action needs a claimed ticket.
	ErrNotClaimed = errors.New("ticket not claimed")

	// ErrStaffRoleNotConfigured is returned when claiming without a staff role.
	ErrStaffRoleNotConfigured = errors.New("staff role not configured")

	// ErrMalformedIdentity is returned when no user ID can be extracted from input.
	ErrMalformedIdentity = errors.New("malformed user identity")

	// ErrMemberNotFound is returned when a user ID does not resolve to a guild member.
	ErrMemberNotFound = errors.New("member not found")

	// ErrCollaboratorAccess is returned when a collaborator could not be given access to the channel.
	ErrCollaboratorAccess = errors.New("could not grant collaborator access")
)

// ValidationError is returned when submitted input is rejected. Message is shown to the submitter.
type ValidationError struct {
	Field   FieldID
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
