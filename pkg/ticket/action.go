package ticket

import (
	"context"
	"errors"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Action is a staff transition on an existing ticket.
type Action interface {
	// Name identifies the action in metrics and logs.
	Name() string

	apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error)
}

// Outcome is the result of an action.
type Outcome struct {
	// Ticket is the ticket after the transition.
	Ticket *Ticket

	// Collaborator is the member added by AddCollaborator.
	Collaborator *Member
}

// Claim assigns the ticket to the actor.
type Claim struct{}

func (Claim) Name() string { return "claim" }

func (Claim) apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error) {
	t, err := m.claim(ctx, channelID, actor)
	return Outcome{Ticket: t}, err
}

// AcceptFinal accepts the application and closes the ticket.
type AcceptFinal struct {
	Ack Ack
}

func (AcceptFinal) Name() string { return "accept_final" }

func (a AcceptFinal) apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error) {
	t, err := m.acceptFinal(ctx, channelID, actor, a.Ack)
	return Outcome{Ticket: t}, err
}

// Reject rejects the application with an optional reason and closes the ticket.
type Reject struct {
	Reason RejectReason
	Ack    Ack
}

func (Reject) Name() string { return "reject" }

func (a Reject) apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error) {
	t, err := m.reject(ctx, channelID, actor, a.Reason, a.Ack)
	return Outcome{Ticket: t}, err
}

// Delete closes the ticket without a verdict.
type Delete struct {
	Ack Ack
}

func (Delete) Name() string { return "delete" }

func (a Delete) apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error) {
	t, err := m.delete(ctx, channelID, actor, a.Ack)
	return Outcome{Ticket: t}, err
}

// AddCollaborator gives another member access to the ticket channel.
type AddCollaborator struct {
	Request CollaboratorRequest
}

func (AddCollaborator) Name() string { return "add_collaborator" }

func (a AddCollaborator) apply(ctx context.Context, m *Manager, channelID string, actor Actor) (Outcome, error) {
	t, member, err := m.addCollaborator(ctx, channelID, actor, a.Request)
	return Outcome{Ticket: t, Collaborator: member}, err
}

// Do performs the action on the ticket in the channel.
func (m *Manager) Do(ctx context.Context, channelID string, actor Actor, a Action) (Outcome, error) {
	out, err := a.apply(ctx, m, channelID, actor)
	Transitions.WithLabelValues(a.Name(), outcomeFor(err)).Inc()
	return out, err
}

func outcomeFor(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &vErr),
		errors.Is(err, ErrTicketNotFound),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrNotClaimed),
		errors.Is(err, ErrStaffRoleNotConfigured),
		errors.Is(err, ErrMalformedIdentity),
		errors.Is(err, ErrMemberNotFound):
		return outcomeRejected
	default:
		return outcomeError
	}
}
