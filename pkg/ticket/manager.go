package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/tickets/pkg/auditlog"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/Jacobbrewer1/tickets/pkg/settings"
	"github.com/google/uuid"
)

// SettingsSource provides the current settings.
type SettingsSource interface {
	Snapshot() settings.Settings
}

// Auditor accepts audit entries for delivery.
type Auditor interface {
	Send(ctx context.Context, e auditlog.Entry)
}

// Ack acknowledges a resolution to the caller. It runs after the transition is committed and before the
// channel is deleted.
type Ack func() error

// Manager owns the open tickets and performs their transitions.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	platform Platform
	settings SettingsSource
	audit    Auditor
	now      func() time.Time

	mu sync.Mutex

	// tickets are the active tickets by channel ID.
	tickets map[string]*Ticket
}

// NewManager creates a manager with an empty registry.
func NewManager(l *slog.Logger, platform Platform, settings SettingsSource, audit Auditor) *Manager {
	return &Manager{
		l:        l.With(slog.String("component", "ticket_manager")),
		platform: platform,
		settings: settings,
		audit:    audit,
		now:      time.Now,
		tickets:  make(map[string]*Ticket),
	}
}

// Ticket returns a copy of the active ticket in the channel.
func (m *Manager) Ticket(channelID string) (*Ticket, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[channelID]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// Open validates the intake form and creates the ticket and its channel.
func (m *Manager) Open(ctx context.Context, guildID string, owner Member, raw map[FieldID]string) (*Ticket, error) {
	fields, err := ValidateIntake(raw)
	if err != nil {
		Transitions.WithLabelValues("open", outcomeRejected).Inc()
		return nil, err
	}

	cfg := m.settings.Snapshot()

	t := &Ticket{
		ID:        uuid.NewString(),
		GuildID:   guildID,
		Owner:     owner,
		Fields:    fields,
		State:     StateOpen,
		CreatedAt: m.now().UTC(),
	}

	spec := ChannelSpec{
		GuildID: guildID,
		Name:    channelName(owner.Username),
		Topic:   Topic(owner.ID),
		Overwrites: []Overwrite{
			// The @everyone role shares the guild's ID.
			{TargetID: guildID, Target: TargetRole, Deny: AccessView},
			{TargetID: owner.ID, Target: TargetMember, Allow: AccessFull},
			{Target: TargetSelf, Allow: AccessFull},
		},
	}
	if roleID, ok := cfg.StaffRole(); ok && m.platform.RoleExists(ctx, guildID, roleID) {
		spec.Overwrites = append(spec.Overwrites, Overwrite{TargetID: roleID, Target: TargetRole, Allow: AccessFull})
	}
	if categoryID, ok := cfg.TicketCategory(); ok {
		spec.CategoryID = categoryID
	}

	channelID, err := m.platform.CreateChannel(ctx, spec)
	if err != nil {
		Transitions.WithLabelValues("open", outcomeError).Inc()
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}
	t.ChannelID = channelID

	m.mu.Lock()
	m.tickets[channelID] = t
	OpenTickets.Set(float64(len(m.tickets)))
	posted := t.clone()
	m.mu.Unlock()

	if err := m.platform.PostTicket(ctx, posted); err != nil {
		// Without the summary nobody can act on the ticket.
		m.forget(channelID)
		m.bestEffort(ctx, posted, "delete_channel", func() error {
			return m.platform.DeleteChannel(ctx, channelID)
		})
		Transitions.WithLabelValues("open", outcomeError).Inc()
		return nil, fmt.Errorf("error posting ticket summary: %w", err)
	}

	m.l.Info("Ticket opened",
		slog.String(logging.KeyTicket, t.ID),
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, owner.ID),
	)
	Transitions.WithLabelValues("open", outcomeOK).Inc()
	return posted, nil
}

// Authorize checks that the actor may act on the claimed ticket in the channel, without changing it.
func (m *Manager) Authorize(channelID string, actor Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.claimedLocked(channelID, actor)
	return err
}

func (m *Manager) claimedLocked(channelID string, actor Actor) (*Ticket, error) {
	t, ok := m.tickets[channelID]
	if !ok {
		return nil, ErrTicketNotFound
	} else if t.State != StateClaimed {
		return nil, ErrNotClaimed
	} else if !t.canResolve(actor) {
		return nil, ErrNotAuthorized
	}
	return t, nil
}

func (m *Manager) claim(ctx context.Context, channelID string, actor Actor) (*Ticket, error) {
	roleID, ok := m.settings.Snapshot().StaffRole()
	if !ok {
		return nil, ErrStaffRoleNotConfigured
	}

	if !actor.Admin && !actor.HasRole(roleID) {
		return nil, ErrNotAuthorized
	}

	// Check and set in one critical section: no platform call happens before the claimant is committed.
	m.mu.Lock()
	t, ok := m.tickets[channelID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrTicketNotFound
	} else if t.ClaimantID != "" || t.State != StateOpen {
		m.mu.Unlock()
		return nil, ErrAlreadyClaimed
	}
	t.ClaimantID = actor.ID
	t.State = StateClaimed
	claimed := t.clone()
	m.mu.Unlock()

	// Only the claimant and the owner keep the ability to write.
	m.bestEffort(ctx, claimed, "staff_access", func() error {
		return m.platform.SetAccess(ctx, channelID, Overwrite{
			TargetID: roleID,
			Target:   TargetRole,
			Allow:    AccessView | AccessHistory,
			Deny:     AccessSend,
		})
	})
	m.bestEffort(ctx, claimed, "claimant_access", func() error {
		return m.platform.SetAccess(ctx, channelID, Overwrite{TargetID: claimed.ClaimantID, Target: TargetMember, Allow: AccessFull})
	})
	m.bestEffort(ctx, claimed, "owner_access", func() error {
		return m.platform.SetAccess(ctx, channelID, Overwrite{TargetID: claimed.Owner.ID, Target: TargetMember, Allow: AccessFull})
	})

	m.l.Info("Ticket claimed",
		slog.String(logging.KeyTicket, claimed.ID),
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, actor.ID),
	)
	return claimed, nil
}

// resolve commits a terminal transition and removes the ticket from the registry.
func (m *Manager) resolve(channelID string, actor Actor, res Resolution) (*Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.claimedLocked(channelID, actor)
	if err != nil {
		return nil, err
	}

	t.State = StateResolved
	t.Resolution = res
	delete(m.tickets, channelID)
	OpenTickets.Set(float64(len(m.tickets)))
	return t.clone(), nil
}

func (m *Manager) acceptFinal(ctx context.Context, channelID string, actor Actor, ack Ack) (*Ticket, error) {
	t, err := m.resolve(channelID, actor, ResolutionAccepted)
	if err != nil {
		return nil, err
	}
	cfg := m.settings.Snapshot()

	m.bestEffort(ctx, t, "nickname", func() error {
		return m.platform.SetNickname(ctx, t.GuildID, t.Owner.ID, t.Nickname())
	})

	if roleID, ok := cfg.AcceptedRole(); ok && m.platform.RoleExists(ctx, t.GuildID, roleID) {
		m.bestEffort(ctx, t, "accepted_role", func() error {
			return m.platform.AddRole(ctx, t.GuildID, t.Owner.ID, roleID)
		})
	}

	m.bestEffort(ctx, t, "direct_message", func() error {
		return m.platform.SendDirect(ctx, t.Owner.ID, acceptNotice(cfg.AcceptMessage))
	})

	m.acknowledge(t, ack)

	m.audit.Send(ctx, auditlog.Entry{
		Level:       auditlog.LevelInfo,
		Title:       "Application accepted",
		Description: fmt.Sprintf("Ticket accepted by moderator %s\n\n%s", describeActor(actor), Summary(t.Fields)),
		Moderator:   &auditlog.Identity{ID: actor.ID, Name: actor.Name()},
		OwnerID:     t.Owner.ID,
		ChannelID:   t.ChannelID,
	})

	m.deleteChannel(ctx, t)
	return t, nil
}

func (m *Manager) reject(ctx context.Context, channelID string, actor Actor, reason RejectReason, ack Ack) (*Ticket, error) {
	reason, err := reason.Validate()
	if err != nil {
		return nil, err
	}

	t, err := m.resolve(channelID, actor, ResolutionRejected)
	if err != nil {
		return nil, err
	}
	cfg := m.settings.Snapshot()

	m.bestEffort(ctx, t, "direct_message", func() error {
		return m.platform.SendDirect(ctx, t.Owner.ID, rejectNotice(cfg.RejectMessage, reason.Text))
	})

	m.acknowledge(t, ack)

	m.audit.Send(ctx, auditlog.Entry{
		Level:       auditlog.LevelWarning,
		Title:       "Application rejected",
		Description: fmt.Sprintf("Ticket rejected by moderator %s\n\n%s", describeActor(actor), Summary(t.Fields)),
		Moderator:   &auditlog.Identity{ID: actor.ID, Name: actor.Name()},
		OwnerID:     t.Owner.ID,
		ChannelID:   t.ChannelID,
		Reason:      reason.Text,
	})

	m.deleteChannel(ctx, t)
	return t, nil
}

func (m *Manager) delete(ctx context.Context, channelID string, actor Actor, ack Ack) (*Ticket, error) {
	t, err := m.resolve(channelID, actor, ResolutionDeleted)
	if err != nil {
		return nil, err
	}

	m.acknowledge(t, ack)
	m.deleteChannel(ctx, t)
	return t, nil
}

func (m *Manager) addCollaborator(ctx context.Context, channelID string, actor Actor, req CollaboratorRequest) (*Ticket, *Member, error) {
	m.mu.Lock()
	t, err := m.claimedLocked(channelID, actor)
	if err != nil {
		m.mu.Unlock()
		return nil, nil, err
	}
	t = t.clone()
	m.mu.Unlock()

	userID, err := req.Identity()
	if err != nil {
		return nil, nil, err
	}

	member, err := m.platform.ResolveMember(ctx, t.GuildID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMemberNotFound, err)
	}

	if err := m.platform.SetAccess(ctx, channelID, Overwrite{TargetID: member.ID, Target: TargetMember, Allow: AccessFull}); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCollaboratorAccess, err)
	}

	if err := m.platform.PostMessage(ctx, channelID, fmt.Sprintf("<@%s> you have been added to the ticket <#%s>", member.ID, channelID)); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCollaboratorAccess, err)
	}

	m.audit.Send(ctx, auditlog.Entry{
		Level:       auditlog.LevelInfo,
		Title:       "Moderator added to ticket",
		Description: fmt.Sprintf("User <@%s> was added to the ticket by %s", member.ID, describeActor(actor)),
		Moderator:   &auditlog.Identity{ID: member.ID, Name: member.Name()},
		ChannelID:   channelID,
	})

	return t, &member, nil
}

func (m *Manager) deleteChannel(ctx context.Context, t *Ticket) {
	m.bestEffort(ctx, t, "delete_channel", func() error {
		return m.platform.DeleteChannel(ctx, t.ChannelID)
	})

	m.l.Info("Ticket resolved",
		slog.String(logging.KeyTicket, t.ID),
		slog.String(logging.KeyChannel, t.ChannelID),
		slog.String("resolution", string(t.Resolution)),
	)
}

func (m *Manager) acknowledge(t *Ticket, ack Ack) {
	if ack == nil {
		return
	}
	if err := ack(); err != nil {
		m.l.Warn("Error acknowledging resolution",
			slog.String(logging.KeyTicket, t.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}

func (m *Manager) forget(channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tickets, channelID)
	OpenTickets.Set(float64(len(m.tickets)))
}

// bestEffort runs a side effect whose failure must not affect the transition or its siblings.
func (m *Manager) bestEffort(_ context.Context, t *Ticket, step string, fn func() error) {
	if err := fn(); err != nil {
		SideEffectFailures.WithLabelValues(step).Inc()
		m.l.Warn("Side effect failed",
			slog.String("step", step),
			slog.String(logging.KeyTicket, t.ID),
			slog.String(logging.KeyChannel, t.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
