package ticket

import (
	"context"
)

// Access is a set of channel permissions.
type Access uint8

const (
	AccessView Access = 1 << iota
	AccessSend
	AccessHistory

	// AccessFull is what the ticket's participants get.
	AccessFull = AccessView | AccessSend | AccessHistory
)

// TargetKind is what a permission overwrite applies to.
type TargetKind int

const (
	TargetRole TargetKind = iota
	TargetMember

	// TargetSelf is the bot's own user. TargetID is ignored.
	TargetSelf
)

// Overwrite allows and denies access for one target on a channel.
type Overwrite struct {
	TargetID string
	Target   TargetKind
	Allow    Access
	Deny     Access
}

// ChannelSpec describes a ticket channel to create.
type ChannelSpec struct {
	GuildID string
	Name    string
	Topic   string

	// CategoryID is the parent category. The platform drops it if it does not resolve.
	CategoryID string

	Overwrites []Overwrite
}

// Notice is a direct message to a user.
type Notice struct {
	Title string
	Body  string
}

// Platform is the chat platform as used by the manager. Implementations return ErrMemberNotFound from
// ResolveMember when the user is not in the guild.
type Platform interface {
	// CreateChannel creates a private text channel and returns its ID.
	CreateChannel(ctx context.Context, spec ChannelSpec) (string, error)

	// PostTicket posts the ticket summary with its open-state actions to the ticket channel.
	PostTicket(ctx context.Context, t *Ticket) error

	// DeleteChannel deletes a channel.
	DeleteChannel(ctx context.Context, channelID string) error

	// SetAccess sets a permission overwrite on a channel.
	SetAccess(ctx context.Context, channelID string, o Overwrite) error

	// RoleExists reports whether the role resolves in the guild.
	RoleExists(ctx context.Context, guildID, roleID string) bool

	// ResolveMember looks a user up in the guild.
	ResolveMember(ctx context.Context, guildID, userID string) (Member, error)

	// SetNickname changes a member's guild nickname.
	SetNickname(ctx context.Context, guildID, userID, nickname string) error

	// AddRole grants a role to a member.
	AddRole(ctx context.Context, guildID, userID, roleID string) error

	// SendDirect sends a direct message to a user.
	SendDirect(ctx context.Context, userID string, n Notice) error

	// PostMessage posts a plain message to a channel.
	PostMessage(ctx context.Context, channelID, content string) error
}
