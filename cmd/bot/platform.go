package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/ticket"
)

// EmbedColor is the colour of every embed the bot sends other than audit entries.
const EmbedColor = 0x46009E

// discordPlatform performs ticket side effects against the Discord API.
type discordPlatform struct {
	s *discordgo.Session
}

func newDiscordPlatform(s *discordgo.Session) *discordPlatform {
	return &discordPlatform{
		s: s,
	}
}

func permissionBits(a ticket.Access) int64 {
	var p int64
	if a&ticket.AccessView != 0 {
		p |= discordgo.PermissionViewChannel
	}
	if a&ticket.AccessSend != 0 {
		p |= discordgo.PermissionSendMessages
	}
	if a&ticket.AccessHistory != 0 {
		p |= discordgo.PermissionReadMessageHistory
	}
	return p
}

func (p *discordPlatform) overwrite(o ticket.Overwrite) *discordgo.PermissionOverwrite {
	po := &discordgo.PermissionOverwrite{
		ID:    o.TargetID,
		Type:  discordgo.PermissionOverwriteTypeMember,
		Allow: permissionBits(o.Allow),
		Deny:  permissionBits(o.Deny),
	}
	switch o.Target {
	case ticket.TargetRole:
		po.Type = discordgo.PermissionOverwriteTypeRole
	case ticket.TargetSelf:
		po.ID = p.s.State.User.ID
	}
	return po
}

func (p *discordPlatform) CreateChannel(_ context.Context, spec ticket.ChannelSpec) (string, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(spec.Overwrites))
	for _, o := range spec.Overwrites {
		overwrites = append(overwrites, p.overwrite(o))
	}

	data := discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                spec.Topic,
		PermissionOverwrites: overwrites,
	}

	// A category that no longer exists is dropped rather than failing the ticket.
	if spec.CategoryID != "" {
		if category, err := p.channel(spec.CategoryID); err == nil && category.Type == discordgo.ChannelTypeGuildCategory {
			data.ParentID = category.ID
		}
	}

	ch, err := p.s.GuildChannelCreateComplex(spec.GuildID, data)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (p *discordPlatform) PostTicket(_ context.Context, t *ticket.Ticket) error {
	_, err := p.s.ChannelMessageSendComplex(t.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", t.Owner.ID),
		Embeds: []*discordgo.MessageEmbed{
			ticketEmbed(t),
		},
		Components: openTicketComponents(),
	})
	return err
}

func (p *discordPlatform) DeleteChannel(_ context.Context, channelID string) error {
	_, err := p.s.ChannelDelete(channelID)
	return err
}

func (p *discordPlatform) SetAccess(_ context.Context, channelID string, o ticket.Overwrite) error {
	po := p.overwrite(o)
	return p.s.ChannelPermissionSet(channelID, po.ID, po.Type, po.Allow, po.Deny)
}

func (p *discordPlatform) RoleExists(_ context.Context, guildID, roleID string) bool {
	if _, err := p.s.State.Role(guildID, roleID); err == nil {
		return true
	}

	roles, err := p.s.GuildRoles(guildID)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

func (p *discordPlatform) ResolveMember(_ context.Context, guildID, userID string) (ticket.Member, error) {
	if m, err := p.s.State.Member(guildID, userID); err == nil {
		return memberFromDiscord(m), nil
	}

	m, err := p.s.GuildMember(guildID, userID)
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return ticket.Member{}, ticket.ErrMemberNotFound
		}
		return ticket.Member{}, fmt.Errorf("error getting guild member: %w", err)
	}
	return memberFromDiscord(m), nil
}

func (p *discordPlatform) SetNickname(_ context.Context, guildID, userID, nickname string) error {
	return p.s.GuildMemberNickname(guildID, userID, nickname)
}

func (p *discordPlatform) AddRole(_ context.Context, guildID, userID, roleID string) error {
	return p.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p *discordPlatform) SendDirect(_ context.Context, userID string, n ticket.Notice) error {
	ch, err := p.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("error opening direct channel: %w", err)
	}

	_, err = p.s.ChannelMessageSendEmbed(ch.ID, &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Body,
		Color:       EmbedColor,
	})
	return err
}

func (p *discordPlatform) PostMessage(_ context.Context, channelID, content string) error {
	_, err := p.s.ChannelMessageSend(channelID, content)
	return err
}

// PostEmbed posts an audit entry to the log channel.
func (p *discordPlatform) PostEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (p *discordPlatform) channel(channelID string) (*discordgo.Channel, error) {
	if ch, err := p.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return p.s.Channel(channelID)
}

func memberFromDiscord(m *discordgo.Member) ticket.Member {
	if m == nil || m.User == nil {
		return ticket.Member{}
	}
	return ticket.Member{
		ID:          m.User.ID,
		Username:    m.User.Username,
		DisplayName: m.Nick,
	}
}

func actorFromDiscord(m *discordgo.Member) ticket.Actor {
	if m == nil {
		return ticket.Actor{}
	}
	return ticket.Actor{
		Member:  memberFromDiscord(m),
		RoleIDs: m.Roles,
		Admin:   m.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator,
	}
}
