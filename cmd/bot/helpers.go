package main

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/settings"
	"github.com/Jacobbrewer1/tickets/pkg/ticket"
)

const msgErrorProcessing = "❌ Something went wrong while processing your request."

var (
	// errNotAdministrator is returned when a non administrator uses an administrative command.
	errNotAdministrator = errors.New("administrator permission required")

	// errGuildOnly is returned for interactions outside of a guild.
	errGuildOnly = errors.New("interaction outside of a guild")

	// errButtonChannelNotConfigured is returned when deploying the intake button without a channel.
	errButtonChannelNotConfigured = errors.New("button channel not configured")

	// errChannelNotFound is returned when a configured channel does not resolve.
	errChannelNotFound = errors.New("channel not found")
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, msgErrorProcessing)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// userMessage returns the message shown to the user for an error, and whether the error is an expected outcome of
// the user's input rather than a failure.
func userMessage(err error) (string, bool) {
	var (
		ticketErr   *ticket.ValidationError
		settingsErr *settings.ValidationError
	)

	switch {
	case errors.As(err, &ticketErr):
		return ticketErr.Message, true
	case errors.As(err, &settingsErr):
		return fmt.Sprintf("❌ Invalid value for %s: %s.", settingsErr.Key, settingsErr.Message), true
	case errors.Is(err, errNotAdministrator):
		return "❌ This command is only available to administrators.", true
	case errors.Is(err, errGuildOnly):
		return "❌ This can only be used in a server.", true
	case errors.Is(err, errButtonChannelNotConfigured):
		return "❌ The button channel is not configured (ticket_button_channel_id).", true
	case errors.Is(err, errChannelNotFound):
		return "❌ Channel not found.", true
	case errors.Is(err, settings.ErrUnknownKey):
		return "❌ Unknown setting.", true
	case errors.Is(err, ticket.ErrTicketNotFound):
		return "⚠ This ticket is no longer active.", true
	case errors.Is(err, ticket.ErrStaffRoleNotConfigured):
		return "❌ The staff role is not configured.", true
	case errors.Is(err, ticket.ErrAlreadyClaimed):
		return "⚠ This ticket has already been claimed.", true
	case errors.Is(err, ticket.ErrNotClaimed):
		return "⚠ The ticket has to be claimed first.", true
	case errors.Is(err, ticket.ErrNotAuthorized):
		return "⚠ Only the moderator who claimed the ticket can do this.", true
	case errors.Is(err, ticket.ErrMalformedIdentity):
		return "❌ Could not recognise a user ID.", true
	case errors.Is(err, ticket.ErrMemberNotFound):
		return "❌ User not found on the server.", true
	case errors.Is(err, ticket.ErrCollaboratorAccess):
		return "❌ Could not set permissions or send the message.", true
	default:
		return msgErrorProcessing, false
	}
}

// modalValues returns the submitted text input values by custom ID.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func isAdmin(m *discordgo.Member) bool {
	return m != nil && m.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

func requireAdmin(i *discordgo.InteractionCreate) error {
	if !isAdmin(i.Member) {
		return errNotAdministrator
	}
	return nil
}
