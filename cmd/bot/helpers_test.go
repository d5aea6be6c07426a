package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/settings"
	"github.com/Jacobbrewer1/tickets/pkg/ticket"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		customID string
		key      string
		arg      string
	}{
		{customID: ClaimTicketButtonID, key: "ticket:take"},
		{customID: SettingsModalID + "/staff_role_id", key: SettingsModalID, arg: "staff_role_id"},
		{customID: "", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.customID, func(t *testing.T) {
			require.Equal(t, tt.key, routeKey(tt.customID))
			require.Equal(t, tt.arg, routeArg(tt.customID))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantContains string
		wantExpected bool
	}{
		{
			name:         "intake validation",
			err:          &ticket.ValidationError{Field: ticket.FieldAge, Message: "❌ Age must be a number of 1-2 digits."},
			wantContains: "Age must be a number",
			wantExpected: true,
		},
		{
			name:         "settings validation",
			err:          &settings.ValidationError{Key: settings.KeyStaffRoleID, Message: "value must be an integer ID"},
			wantContains: "staff_role_id",
			wantExpected: true,
		},
		{
			name:         "wrapped sentinel",
			err:          fmt.Errorf("claiming: %w", ticket.ErrAlreadyClaimed),
			wantContains: "already been claimed",
			wantExpected: true,
		},
		{
			name:         "not authorized",
			err:          ticket.ErrNotAuthorized,
			wantContains: "Only the moderator",
			wantExpected: true,
		},
		{
			name:         "staff role missing",
			err:          ticket.ErrStaffRoleNotConfigured,
			wantContains: "staff role is not configured",
			wantExpected: true,
		},
		{
			name:         "member not found",
			err:          ticket.ErrMemberNotFound,
			wantContains: "not found on the server",
			wantExpected: true,
		},
		{
			name:         "not administrator",
			err:          errNotAdministrator,
			wantContains: "administrators",
			wantExpected: true,
		},
		{
			name:         "unexpected",
			err:          errors.New("connection reset"),
			wantContains: msgErrorProcessing,
			wantExpected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, expected := userMessage(tt.err)
			require.Contains(t, msg, tt.wantContains)
			require.Equal(t, tt.wantExpected, expected)
		})
	}
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: RejectModalID,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: reasonInputID, Value: "spam"},
				},
			},
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: "other", Value: "x"},
				},
			},
		},
	}

	require.Equal(t, map[string]string{reasonInputID: "spam", "other": "x"}, modalValues(data))
}

func TestIntakeModal(t *testing.T) {
	modal := intakeModal()
	require.Equal(t, OpenTicketModalID, modal.CustomID)
	require.Len(t, modal.Components, len(ticket.IntakeFields))

	row, ok := modal.Components[2].(discordgo.ActionsRow)
	require.True(t, ok)
	input, ok := row.Components[0].(discordgo.TextInput)
	require.True(t, ok)
	require.Equal(t, string(ticket.FieldPurpose), input.CustomID)
	require.Equal(t, discordgo.TextInputParagraph, input.Style)
	require.Equal(t, 50, input.MinLength)
	require.Equal(t, 500, input.MaxLength)
}

func TestPermissionBits(t *testing.T) {
	require.Equal(t, int64(0), permissionBits(0))
	require.Equal(t, int64(discordgo.PermissionViewChannel), permissionBits(ticket.AccessView))
	require.Equal(t,
		int64(discordgo.PermissionViewChannel|discordgo.PermissionSendMessages|discordgo.PermissionReadMessageHistory),
		permissionBits(ticket.AccessFull),
	)
}

func TestActorFromDiscord(t *testing.T) {
	m := &discordgo.Member{
		User:        &discordgo.User{ID: "1", Username: "mod"},
		Nick:        "Moderator",
		Roles:       []string{"2"},
		Permissions: discordgo.PermissionAdministrator,
	}

	actor := actorFromDiscord(m)
	require.Equal(t, "1", actor.ID)
	require.Equal(t, "Moderator", actor.Name())
	require.True(t, actor.Admin)
	require.True(t, actor.HasRole("2"))

	m.Permissions = discordgo.PermissionSendMessages
	require.False(t, actorFromDiscord(m).Admin)

	require.Equal(t, ticket.Actor{}, actorFromDiscord(nil))
}

func TestSettingDisplay(t *testing.T) {
	st := settings.Defaults()
	id := int64(123456789012345678)
	st.StaffRoleID = &id
	st.RejectMessage = ""
	st.AcceptMessage = strings.Repeat("a", 2000)

	require.Equal(t, "`123456789012345678`", settingDisplay(st, settings.KeyStaffRoleID))
	require.Equal(t, "*not set*", settingDisplay(st, settings.KeyLogChannelID))
	require.Equal(t, "*empty*", settingDisplay(st, settings.KeyRejectMessage))
	require.Equal(t, maxFieldValue, len([]rune(settingDisplay(st, settings.KeyAcceptMessage))))
}

func TestSettingsModal(t *testing.T) {
	st := settings.Defaults()
	info, ok := settings.Lookup(settings.KeyAcceptMessage)
	require.True(t, ok)

	modal := settingsModal(st, info)
	require.Equal(t, settings.KeyAcceptMessage, settings.Key(routeArg(modal.CustomID)))
	require.Equal(t, SettingsModalID, routeKey(modal.CustomID))

	row := modal.Components[0].(discordgo.ActionsRow)
	input := row.Components[0].(discordgo.TextInput)
	require.Equal(t, discordgo.TextInputParagraph, input.Style)
	require.Equal(t, settings.DefaultAcceptMessage, input.Value)
	require.LessOrEqual(t, len([]rune(input.Label)), 45)
}

func TestTicketEmbed(t *testing.T) {
	tk := &ticket.Ticket{
		Owner: ticket.Member{ID: "42", Username: "steve"},
		Fields: []ticket.Field{
			{ID: ticket.FieldNickname, Summary: "Nickname", Value: "Steve"},
		},
	}

	embed := ticketEmbed(tk)
	require.Equal(t, EmbedColor, embed.Color)
	require.Contains(t, embed.Description, "<@42>")
	require.Equal(t, "**Nickname:** Steve", embed.Fields[0].Value)
	require.Equal(t, "Ticket from steve | ID: 42", embed.Footer.Text)
}
