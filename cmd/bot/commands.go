package main

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/auditlog"
	"github.com/Jacobbrewer1/tickets/pkg/settings"
)

const (
	// SettingsCmdName opens the settings editor.
	SettingsCmdName = "settings"

	// DeployTicketMessageCmdName posts the intake button.
	DeployTicketMessageCmdName = "deploy_ticket_message"

	// TestLogCmdName sends a sample audit entry.
	TestLogCmdName = "test_log"
)

const (
	// SettingsSelectID is the ID for the settings key select menu.
	SettingsSelectID = "settings:select"

	// SettingsModalID is the ID prefix for the settings value form. The key follows the route separator.
	SettingsModalID = "settings:value"

	settingsValueInputID = "value"

	// maxFieldValue is the longest value an embed field can hold.
	maxFieldValue = 1024
)

var (
	settingsCmd = &discordgo.ApplicationCommand{
		Name:        SettingsCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Open the ticket settings editor (administrators only).",
	}

	deployTicketMessageCmd = &discordgo.ApplicationCommand{
		Name:        DeployTicketMessageCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Post the open ticket button to the configured channel (administrators only).",
	}

	testLogCmd = &discordgo.ApplicationCommand{
		Name:        TestLogCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Send a test entry to the log channel (administrators only).",
	}
)

// slashCommands are registered in every guild the bot is in.
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		settingsCmd,
		deployTicketMessageCmd,
		testLogCmd,
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-1]) + "…"
}

// settingDisplay formats a setting for the settings embed.
func settingDisplay(st settings.Settings, key settings.Key) string {
	v, ok := st.Value(key)
	if !ok {
		return "*not set*"
	}

	switch v := v.(type) {
	case int64:
		return "`" + strconv.FormatInt(v, 10) + "`"
	case string:
		if v == "" {
			return "*empty*"
		}
		return truncate(v, maxFieldValue)
	default:
		return fmt.Sprint(v)
	}
}

// settingInputValue is the current value as prefilled in the edit form.
func settingInputValue(st settings.Settings, key settings.Key) string {
	v, ok := st.Value(key)
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return truncate(v, 4000)
	default:
		return fmt.Sprint(v)
	}
}

func settingsEmbed(st settings.Settings) *discordgo.MessageEmbed {
	keys := settings.Keys()
	fields := make([]*discordgo.MessageEmbedField, 0, len(keys))
	for _, info := range keys {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s (%s)", info.Label, info.Key),
			Value: settingDisplay(st, info.Key),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "Ticket settings",
		Description: "Choose a setting below to change it. Enter `none` to clear an ID.",
		Color:       EmbedColor,
		Fields:      fields,
	}
}

func settingsSelect() discordgo.SelectMenu {
	keys := settings.Keys()
	options := make([]discordgo.SelectMenuOption, 0, len(keys))
	for _, info := range keys {
		options = append(options, discordgo.SelectMenuOption{
			Label:       info.Label,
			Value:       string(info.Key),
			Description: info.Description,
		})
	}

	return discordgo.SelectMenu{
		CustomID:    SettingsSelectID,
		Placeholder: "Choose a setting to change",
		Options:     options,
	}
}

// settingsCmdHandler shows the current settings and the key selector.
func settingsCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := requireAdmin(i); err != nil {
		return err
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				settingsEmbed(a.Settings().Snapshot()),
			},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{settingsSelect()},
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func settingsModal(st settings.Settings, info settings.KeyInfo) *discordgo.InteractionResponseData {
	style := discordgo.TextInputShort
	if info.Long {
		style = discordgo.TextInputParagraph
	}

	return &discordgo.InteractionResponseData{
		CustomID: SettingsModalID + routeSeparator + string(info.Key),
		Title:    truncate("Edit: "+string(info.Key), 45),
		Components: []discordgo.MessageComponent{
			textInputRow(discordgo.TextInput{
				CustomID: settingsValueInputID,
				Label:    truncate("New value for "+info.Label, 45),
				Style:    style,
				Value:    settingInputValue(st, info.Key),
				Required: true,
			}),
		},
	}
}

// settingsSelectHandler opens the edit form for the chosen key.
func settingsSelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := requireAdmin(i); err != nil {
		return err
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return fmt.Errorf("%w: nothing selected", settings.ErrUnknownKey)
	}

	info, ok := settings.Lookup(settings.Key(values[0]))
	if !ok {
		return fmt.Errorf("%w: %s", settings.ErrUnknownKey, values[0])
	}

	return respondModal(a, i, settingsModal(a.Settings().Snapshot(), info))
}

// settingsModalHandler stores the submitted value.
func settingsModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := requireAdmin(i); err != nil {
		return err
	}

	data := i.ModalSubmitData()
	key := settings.Key(routeArg(data.CustomID))
	if _, ok := settings.Lookup(key); !ok {
		return fmt.Errorf("%w: %s", settings.ErrUnknownKey, key)
	}

	if err := a.Settings().Set(key, modalValues(data)[settingsValueInputID]); err != nil {
		return err
	}

	return respondEphemeral(a, i, fmt.Sprintf("✅ Setting **%s** updated.", key))
}

// deployTicketMessageCmdHandler posts the intake button to the configured channel.
func deployTicketMessageCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := requireAdmin(i); err != nil {
		return err
	}

	st := a.Settings().Snapshot()
	channelID, ok := st.ButtonChannel()
	if !ok {
		return errButtonChannelNotConfigured
	}

	channel, err := a.Session().State.Channel(channelID)
	if err != nil {
		channel, err = a.Session().Channel(channelID)
		if err != nil {
			return fmt.Errorf("%w: %w", errChannelNotFound, err)
		}
	}

	text := st.TicketMessageText
	if text == "" {
		text = settings.DefaultTicketMessageText
	}

	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Open a ticket",
				Description: text,
				Color:       EmbedColor,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{openTicketButton()},
			},
		},
	}); err != nil {
		return fmt.Errorf("error sending button message: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("✔ The button message was sent to <#%s>.", channel.ID))
}

// testLogCmdHandler sends a debug entry naming the invoking administrator.
func testLogCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := requireAdmin(i); err != nil {
		return err
	}

	actor := actorFromDiscord(i.Member)
	a.Audit().Send(context.Background(), auditlog.Entry{
		Level:       auditlog.LevelDebug,
		Title:       "Test log",
		Description: fmt.Sprintf("Test log from %s (id=%s)", actor.Name(), actor.ID),
		Moderator:   &auditlog.Identity{ID: actor.ID, Name: actor.Name()},
	})

	return respondEphemeral(a, i, "✔ Test log sent (if a log channel is configured).")
}
