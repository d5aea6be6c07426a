package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/ticket"
)

const (
	// OpenTicketButtonID is the ID for the open ticket button.
	OpenTicketButtonID = "open:ticket"

	// ClaimTicketButtonID is the ID for the claim ticket button.
	ClaimTicketButtonID = "ticket:take"

	// AcceptTicketButtonID is the ID for the final accept button.
	AcceptTicketButtonID = "ticket:accept_final"

	// RejectTicketButtonID is the ID for the reject button.
	RejectTicketButtonID = "ticket:reject"

	// DeleteTicketButtonID is the ID for the delete button.
	DeleteTicketButtonID = "ticket:delete"

	// AddModeratorButtonID is the ID for the add moderator button.
	AddModeratorButtonID = "ticket:add_moderator"
)

const (
	// OpenTicketModalID is the ID for the intake form.
	OpenTicketModalID = "modal:open_ticket"

	// RejectModalID is the ID for the rejection reason form.
	RejectModalID = "modal:reject"

	// AddModeratorModalID is the ID for the add moderator form.
	AddModeratorModalID = "modal:add_moderator"

	reasonInputID    = "reason"
	moderatorInputID = "moderator"
)

func openTicketButton() discordgo.Button {
	return discordgo.Button{
		Label:    "Open ticket",
		Style:    discordgo.PrimaryButton,
		CustomID: OpenTicketButtonID,
	}
}

// openTicketComponents are the actions of an unclaimed ticket.
func openTicketComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Claim ticket",
					Style:    discordgo.PrimaryButton,
					CustomID: ClaimTicketButtonID,
				},
			},
		},
	}
}

// claimedTicketComponents are the actions of a claimed ticket.
func claimedTicketComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept",
					Style:    discordgo.SuccessButton,
					CustomID: AcceptTicketButtonID,
				},
				discordgo.Button{
					Label:    "Reject ticket",
					Style:    discordgo.DangerButton,
					CustomID: RejectTicketButtonID,
				},
				discordgo.Button{
					Label:    "Delete ticket",
					Style:    discordgo.SecondaryButton,
					CustomID: DeleteTicketButtonID,
				},
				discordgo.Button{
					Label:    "Add moderator",
					Style:    discordgo.SecondaryButton,
					CustomID: AddModeratorButtonID,
				},
			},
		},
	}
}

func ticketEmbed(t *ticket.Ticket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "New ticket",
		Description: fmt.Sprintf("<@%s>, your ticket has been created.", t.Owner.ID),
		Color:       EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Information",
				Value: ticket.Summary(t.Fields),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Ticket from %s | ID: %s", t.Owner.Name(), t.Owner.ID),
		},
	}
}

func textInputRow(input discordgo.TextInput) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{input},
	}
}

func intakeModal() *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(ticket.IntakeFields))
	for _, f := range ticket.IntakeFields {
		style := discordgo.TextInputShort
		if f.Long {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, textInputRow(discordgo.TextInput{
			CustomID:  string(f.ID),
			Label:     f.Label,
			Style:     style,
			Required:  true,
			MinLength: f.MinLength,
			MaxLength: f.MaxLength,
		}))
	}

	return &discordgo.InteractionResponseData{
		CustomID:   OpenTicketModalID,
		Title:      "Open a ticket",
		Components: rows,
	}
}

func respondModal(a IApp, i *discordgo.InteractionCreate, modal *discordgo.InteractionResponseData) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	})
}

// openTicketButtonHandler shows the intake form.
func openTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondModal(a, i, intakeModal())
}

// openTicketModalHandler creates a ticket from the submitted intake form.
func openTicketModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := modalValues(i.ModalSubmitData())

	raw := make(map[ticket.FieldID]string, len(ticket.IntakeFields))
	for _, f := range ticket.IntakeFields {
		raw[f.ID] = values[string(f.ID)]
	}

	t, err := a.Tickets().Open(context.Background(), i.GuildID, memberFromDiscord(i.Member), raw)
	if err != nil {
		return err
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticket created: <#%s>", t.ChannelID))
}

// claimTicketHandler assigns the ticket to the staff member and swaps the actions to the claimed set.
func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	if _, err := a.Tickets().Do(context.Background(), i.ChannelID, actorFromDiscord(i.Member), ticket.Claim{}); err != nil {
		return err
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Components: claimedTicketComponents(),
		},
	})
}

func ackWith(a IApp, i *discordgo.InteractionCreate, content string) ticket.Ack {
	return func() error {
		return respondEphemeral(a, i, content)
	}
}

func acceptTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	_, err := a.Tickets().Do(context.Background(), i.ChannelID, actorFromDiscord(i.Member), ticket.AcceptFinal{
		Ack: ackWith(a, i, "✔ Ticket accepted and the user notified (if possible)."),
	})
	return err
}

func deleteTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	_, err := a.Tickets().Do(context.Background(), i.ChannelID, actorFromDiscord(i.Member), ticket.Delete{
		Ack: ackWith(a, i, "Deleting the channel..."),
	})
	return err
}

// rejectTicketButtonHandler asks for an optional reason. The form is only shown to those allowed to reject.
func rejectTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Tickets().Authorize(i.ChannelID, actorFromDiscord(i.Member)); err != nil {
		return err
	}

	return respondModal(a, i, &discordgo.InteractionResponseData{
		CustomID: RejectModalID,
		Title:    "Rejection reason",
		Components: []discordgo.MessageComponent{
			textInputRow(discordgo.TextInput{
				CustomID:  reasonInputID,
				Label:     "Reason (optional)",
				Style:     discordgo.TextInputParagraph,
				Required:  false,
				MaxLength: ticket.MaxReasonLength,
			}),
		},
	})
}

func rejectModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := modalValues(i.ModalSubmitData())

	_, err := a.Tickets().Do(context.Background(), i.ChannelID, actorFromDiscord(i.Member), ticket.Reject{
		Reason: ticket.RejectReason{Text: values[reasonInputID]},
		Ack:    ackWith(a, i, "❌ Ticket rejected. The user has been notified (if possible)."),
	})
	return err
}

func addModeratorButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Tickets().Authorize(i.ChannelID, actorFromDiscord(i.Member)); err != nil {
		return err
	}

	return respondModal(a, i, &discordgo.InteractionResponseData{
		CustomID: AddModeratorModalID,
		Title:    "Add a moderator to the ticket",
		Components: []discordgo.MessageComponent{
			textInputRow(discordgo.TextInput{
				CustomID:  moderatorInputID,
				Label:     "Moderator ID or mention",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: ticket.MaxCollaboratorInputLength,
			}),
		},
	})
}

func addModeratorModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := modalValues(i.ModalSubmitData())

	_, err := a.Tickets().Do(context.Background(), i.ChannelID, actorFromDiscord(i.Member), ticket.AddCollaborator{
		Request: ticket.CollaboratorRequest{Input: values[moderatorInputID]},
	})
	if err != nil {
		return err
	}

	return respondEphemeral(a, i, "✔ Moderator added to the ticket.")
}
