package ticket

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Signature closes every direct notification.
	Signature = "-# Kind regards, the Abyss team"

	AcceptedTitle = "Your application has been accepted!"
	RejectedTitle = "Your application has been rejected!"

	// DefaultRejectMessage is used when no reject message is configured.
	DefaultRejectMessage = "Your ticket has been rejected."

	channelNamePrefix = "ticket-"
	maxChannelName    = 90
)

// Summary lists the submitted fields, one per line.
func Summary(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("**%s:** %s", f.Summary, f.Value))
	}
	return strings.Join(lines, "\n")
}

// Topic is the channel topic that records the ticket owner.
func Topic(ownerID string) string {
	return "ticket_owner:" + ownerID
}

func channelName(username string) string {
	name := channelNamePrefix + username
	if utf8.RuneCountInString(name) <= maxChannelName {
		return name
	}
	return string([]rune(name)[:maxChannelName])
}

func acceptNotice(message string) Notice {
	body := Signature
	if message != "" {
		body = message + "\n\n" + Signature
	}
	return Notice{Title: AcceptedTitle, Body: body}
}

func rejectNotice(message, reason string) Notice {
	if message == "" {
		message = DefaultRejectMessage
	}
	if reason != "" {
		message = fmt.Sprintf("%s\n\n**Reason:** %s", message, reason)
	}
	return Notice{Title: RejectedTitle, Body: message + "\n\n" + Signature}
}

func describeActor(a Actor) string {
	return fmt.Sprintf("%s (id=%s)", a.Name(), a.ID)
}
