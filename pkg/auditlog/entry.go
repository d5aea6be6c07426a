package auditlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/entities"
	"github.com/google/uuid"
)

// Level is the severity of an audit entry.
type Level string

const (
	LevelDebug    Level = "debug"
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

var levelColors = map[Level]int{
	LevelDebug:    0x95A5A6,
	LevelInfo:     0x2ECC71,
	LevelWarning:  0xE67E22,
	LevelError:    0xE74C3C,
	LevelCritical: 0xC0392B,
}

// normalize lower-cases the level and falls back to info for an empty one.
func (l Level) normalize() Level {
	n := Level(strings.ToLower(strings.TrimSpace(string(l))))
	if n == "" {
		return LevelInfo
	}
	return n
}

// Color returns the embed colour of the level. Unknown levels use the debug colour.
func (l Level) Color() int {
	if c, ok := levelColors[l.normalize()]; ok {
		return c
	}
	return levelColors[LevelDebug]
}

// Identity is a platform user referenced by an entry.
type Identity struct {
	ID   string
	Name string
}

// Entry is a structured record of an action, posted to the log channel.
type Entry struct {
	Level       Level
	Title       string
	Description string

	// Moderator is the staff member the entry is about.
	Moderator *Identity
	OwnerID   string
	ChannelID string
	Reason    string
}

func (e *Entry) title() string {
	if e.Title != "" {
		return e.Title
	}
	return strings.ToUpper(string(e.Level.normalize()))
}

// Embed renders the entry as a colour-coded embed.
func (e *Entry) Embed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.title(),
		Description: e.Description,
		Color:       e.Level.Color(),
	}

	if e.Moderator != nil {
		value := e.Moderator.Name
		if e.Moderator.ID != "" {
			value = fmt.Sprintf("<@%s> (id=%s)", e.Moderator.ID, e.Moderator.ID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Moderator", Value: value, Inline: true})
	}
	if e.OwnerID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Owner",
			Value:  fmt.Sprintf("<@%s> (id=%s)", e.OwnerID, e.OwnerID),
			Inline: true,
		})
	}
	if e.ChannelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Channel",
			Value:  fmt.Sprintf("<#%s>", e.ChannelID),
			Inline: true,
		})
	}
	if e.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reason", Value: e.Reason})
	}

	return embed
}

// Record converts the entry into its archived form.
func (e *Entry) Record(at time.Time) *entities.AuditRecord {
	r := &entities.AuditRecord{
		ID:          uuid.NewString(),
		Level:       string(e.Level.normalize()),
		Title:       e.title(),
		Description: e.Description,
		OwnerID:     e.OwnerID,
		ChannelID:   e.ChannelID,
		Reason:      e.Reason,
		CreatedAt:   at.UTC(),
	}
	if e.Moderator != nil {
		r.ModeratorID = e.Moderator.ID
	}
	return r
}
