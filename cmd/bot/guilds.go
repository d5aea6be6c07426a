package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
)

// guildCount is the number of guilds in the session state.
func guildCount(s *discordgo.Session) int {
	if s.State == nil {
		return 0
	}
	s.State.RLock()
	defer s.State.RUnlock()
	return len(s.State.Guilds)
}

func guildJoinedHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		a.Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String("guild_id", g.ID))

		monitoring.TotalDiscordGuilds.Set(float64(guildCount(s)))

		// Guilds joined while running have no commands yet.
		if err := a.registerGuildCommands(g.ID); err != nil {
			a.Error("Error registering commands", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func guildLeaveHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(s *discordgo.Session, g *discordgo.GuildDelete) {
		a.Info("Left guild", slog.String("guild_id", g.ID))

		monitoring.TotalDiscordGuilds.Set(float64(guildCount(s)))
		a.registered.Delete(g.ID)
	}
}
