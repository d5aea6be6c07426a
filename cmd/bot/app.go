package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/cmd/bot/config"
	"github.com/Jacobbrewer1/tickets/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/tickets/pkg/auditlog"
	"github.com/Jacobbrewer1/tickets/pkg/dataaccess"
	"github.com/Jacobbrewer1/tickets/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/Jacobbrewer1/tickets/pkg/request"
	"github.com/Jacobbrewer1/tickets/pkg/settings"
	"github.com/Jacobbrewer1/tickets/pkg/ticket"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Settings returns the settings store.
	Settings() *settings.Store

	// Tickets returns the ticket manager.
	Tickets() *ticket.Manager

	// Audit returns the audit log sink.
	Audit() *auditlog.Sink
}

type App struct {
	// is the logger. Error records are forwarded to the log channel once the sink exists.
	*slog.Logger

	// base is the logger that never forwards to the log channel.
	base *slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// cfg is the environment configuration.
	cfg *config.Values

	// appID is the application commands are registered for.
	appID string

	// registered are the guilds commands have been registered in.
	registered sync.Map

	settings *settings.Store
	sink     *auditlog.Sink
	tickets  *ticket.Manager

	// mongo is the audit archive client. Nil when the archive is disabled.
	mongo *mongo.Client
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		base:   l,
		r:      r,
	}
}

func (a *App) Run(cfg *config.Values) error {
	a.cfg = cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := settings.LoadOrInitialize(a.base, cfg.SettingsFile)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}
	a.settings = store

	// Register bot.
	if err := a.RegisterBot(cfg.BotToken); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	if err := a.setupTicketing(ctx); err != nil {
		return fmt.Errorf("error setting up ticketing: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Process shutdown signal.
	<-ctx.Done()
	a.Info("Received shutdown signal")
	if err := a.ShutdownHook(); err != nil {
		return fmt.Errorf("error shutting down application: %w", err)
	}
	return nil
}

// setupTicketing builds the audit log sink, the optional archive and the ticket manager.
func (a *App) setupTicketing(ctx context.Context) error {
	platform := newDiscordPlatform(a.s)

	var opts []auditlog.Option
	if a.cfg.MongoUri != "" {
		client, err := (&connection.MongoDB{ConnectionString: a.cfg.MongoUri}).Connect(ctx)
		if err != nil {
			return fmt.Errorf("error connecting to audit archive: %w", err)
		}
		a.mongo = client
		opts = append(opts, auditlog.WithArchive(dataaccess.NewAuditDal(a.base, client)))
		a.base.Info("Audit archive enabled")
	}

	// The log channel is read on every delivery so edits apply immediately.
	logChannel := func() (string, bool) {
		return a.settings.Snapshot().LogChannel()
	}
	a.sink = auditlog.NewSink(a.base, logChannel, platform, opts...)
	a.forwardErrors()

	a.tickets = ticket.NewManager(a.Logger, platform, a.settings, a.sink)
	return nil
}

// forwardErrors sends error records of the application logger to the log channel. The sink keeps the base logger
// so its own failures are never forwarded.
func (a *App) forwardErrors() {
	a.Logger = slog.New(auditlog.NewHandler(a.base.Handler(), a.sink, slog.LevelError))
	slog.SetDefault(a.Logger)
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	// Let queued audit entries reach the archive before it is disconnected.
	a.sink.Wait()

	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error disconnecting from audit archive: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) RegisterBot(token string) error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMembers)

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg

	a.appID = a.cfg.ApplicationId
	if a.appID == "" {
		u, err := dg.User("@me")
		if err != nil {
			return fmt.Errorf("error getting bot user: %w", err)
		}
		a.appID = u.ID
	}
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.base, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.base)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.base)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, interactionRoutes{
		commands: map[string]commandProcessor{
			SettingsCmdName:            settingsCmdHandler,
			DeployTicketMessageCmdName: deployTicketMessageCmdHandler,
			TestLogCmdName:             testLogCmdHandler,
		},
		components: map[string]commandProcessor{
			OpenTicketButtonID:   openTicketButtonHandler,
			ClaimTicketButtonID:  claimTicketHandler,
			AcceptTicketButtonID: acceptTicketHandler,
			RejectTicketButtonID: rejectTicketButtonHandler,
			DeleteTicketButtonID: deleteTicketHandler,
			AddModeratorButtonID: addModeratorButtonHandler,
			SettingsSelectID:     settingsSelectHandler,
		},
		modals: map[string]commandProcessor{
			OpenTicketModalID:   openTicketModalHandler,
			RejectModalID:       rejectModalHandler,
			AddModeratorModalID: addModeratorModalHandler,
			SettingsModalID:     settingsModalHandler,
		},
	}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.base.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	for _, g := range guilds {
		if err := a.registerGuildCommands(g.ID); err != nil {
			return err
		}
	}
	return nil
}

// registerGuildCommands replaces the guild's commands with the bot's commands, once per guild.
func (a *App) registerGuildCommands(guildID string) error {
	if _, loaded := a.registered.LoadOrStore(guildID, struct{}{}); loaded {
		return nil
	}

	if _, err := a.s.ApplicationCommandBulkOverwrite(a.appID, guildID, slashCommands()); err != nil {
		a.registered.Delete(guildID)
		return fmt.Errorf("error registering commands for guild %s: %w", guildID, err)
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Settings() *settings.Store {
	return a.settings
}

func (a *App) Tickets() *ticket.Manager {
	return a.tickets
}

func (a *App) Audit() *auditlog.Sink {
	return a.sink
}
