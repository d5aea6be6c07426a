package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/Jacobbrewer1/tickets/pkg/request"
	"github.com/gorilla/mux"
)

// commandProcessor handles one kind of interaction. Errors are reported to the user by the dispatcher.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// routeSeparator separates a route from its argument in a custom ID.
const routeSeparator = "/"

// routeKey returns the part of a custom ID that selects the processor.
func routeKey(customID string) string {
	key, _, _ := strings.Cut(customID, routeSeparator)
	return key
}

// routeArg returns the argument carried after the route in a custom ID.
func routeArg(customID string) string {
	_, arg, _ := strings.Cut(customID, routeSeparator)
	return arg
}

// interactionRoutes maps commands, components and modals to their processors.
type interactionRoutes struct {
	commands   map[string]commandProcessor
	components map[string]commandProcessor
	modals     map[string]commandProcessor
}

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
	outcomeUnknown  = "unknown"
	outcomePanic    = "panic"
)

// interactionHandler dispatches interactions to their processors and reports errors to the user.
func interactionHandler(a IApp, routes interactionRoutes) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			kind       string
			customID   string
			processors map[string]commandProcessor
		)

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			kind, customID, processors = "command", i.ApplicationCommandData().Name, routes.commands
		case discordgo.InteractionMessageComponent:
			kind, customID, processors = "component", i.MessageComponentData().CustomID, routes.components
		case discordgo.InteractionModalSubmit:
			kind, customID, processors = "modal", i.ModalSubmitData().CustomID, routes.modals
		default:
			return
		}

		route := routeKey(customID)
		l := a.Log().With(
			slog.String("kind", kind),
			slog.String("route", route),
			slog.String(logging.KeyChannel, i.ChannelID),
		)

		now := time.Now()
		outcome := outcomeOK
		defer func() {
			monitoring.InteractionDuration.WithLabelValues(kind, route, outcome).Observe(time.Since(now).Seconds())
		}()

		// Recover from any panics that occur in the processor.
		defer func() {
			if rec := recover(); rec != nil {
				outcome = outcomePanic
				l.Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondSlashError(a, i); err != nil {
					l.Warn("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		if i.Member == nil {
			outcome = outcomeRejected
			report(a, l, i, errGuildOnly)
			return
		}

		l = l.With(slog.String(logging.KeyUser, i.Member.User.ID))
		l.Debug("Handling interaction")

		processor, ok := processors[route]
		if !ok {
			outcome = outcomeUnknown
			l.Warn("No processor found for interaction", slog.String("custom_id", customID))
			if err := respondSlashError(a, i); err != nil {
				l.Warn("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if err := processor(a, i); err != nil {
			if report(a, l, i, err) {
				outcome = outcomeRejected
			} else {
				outcome = outcomeError
			}
		}
	}
}

// report tells the user why their interaction failed and logs unexpected errors. It returns whether the error was
// an expected outcome of the user's input.
func report(a IApp, l *slog.Logger, i *discordgo.InteractionCreate, err error) bool {
	msg, expected := userMessage(err)
	if expected {
		l.Debug("Interaction rejected", slog.String(logging.KeyError, err.Error()))
	} else {
		l.Error("Error processing interaction", slog.String(logging.KeyError, err.Error()))
	}

	if err := respondEphemeral(a, i, msg); err != nil {
		l.Warn("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
	return expected
}

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(l *slog.Logger, handler Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				request.WriteJSON(l, cw, http.StatusInternalServerError, request.NewMessage("Internal server error"))
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// The status code is only known once the handler has run.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}
