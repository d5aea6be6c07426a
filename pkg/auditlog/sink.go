package auditlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/tickets/pkg/entities"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"golang.org/x/time/rate"
)

const (
	// deliverTimeout bounds a single asynchronous delivery, including the wait on the limiter.
	deliverTimeout = 30 * time.Second

	outcomeSent     = "sent"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
	outcomeArchived = "archived"
)

// Poster posts an embed to a channel.
type Poster interface {
	PostEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// Archive stores audit records.
type Archive interface {
	SaveAuditRecord(ctx context.Context, record *entities.AuditRecord) error
}

// ChannelFunc returns the configured log channel, if any.
type ChannelFunc func() (string, bool)

// Option configures a Sink.
type Option func(s *Sink)

// WithArchive stores every entry in the archive as well as posting it.
func WithArchive(a Archive) Option {
	return func(s *Sink) {
		s.archive = a
	}
}

// WithLimiter replaces the default limiter on log channel posts.
func WithLimiter(lim *rate.Limiter) Option {
	return func(s *Sink) {
		s.limiter = lim
	}
}

// WithClock replaces the clock used to timestamp archived records.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// Sink delivers audit entries to the log channel.
type Sink struct {
	// l is the logger. It must not forward to this sink.
	l *slog.Logger

	channel ChannelFunc
	poster  Poster
	archive Archive
	limiter *rate.Limiter
	now     func() time.Time

	// pending tracks asynchronous deliveries.
	pending sync.WaitGroup
}

// NewSink creates a sink posting to the channel returned by channel.
func NewSink(l *slog.Logger, channel ChannelFunc, poster Poster, opts ...Option) *Sink {
	s := &Sink{
		l:       l.With(slog.String("component", "auditlog")),
		channel: channel,
		poster:  poster,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver archives the entry, if an archive is configured, and posts it to the log channel. An unconfigured
// channel is not an error.
func (s *Sink) Deliver(ctx context.Context, e Entry) error {
	if s.archive != nil {
		if err := s.archive.SaveAuditRecord(ctx, e.Record(s.now())); err != nil {
			s.l.Warn("Error archiving audit entry", slog.String(logging.KeyError, err.Error()))
		} else {
			Deliveries.WithLabelValues(outcomeArchived).Inc()
		}
	}

	channelID, ok := s.channel()
	if !ok || s.poster == nil {
		Deliveries.WithLabelValues(outcomeSkipped).Inc()
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		Deliveries.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("error waiting on log channel limiter: %w", err)
	}

	if err := s.poster.PostEmbed(ctx, channelID, e.Embed()); err != nil {
		Deliveries.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("error posting audit entry: %w", err)
	}

	Deliveries.WithLabelValues(outcomeSent).Inc()
	return nil
}

// Send delivers the entry in the background. Failures are logged and otherwise dropped.
func (s *Sink) Send(ctx context.Context, e Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliverTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := s.Deliver(ctx, e); err != nil {
			s.l.Warn("Audit entry was not delivered",
				slog.String("title", e.title()),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}()
}

// Wait blocks until every pending Send has finished.
func (s *Sink) Wait() {
	s.pending.Wait()
}
