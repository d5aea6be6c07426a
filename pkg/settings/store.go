package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/tidwall/jsonc"
)

// ErrUnknownKey is returned when a key is not part of the settings.
var ErrUnknownKey = errors.New("unknown settings key")

// ValidationError is returned when a value cannot be stored under a key.
type ValidationError struct {
	Key     Key
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Message)
}

// Store owns the settings file. All reads and writes go through it.
type Store struct {
	// l is the logger.
	l *slog.Logger

	// path is the location of the settings file.
	path string

	mu      sync.RWMutex
	current Settings
}

// LoadOrInitialize loads the settings file at path, creating it with the defaults if it does not exist.
func LoadOrInitialize(l *slog.Logger, path string) (*Store, error) {
	s := &Store{
		l:       l.With(slog.String("component", "settings")),
		path:    path,
		current: Defaults(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.l.Info("Settings file not found, writing defaults", slog.String("path", path))
		if err := s.write(s.current); err != nil {
			return nil, fmt.Errorf("error writing default settings: %w", err)
		}
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading settings: %w", err)
	}

	// Hand edited files may carry comments or trailing commas.
	if err := json.Unmarshal(jsonc.ToJSON(data), &s.current); err != nil {
		return nil, fmt.Errorf("error decoding settings %s: %w", path, err)
	}

	for _, info := range catalogue {
		if !info.Key.IsID() {
			continue
		}
		f := s.current.idField(info.Key)
		if *f != nil && **f <= 0 {
			s.l.Warn("Ignoring non-positive ID in settings", slog.String("key", string(info.Key)), slog.Int64("value", **f))
			*f = nil
		}
	}

	return s, nil
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Get returns the value stored under a key. Absent IDs report false.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Value(key)
}

// Set validates and stores a raw value, writing the file before returning. ID keys are parsed as integers;
// "null", "none" or an empty value clears an ID key.
func (s *Store) Set(key Key, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	if f := next.idField(key); f != nil {
		id, err := parseID(key, raw)
		if err != nil {
			return err
		}
		*f = id
	} else if f := next.textField(key); f != nil {
		*f = raw
	} else {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if err := s.write(next); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}
	s.current = next

	s.l.Info("Setting updated", slog.String("key", string(key)))
	return nil
}

func parseID(key Key, raw string) (*int64, error) {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "null", "none":
		return nil, nil
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, &ValidationError{Key: key, Message: "value must be an integer ID"}
	} else if id <= 0 {
		return nil, &ValidationError{Key: key, Message: "value must be a positive integer ID"}
	}
	return &id, nil
}

// write persists the settings atomically. Callers hold the write lock or own the store exclusively.
func (s *Store) write(st Settings) error {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer func() {
		// Removing after a successful rename is a no-op error.
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.l.Error("Error replacing settings file", slog.String(logging.KeyError, err.Error()))
		return fmt.Errorf("error replacing settings file: %w", err)
	}
	return nil
}

func (s Settings) clone() Settings {
	c := s
	for _, f := range []**int64{&c.TicketButtonChannelID, &c.LogChannelID, &c.TicketCategoryID, &c.StaffRoleID, &c.AcceptedRoleID} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	return c
}
