package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestCommonLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l, err := CommonLogger(NewConfig("tests").WithWriter(buf))
	require.NoError(t, err)

	l.Info("hello", slog.String(KeyChannel, "123"))

	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "tests", got["app"])
	require.Equal(t, "hello", got["msg"])
	require.Equal(t, "123", got[KeyChannel])
}

func TestCommonLogger_NoName(t *testing.T) {
	_, err := CommonLogger(NewConfig(""))
	require.Error(t, err)

	_, err = CommonLogger(nil)
	require.Error(t, err)
}
