package settings

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return l
}

func TestLoadOrInitialize_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := LoadOrInitialize(testLogger(t), path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), s.Snapshot())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got := make(map[string]any)
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, len(Keys()))
	require.Nil(t, got["staff_role_id"])
	require.Equal(t, DefaultAcceptMessage, got["accept_message"])
	require.Contains(t, string(data), "\n    \"ticket_message_text\"")
}

func TestSet_IDRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadOrInitialize(testLogger(t), path)
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyStaffRoleID, "123456789012345678"))

	v, ok := s.Get(KeyStaffRoleID)
	require.True(t, ok)
	require.Equal(t, int64(123456789012345678), v)

	// Reload from disk.
	reloaded, err := LoadOrInitialize(testLogger(t), path)
	require.NoError(t, err)
	v, ok = reloaded.Get(KeyStaffRoleID)
	require.True(t, ok)
	require.Equal(t, int64(123456789012345678), v)

	role, ok := reloaded.Snapshot().StaffRole()
	require.True(t, ok)
	require.Equal(t, "123456789012345678", role)
}

func TestSet_IDRejectedBeforePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadOrInitialize(testLogger(t), path)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"letters", "abc"},
		{"mention", "<@&123>"},
		{"float", "12.5"},
		{"negative", "-5"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Set(KeyLogChannelID, tt.raw)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, KeyLogChannelID, vErr.Key)

			_, ok := s.Get(KeyLogChannelID)
			require.False(t, ok)
		})
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSet_ClearID(t *testing.T) {
	s, err := LoadOrInitialize(testLogger(t), filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyAcceptedRoleID, " 42 "))
	_, ok := s.Get(KeyAcceptedRoleID)
	require.True(t, ok)

	require.NoError(t, s.Set(KeyAcceptedRoleID, "none"))
	_, ok = s.Get(KeyAcceptedRoleID)
	require.False(t, ok)
}

func TestSet_Text(t *testing.T) {
	s, err := LoadOrInitialize(testLogger(t), filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyRejectMessage, "Sorry <3 & goodbye"))
	v, ok := s.Get(KeyRejectMessage)
	require.True(t, ok)
	require.Equal(t, "Sorry <3 & goodbye", v)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.Contains(t, string(data), "Sorry <3 & goodbye")
}

func TestSet_UnknownKey(t *testing.T) {
	s, err := LoadOrInitialize(testLogger(t), filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	require.ErrorIs(t, s.Set("colour", "purple"), ErrUnknownKey)
}

func TestLoadOrInitialize_HandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
    // set by the server owner
    "ticket_message_text": "Apply here",
    "staff_role_id": 555,
    "log_channel_id": -1,
    "accepted_role_id": null,
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := LoadOrInitialize(testLogger(t), path)
	require.NoError(t, err)

	st := s.Snapshot()
	require.Equal(t, "Apply here", st.TicketMessageText)
	require.Equal(t, DefaultRejectMessage, st.RejectMessage)
	require.NotNil(t, st.StaffRoleID)
	require.Equal(t, int64(555), *st.StaffRoleID)
	require.Nil(t, st.LogChannelID)
	require.Nil(t, st.AcceptedRoleID)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s, err := LoadOrInitialize(testLogger(t), filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyStaffRoleID, "7"))

	snap := s.Snapshot()
	*snap.StaffRoleID = 9

	v, _ := s.Get(KeyStaffRoleID)
	require.Equal(t, int64(7), v)
}

func TestKeyIsID(t *testing.T) {
	st := Defaults()
	for _, info := range Keys() {
		require.Equal(t, st.idField(info.Key) != nil, info.Key.IsID(), info.Key)
		require.Equal(t, st.textField(info.Key) == nil, info.Key.IsID(), info.Key)
	}
}
