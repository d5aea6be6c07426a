package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	tests := []struct {
		name    string
		env     map[string]string
		want    *Values
		wantErr error
	}{
		{
			name:    "missing token",
			env:     map[string]string{},
			wantErr: ErrMissingToken,
		},
		{
			name: "defaults",
			env:  map[string]string{EnvBotToken: "token"},
			want: &Values{
				BotToken:       "token",
				SettingsFile:   DefaultSettingsFile,
				MonitoringPort: DefaultMonitoringPort,
			},
		},
		{
			name: "all set",
			env: map[string]string{
				EnvBotToken:       "token",
				EnvApplicationId:  "123",
				EnvSettingsFile:   "/data/settings.json",
				EnvMongoUri:       "mongodb://localhost:27017",
				EnvMonitoringPort: "9090",
			},
			want: &Values{
				BotToken:       "token",
				ApplicationId:  "123",
				SettingsFile:   "/data/settings.json",
				MongoUri:       "mongodb://localhost:27017",
				MonitoringPort: "9090",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{EnvBotToken, EnvApplicationId, EnvSettingsFile, EnvMongoUri, EnvMonitoringPort} {
				t.Setenv(key, tt.env[key])
			}

			got, err := Parse(l)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	require.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TICKETS_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("TICKETS_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("TICKETS_TEST_VALUE"))

	require.NoError(t, LoadEnvFiles(path))
	require.Equal(t, "from-file", os.Getenv("TICKETS_TEST_VALUE"))
}
