package config

const (
	// AppName is the name of the application.
	AppName = "tickets"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `DISCORD_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvSettingsFile is the environment variable for the settings file path.
	EnvSettingsFile = `SETTINGS_FILE`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

const (
	DefaultSettingsFile   = "settings.json"
	DefaultMonitoringPort = "8080"
)

// Values is the environment configuration of the bot.
type Values struct {
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application. When empty the bot user ID is used.
	ApplicationId string

	// SettingsFile is the path of the settings file.
	SettingsFile string

	// MongoUri is the URI of the audit archive. The archive is disabled when empty.
	MongoUri string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
}
