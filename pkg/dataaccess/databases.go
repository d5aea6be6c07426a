package dataaccess

const (
	// mongoDatabase is the database the bot writes to.
	mongoDatabase = "tickets"

	// auditCollection holds archived audit entries.
	auditCollection = "audit_entries"
)
