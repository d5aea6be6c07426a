package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/tickets/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/tickets/pkg/entities"
	"github.com/Jacobbrewer1/tickets/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auditDalName = "audit_dal"

type AuditDal interface {
	// SaveAuditRecord stores an audit record.
	SaveAuditRecord(ctx context.Context, record *entities.AuditRecord) error
}

type auditDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewAuditDal creates a new audit data access layer.
func NewAuditDal(l *slog.Logger, client *mongo.Client) AuditDal {
	l = l.With(slog.String(logging.KeyDal, auditDalName))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &auditDalImpl{
		l:      l,
		client: client,
	}
}

func (d *auditDalImpl) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(auditCollection)
}

func (d *auditDalImpl) SaveAuditRecord(ctx context.Context, record *entities.AuditRecord) error {
	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(auditDalName, "save_audit_record", mongoDatabase, auditCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(auditDalName, "save_audit_record", mongoDatabase, auditCollection))
	defer t.ObserveDuration()

	// Upsert on the record ID so a repeated save does not duplicate the entry.
	opts := options.Update().SetUpsert(true)
	_, err := d.collection().UpdateOne(ctx, bson.M{"id": record.ID}, bson.M{"$set": record}, opts)
	if err != nil {
		monitoring.MongoErrors.WithLabelValues(auditDalName, "save_audit_record", mongoDatabase, auditCollection).Inc()
		return fmt.Errorf("error saving audit record: %w", err)
	}
	return nil
}
