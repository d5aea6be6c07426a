package connection

import (
	"context"
	"fmt"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/tickets/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

type MongoDB struct {
	ConnectionString string
}

// Connect opens a client and verifies the deployment is reachable.
func (m *MongoDB) Connect(ctx context.Context) (*mongo.Client, error) {
	if m.ConnectionString == "" {
		return nil, fmt.Errorf("mongo connection string is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(m.ConnectionString).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err := Ping(ctx, client); err != nil {
		// The client is unusable; release its pool.
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping checks the primary is reachable, recording the latency of the check.
func Ping(ctx context.Context, client *mongo.Client) error {
	t := prometheus.NewTimer(dbMonitoring.MongoLatency.WithLabelValues("health_check", "ping", "-", "-"))
	defer t.ObserveDuration()
	dbMonitoring.MongoTotalRequests.WithLabelValues("health_check", "ping", "-", "-").Inc()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		dbMonitoring.MongoErrors.WithLabelValues("health_check", "ping", "-", "-").Inc()
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}
