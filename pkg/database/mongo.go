package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB connect to the message store, retrying per the connection
// settings before giving up. Every attempt is verified with a ping; a client
// that connects but cannot ping is discarded.
func NewMongoDB(ctx context.Context, conn Connection, dbName string) (*MongoDB, error) {
	opts := options.Client().ApplyURI(conn.ConnectStr)

	var lastErr error
	for attempt := 0; attempt <= conn.RetryCount; attempt++ {
		client, err := mongo.Connect(ctx, opts)
		if err == nil {
			if err = client.Ping(ctx, readpref.Primary()); err == nil {
				return &MongoDB{
					Client:   client,
					Database: client.Database(dbName),
				}, nil
			}
			client.Disconnect(ctx)
		}
		lastErr = err

		if attempt < conn.RetryCount {
			time.Sleep(conn.RetryInterval * time.Second)
		}
	}

	return nil, fmt.Errorf("mongodb unreachable after %d attempts: %w", conn.RetryCount+1, lastErr)
}

// Close disconnect from the message store
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
