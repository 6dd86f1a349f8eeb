package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds connection settings for the backing document store.
type Config struct {
	URI              string        `envconfig:"MONGO_URI" default:"mongodb://mongo:27017"`
	Database         string        `envconfig:"MONGO_DATABASE" default:"filterkit"`
	ConnectTimeout   time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	SelectionTimeout time.Duration `envconfig:"MONGO_SELECTION_TIMEOUT" default:"10s"`
}

// ConfigFromEnv loads Config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse mongo configuration: %w", err)
	}

	return cfg, nil
}

// NewClient connects and pings a MongoDB client from cfg.
func NewClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := mopt.Client().ApplyURI(cfg.URI)
	opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.SelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return client, nil
}
