// Package mongodb stores per-record metadata documents in a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

const (
	defaultCollection       = "metadata"
	defaultConnectTimeout   = 10 * time.Second
	defaultOperationTimeout = 30 * time.Second

	// internalIDField is the key MongoDB adds to every stored document.
	internalIDField = "_id"
)

// Config holds the store configuration.
type Config struct {
	URI              string
	Database         string
	Collection       string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Collection == "" {
		c.Collection = defaultCollection
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.OperationTimeout == 0 {
		c.OperationTimeout = defaultOperationTimeout
	}
}

// Store is the metadata collection of one database.
type Store struct {
	client    *mongo.Client
	coll      *mongo.Collection
	log       logger.Logger
	opTimeout time.Duration
}

// Connect creates a client for cfg.URI. The driver connects lazily, so an
// unreachable server surfaces on the first operation rather than here.
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	cfg.setDefaults()
	if cfg.Database == "" {
		return nil, errors.New("mongodb: database name is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errkind.Wrap(errkind.ErrConnectivity, err, "connect to mongodb")
	}

	log.Info("MongoDB client created",
		logger.String("database", cfg.Database),
		logger.String("collection", cfg.Collection),
	)

	return &Store{
		client:    client,
		coll:      client.Database(cfg.Database).Collection(cfg.Collection),
		log:       log,
		opTimeout: cfg.OperationTimeout,
	}, nil
}

// Count returns the number of stored metadata documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, wrapDriverError(err, "count metadata")
	}
	return n, nil
}

// InsertMetadata stores one metadata document, keeping header order.
func (s *Store) InsertMetadata(ctx context.Context, doc domain.MetadataDocument) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, toBSON(doc)); err != nil {
		return wrapDriverError(err, "insert metadata "+doc.ID)
	}
	return nil
}

// ForEachMetadata calls fn with every stored document, `_id` removed. A
// document that fails to decode is logged and skipped. An error from fn
// stops the scan and is returned.
func (s *Store) ForEachMetadata(ctx context.Context, fn func(doc map[string]any) error) error {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return wrapDriverError(err, "scan metadata")
	}
	defer func() {
		if closeErr := cursor.Close(context.WithoutCancel(ctx)); closeErr != nil {
			s.log.Debug("Failed to close metadata cursor", logger.Error(closeErr))
		}
	}()

	for cursor.Next(ctx) {
		var raw bson.M
		if decodeErr := cursor.Decode(&raw); decodeErr != nil {
			s.log.Warn("Skipping undecodable metadata document",
				logger.String("kind", string(errkind.Serialization)),
				logger.Error(decodeErr),
			)
			continue
		}
		delete(raw, internalIDField)
		if fnErr := fn(plainMap(raw)); fnErr != nil {
			return fnErr
		}
	}

	if cursorErr := cursor.Err(); cursorErr != nil {
		return wrapDriverError(cursorErr, "scan metadata")
	}
	return nil
}

// Drop removes the metadata collection. Dropping a missing collection
// succeeds.
func (s *Store) Drop(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.coll.Drop(ctx); err != nil {
		return wrapDriverError(err, "drop metadata collection")
	}
	s.log.Info("Dropped metadata collection", logger.String("collection", s.coll.Name()))
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// toBSON renders a metadata document as an ordered BSON document.
func toBSON(doc domain.MetadataDocument) bson.D {
	return bson.D{
		{Key: "id", Value: doc.ID},
		{Key: "metadata", Value: bson.D{
			{Key: "response", Value: headersToBSON(doc.Response)},
			{Key: "warc", Value: headersToBSON(doc.Warc)},
		}},
	}
}

func headersToBSON(h domain.Headers) bson.D {
	out := make(bson.D, 0, h.Len())
	h.Each(func(name string, value any) {
		out = append(out, bson.E{Key: name, Value: value})
	})
	return out
}

// plainMap converts decoded BSON documents and arrays into plain Go maps and
// slices, recursively.
func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	default:
		return v
	}
}

// wrapDriverError tags driver errors with their kind so callers can log and
// count them uniformly.
func wrapDriverError(err error, op string) error {
	switch errkind.Classify(err) {
	case errkind.Timeout:
		return errkind.Wrap(errkind.ErrTimeout, err, op)
	case errkind.Connectivity:
		return errkind.Wrap(errkind.ErrConnectivity, err, op)
	case errkind.Serialization:
		return errkind.Wrap(errkind.ErrSerialization, err, op)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
