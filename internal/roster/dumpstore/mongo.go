package dumpstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scoutnet/internal/roster/fetcher"
	"scoutnet/pkg/logger"
)

const (
	CollectionName = "Dumps"

	defaultTimeout = 10 * time.Second
)

type dumpDocument struct {
	Name      string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoStore keeps one document per dump; the payload is the dump's JSON
// encoding, stored as binary.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

var _ Store = (*MongoStore)(nil)

// ConnectMongo dials and pings the server before returning a store.
func ConnectMongo(ctx context.Context, log *logger.Logger, uri, database string, timeout time.Duration) (*MongoStore, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB", "database", database)
	return NewMongoStore(client, database, timeout), nil
}

func NewMongoStore(client *mongo.Client, database string, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(CollectionName),
		timeout:    timeout,
	}
}

func (s *MongoStore) Save(ctx context.Context, name string, d *fetcher.Dump) error {
	if err := validateName(name); err != nil {
		return err
	}
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode dump %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := dumpDocument{
		Name:      name,
		Payload:   data,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save dump %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*fetcher.Dump, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc dumpDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to load dump %s: %w", name, err)
	}
	return fetcher.UnmarshalDump(doc.Payload)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
