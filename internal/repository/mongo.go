package repository

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/studysync/coursesync/internal/offering"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore keeps records in a MongoDB collection
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo connects, verifies the server with a ping and makes sure the
// class number index exists.
func ConnectMongo(ctx context.Context, opts Options) (*MongoStore, error) {
	opts = opts.withDefaults()

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.TLSInsecure {
		clientOpts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true}) // nolint:gosec
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	store := &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: offering.KeyField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("class_number_unique"),
	})
	if err != nil {
		return fmt.Errorf("creating class number index: %w", err)
	}
	return nil
}

func byClassNumber(classNumber string) bson.M {
	return bson.M{offering.KeyField: classNumber}
}

// FindByClassNumber returns the stored record, ignoring the document _id
func (s *MongoStore) FindByClassNumber(ctx context.Context, classNumber string) (offering.Record, error) {
	var rec offering.Record
	err := s.coll.FindOne(ctx, byClassNumber(classNumber)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, classNumber)
	}
	if err != nil {
		return rec, fmt.Errorf("finding %s: %w", classNumber, err)
	}
	return rec, nil
}

// Insert adds a new document
func (s *MongoStore) Insert(ctx context.Context, rec offering.Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("inserting %s: %w", rec.ClassNumber, err)
	}
	return nil
}

// Replace sets every record field on the stored document. Fields the document
// carries outside the record schema are left alone.
func (s *MongoStore) Replace(ctx context.Context, rec offering.Record) error {
	res, err := s.coll.UpdateOne(ctx, byClassNumber(rec.ClassNumber), bson.M{"$set": rec})
	if err != nil {
		return fmt.Errorf("updating %s: %w", rec.ClassNumber, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ClassNumber)
	}
	return nil
}

// List returns every stored record sorted by class number
func (s *MongoStore) List(ctx context.Context) ([]offering.Record, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: offering.KeyField, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	records := make([]offering.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
