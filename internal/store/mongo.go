package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/domain/match"
)

const matchesCollection = "matches"

// matchDocument is the persisted shape. The game itself is stored as its
// canonical JSON encoding rather than a BSON tree so that fs and mongo
// archives agree on the serialized form.
type matchDocument struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
	Game      string    `bson:"game"`
}

// MongoArchive persists match records to a MongoDB collection, one
// document per match keyed by match ID.
type MongoArchive struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Matches *mongo.Collection
	}
}

// NewMongoArchive connects to the given URI and binds the matches
// collection in dbName.
func NewMongoArchive(ctx context.Context, uri, dbName string) (*MongoArchive, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri cannot be empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	db := client.Database(dbName)

	a := &MongoArchive{
		Client:   client,
		Database: db,
	}
	a.Collections.Matches = db.Collection(matchesCollection)
	return a, nil
}

// Name identifies the archive backend in logs and metrics.
func (a *MongoArchive) Name() string { return "mongo" }

// SaveMatch upserts the record's document.
func (a *MongoArchive) SaveMatch(ctx context.Context, record matches.MatchRecord) error {
	encoded, err := match.Encode(record.Game)
	if err != nil {
		return fmt.Errorf("encoding match %s: %w", record.ID, err)
	}

	doc := matchDocument{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Game:      string(encoded),
	}

	filter := bson.D{{Key: "_id", Value: record.ID}}
	opts := options.Replace().SetUpsert(true)
	if _, err := a.Collections.Matches.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("saving match %s: %w", record.ID, err)
	}
	return nil
}

// DeleteMatch removes the record's document. Absent documents are not an
// error.
func (a *MongoArchive) DeleteMatch(ctx context.Context, id string) error {
	filter := bson.D{{Key: "_id", Value: id}}
	if _, err := a.Collections.Matches.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("deleting match %s: %w", id, err)
	}
	return nil
}

// LoadMatches reads every stored match, decoding each game from its JSON
// form. Used to restore the in-memory registry on boot.
func (a *MongoArchive) LoadMatches(ctx context.Context) ([]matches.MatchRecord, error) {
	cursor, err := a.Collections.Matches.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer cursor.Close(ctx)

	var records []matches.MatchRecord
	for cursor.Next(ctx) {
		var doc matchDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding match document: %w", err)
		}
		game, err := match.Decode([]byte(doc.Game))
		if err != nil {
			return nil, fmt.Errorf("decoding match %s: %w", doc.ID, err)
		}
		records = append(records, matches.MatchRecord{
			ID:        doc.ID,
			Game:      game,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return records, nil
}

// Close disconnects the underlying client.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.Client.Disconnect(ctx)
}
