// ABOUTME: MongoDB-backed persistence for song metadata
// ABOUTME: Loads and replaces the library the collection tree is built from

// Package repository persists song metadata in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nainya/tunetree/internal/logger"
	"github.com/nainya/tunetree/pkg/song"
)

// SongRepository stores songs in one MongoDB collection, keyed on the
// song ID.
type SongRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *logger.Logger
}

// Connect dials MongoDB and returns a repository bound to the given
// database and collection.
func Connect(ctx context.Context, uri, database, collection string, log *logger.Logger) (*SongRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &SongRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
		log:        log,
	}, nil
}

// Close disconnects from MongoDB.
func (r *SongRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// All loads every song in the library.
func (r *SongRepository) All(ctx context.Context) ([]*song.Song, error) {
	start := time.Now()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		r.log.LogRepoOperation("all", time.Since(start), 0, err)
		return nil, fmt.Errorf("find songs: %w", err)
	}
	defer cursor.Close(ctx)

	var songs []*song.Song
	if err := cursor.All(ctx, &songs); err != nil {
		r.log.LogRepoOperation("all", time.Since(start), 0, err)
		return nil, fmt.Errorf("decode songs: %w", err)
	}

	r.log.LogRepoOperation("all", time.Since(start), len(songs), nil)
	return songs, nil
}

// Upsert inserts or replaces one song by ID.
func (r *SongRepository) Upsert(ctx context.Context, s *song.Song) error {
	if !s.Valid() {
		return errors.New("song ID cannot be empty")
	}
	start := time.Now()

	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts)
	r.log.LogRepoOperation("upsert", time.Since(start), 1, err)
	if err != nil {
		return fmt.Errorf("upsert song %s: %w", s.ID, err)
	}
	return nil
}

// ReplaceAll swaps the stored library for the given songs.
func (r *SongRepository) ReplaceAll(ctx context.Context, songs []*song.Song) error {
	start := time.Now()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		r.log.LogRepoOperation("replace_all", time.Since(start), 0, err)
		return fmt.Errorf("clear songs: %w", err)
	}
	if len(songs) == 0 {
		r.log.LogRepoOperation("replace_all", time.Since(start), 0, nil)
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(songs))
	for _, s := range songs {
		if !s.Valid() {
			continue
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now
		docs = append(docs, s)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	r.log.LogRepoOperation("replace_all", time.Since(start), len(docs), err)
	if err != nil {
		return fmt.Errorf("insert songs: %w", err)
	}
	return nil
}

// Remove deletes songs by ID.
func (r *SongRepository) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()

	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	r.log.LogRepoOperation("remove", time.Since(start), len(ids), err)
	if err != nil {
		return fmt.Errorf("remove songs: %w", err)
	}
	return nil
}

// Count returns the number of stored songs.
func (r *SongRepository) Count(ctx context.Context) (int64, error) {
	start := time.Now()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	r.log.LogRepoOperation("count", time.Since(start), int(n), err)
	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}
