package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/domain/match"
	"quizbowl-match-service/internal/domain/roster"
)

func mockArchive(mt *mtest.T) *MongoArchive {
	a := &MongoArchive{
		Client:   mt.Client,
		Database: mt.DB,
	}
	a.Collections.Matches = mt.Coll
	return a
}

func archivedRecord(t *testing.T) matches.MatchRecord {
	t.Helper()
	g := match.NewGame()
	g.AddPlayers(
		roster.Player{Name: "Alice", Team: "Alpha", Starter: true},
		roster.Player{Name: "Carol", Team: "Beta", Starter: true},
	)
	created := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	return matches.MatchRecord{
		ID:        "m1",
		Game:      g,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestSaveMatchUpserts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("replaces document keyed by match id", func(mt *mtest.T) {
		archive := mockArchive(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := archive.SaveMatch(context.Background(), archivedRecord(mt.T))
		assert.NoError(mt, err)
	})
}

func TestSaveMatchRejectsNilGame(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fails encoding before touching the collection", func(mt *mtest.T) {
		archive := mockArchive(mt)

		err := archive.SaveMatch(context.Background(), matches.MatchRecord{ID: "m1"})
		assert.ErrorIs(mt, err, match.ErrInvalidState)
	})
}

func TestSaveMatchWriteError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("surfaces write failures", func(mt *mtest.T) {
		archive := mockArchive(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key",
		}))

		err := archive.SaveMatch(context.Background(), archivedRecord(mt.T))
		assert.Error(mt, err)
	})
}

func TestLoadMatchesDecodesGames(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("round-trips the stored encoding", func(mt *mtest.T) {
		archive := mockArchive(mt)
		record := archivedRecord(mt.T)
		encoded, err := match.Encode(record.Game)
		require.NoError(mt, err)

		first := mtest.CreateCursorResponse(1, "quizbowl.matches", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: record.ID},
			{Key: "createdAt", Value: record.CreatedAt},
			{Key: "updatedAt", Value: record.UpdatedAt},
			{Key: "game", Value: string(encoded)},
		})
		last := mtest.CreateCursorResponse(0, "quizbowl.matches", mtest.NextBatch)
		mt.AddMockResponses(first, last)

		loaded, err := archive.LoadMatches(context.Background())
		require.NoError(mt, err)
		require.Len(mt, loaded, 1)
		assert.Equal(mt, record.ID, loaded[0].ID)
		assert.Equal(mt, []string{"Alpha", "Beta"}, loaded[0].Game.TeamNames())
	})
}

func TestLoadMatchesRejectsCorruptGame(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fails on undecodable game payload", func(mt *mtest.T) {
		archive := mockArchive(mt)
		first := mtest.CreateCursorResponse(1, "quizbowl.matches", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "m1"},
			{Key: "createdAt", Value: time.Now()},
			{Key: "updatedAt", Value: time.Now()},
			{Key: "game", Value: "{not json"},
		})
		last := mtest.CreateCursorResponse(0, "quizbowl.matches", mtest.NextBatch)
		mt.AddMockResponses(first, last)

		_, err := archive.LoadMatches(context.Background())
		assert.Error(mt, err)
	})
}

func TestDeleteMatchMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("issues a delete by id", func(mt *mtest.T) {
		archive := mockArchive(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := archive.DeleteMatch(context.Background(), "m1")
		assert.NoError(mt, err)
	})
}

func TestNewMongoArchiveRejectsEmptyURI(t *testing.T) {
	_, err := NewMongoArchive(context.Background(), "", "quizbowl")
	assert.Error(t, err)
}
