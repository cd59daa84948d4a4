package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderArchiveStats(t *testing.T) {
	rec := NewRecorder()

	rec.RecordArchiveSave("fs", 12*time.Millisecond, nil)
	rec.RecordArchiveSave("fs", 20*time.Millisecond, errors.New("disk full"))
	rec.RecordArchiveSave("mongo", 5*time.Millisecond, nil)

	assert.Equal(t, 2, rec.ArchiveSaves("fs"))
	assert.Equal(t, 1, rec.ArchiveErrors("fs"))
	assert.Equal(t, 20*time.Millisecond, rec.LastSaveLatency("fs"))
	assert.Equal(t, 1, rec.ArchiveSaves("mongo"))
	assert.Zero(t, rec.ArchiveErrors("mongo"))
	assert.Zero(t, rec.ArchiveSaves("unknown"))
}

func TestRecorderMutations(t *testing.T) {
	rec := NewRecorder()
	rec.RecordMutation("buzz")
	rec.RecordMutation("buzz")
	rec.RecordMutation("protest")

	assert.Equal(t, 2, rec.Mutations("buzz"))
	assert.Equal(t, 1, rec.Mutations("protest"))
	assert.Zero(t, rec.Mutations("sub"))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordArchiveSave("fs", time.Millisecond, nil)
	rec.RecordMutation("buzz")
	rec.RecordHTTPRequest("GET", "/matches", 200, time.Millisecond)
	assert.Zero(t, rec.Mutations("buzz"))
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, handler)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupEnabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, handler)

	rec.RecordHTTPRequest("GET", "/matches", 200, 3*time.Millisecond)
	rec.RecordMutation("buzz")

	require.NoError(t, shutdown(context.Background()))
}
