// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpages/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Dir: t.TempDir(), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(mode string, status types.BuildStatus) types.BuildRecord {
	return types.BuildRecord{
		Mode:      mode,
		SourceDir: ".",
		BuildDir:  "_build",
		StartedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Status:    status,
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Record(ctx, record("html", types.BuildDone))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)

	_, err = s.Record(ctx, record("latexpdf", types.BuildFailed))
	require.NoError(t, err)

	records, err := s.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "latexpdf", records[0].Mode)
	assert.Equal(t, "html", records[1].Mode)
	assert.Equal(t, types.BuildDone, records[1].Status)
	assert.Equal(t, 1500*time.Millisecond, records[1].Duration)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), records[1].StartedAt)
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []types.BuildRecord{
		record("html", types.BuildDone),
		record("html", types.BuildFailed),
		record("latexpdf", types.BuildDone),
	} {
		_, err := s.Record(ctx, rec)
		require.NoError(t, err)
	}

	byMode, err := s.List(ctx, QueryOptions{Mode: "html"})
	require.NoError(t, err)
	assert.Len(t, byMode, 2)

	byStatus, err := s.List(ctx, QueryOptions{Status: types.BuildFailed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "html", byStatus[0].Mode)

	both, err := s.List(ctx, QueryOptions{Mode: "latexpdf", Status: types.BuildDone})
	require.NoError(t, err)
	assert.Len(t, both, 1)

	limited, err := s.List(ctx, QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last, err := s.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last, "empty history has no last build")

	_, err = s.Record(ctx, record("html", types.BuildDone))
	require.NoError(t, err)
	failed := record("html", types.BuildFailed)
	failed.Error = "exit status 2"
	_, err = s.Record(ctx, failed)
	require.NoError(t, err)

	last, err = s.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, types.BuildFailed, last.Status)
	assert.Equal(t, "exit status 2", last.Error)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.HistoryConfig{Dir: dir, MaxResults: 20})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.Record(ctx, record("html", types.BuildDone))
	require.NoError(t, err)

	require.NoError(t, s.ExportYAML(ctx, QueryOptions{}))
	require.NoError(t, s.ExportJSON(ctx, QueryOptions{}))

	var fromYAML []types.BuildRecord
	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "html", fromYAML[0].Mode)

	var fromJSON []types.BuildRecord
	data, err = os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, types.BuildDone, fromJSON[0].Status)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.HistoryConfig{Dir: dir}

	s, err := NewStore(cfg)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), record("html", types.BuildDone))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Schema creation is idempotent and records survive reopening.
	s, err = NewStore(cfg)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
