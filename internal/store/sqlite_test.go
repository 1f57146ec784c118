package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, []string{"이차전지", "전고체"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, []string{"이차전지", "전고체"}, got.Keywords)
	assert.Equal(t, model.RunStatusQueued, got.Status)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, []string{"수소"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, got.Status)

	err = st.UpdateRunStatus(ctx, "missing", model.RunStatusRunning)
	assert.Error(t, err)
}

func TestSQLite_UpdateRunResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, []string{"수소"})
	require.NoError(t, err)

	result := &model.RunResult{
		RunID:        run.ID,
		Status:       model.StatusComplete,
		StepTimes:    map[string]int64{"collect": 120, "process": 4},
		ArticleCount: 7,
		Usage:        model.TokenUsage{InputTokens: 1000, OutputTokens: 200},
	}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 7, got.Result.ArticleCount)
	assert.Equal(t, int64(120), got.Result.StepTimes["collect"])
}

func TestSQLite_UpdateRunResult_Failed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, []string{"로봇"})
	require.NoError(t, err)

	result := &model.RunResult{
		RunID:  run.ID,
		Status: model.StatusError,
		Error:  "collection failed: all connectors failed",
	}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	require.NotNil(t, got.Result)
	assert.Contains(t, got.Result.Error, "collection failed")
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, []string{"이차전지"})
	require.NoError(t, err)
	r2, err := st.CreateRun(ctx, []string{"수소", "이차전지"})
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, r2.ID, model.RunStatusRunning))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	running, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, r2.ID, running[0].ID)

	byKeyword, err := st.ListRuns(ctx, RunFilter{Keyword: "수소"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, r2.ID, byKeyword[0].ID)

	byShared, err := st.ListRuns(ctx, RunFilter{Keyword: "이차전지"})
	require.NoError(t, err)
	assert.Len(t, byShared, 2)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_ListRuns_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
