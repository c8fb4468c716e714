package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newAnalysis(id, userID string, createdAt time.Time) *model.ResumeAnalysis {
	return &model.ResumeAnalysis{
		ID:             id,
		UserID:         userID,
		ResumeText:     "Go engineer",
		JobDescription: "Backend role",
		Evaluation:     datatypes.JSON(`{"match_score":80}`),
		KeywordGaps:    datatypes.JSON(`{"total_missing":0}`),
		JobAnalysis:    datatypes.JSON(`{"difficulty":"mid"}`),
		CreatedAt:      createdAt,
	}
}

func TestAnalysisAdapter_OwnerScopedRead(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", model.PlanFree)
	seedUser(t, db, "bob", model.PlanFree)
	adapter := NewAnalysisAdapter(db)
	ctx := context.Background()

	require.NoError(t, adapter.Create(ctx, newAnalysis("a-1", "alice", time.Now())))

	got, err := adapter.FindByIDForUser(ctx, "alice", "a-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"match_score":80}`, string(got.Evaluation))

	got, err = adapter.FindByIDForUser(ctx, "bob", "a-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalysisAdapter_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", model.PlanFree)
	seedUser(t, db, "bob", model.PlanFree)
	adapter := NewAnalysisAdapter(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, adapter.Create(ctx, newAnalysis("a-1", "alice", base)))
	require.NoError(t, adapter.Create(ctx, newAnalysis("a-2", "alice", base.Add(time.Hour))))
	require.NoError(t, adapter.Create(ctx, newAnalysis("a-3", "alice", base.Add(2*time.Hour))))
	require.NoError(t, adapter.Create(ctx, newAnalysis("b-1", "bob", base)))

	list, err := adapter.ListByUser(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-3", list[0].ID)
	assert.Equal(t, "a-2", list[1].ID)
}

func TestAnalysisAdapter_RequiresExistingUser(t *testing.T) {
	db := newTestDB(t)
	adapter := NewAnalysisAdapter(db)

	err := adapter.Create(context.Background(), newAnalysis("a-1", "ghost", time.Now()))
	assert.Error(t, err)
}
