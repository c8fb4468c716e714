package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock implementations ---

type MockBilling struct {
	mock.Mock
}

func (m *MockBilling) CheckAndConsume(ctx context.Context, userID string, kind model.OperationKind) (*model.GateDecision, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GateDecision), args.Error(1)
}

func (m *MockBilling) GetPlanStatus(ctx context.Context, userID string) (*model.PlanStatusResponse, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *MockBilling) ListUsage(ctx context.Context, userID string, limit int) ([]*model.UsageResponse, error) {
	args := m.Called(ctx, userID, limit)
	return nil, args.Error(1)
}

func (m *MockBilling) Catalog() []*model.PlanCatalogEntry {
	return nil
}

func (m *MockBilling) SetPlan(ctx context.Context, userID string, plan model.PlanTag) error {
	return m.Called(ctx, userID, plan).Error(0)
}

func (m *MockBilling) ResetUsage(ctx context.Context, userID, month string) error {
	return m.Called(ctx, userID, month).Error(0)
}

type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Name() string {
	return "mock"
}

func (m *MockLLM) Complete(ctx context.Context, req *outbound.CompletionRequest) (*outbound.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.Completion), args.Error(1)
}

type MockAnalysisDB struct {
	mock.Mock
}

func (m *MockAnalysisDB) Create(ctx context.Context, analysis *model.ResumeAnalysis) error {
	return m.Called(ctx, analysis).Error(0)
}

func (m *MockAnalysisDB) FindByIDForUser(ctx context.Context, userID, id string) (*model.ResumeAnalysis, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResumeAnalysis), args.Error(1)
}

func (m *MockAnalysisDB) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeAnalysis, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ResumeAnalysis), args.Error(1)
}

func allowed(used int) *model.GateDecision {
	return &model.GateDecision{Allowed: true, Operation: model.OperationResumeScan, Plan: model.PlanFree, Month: "2025-06", Limit: 3, Used: used}
}

func denied() *model.GateDecision {
	return &model.GateDecision{Operation: model.OperationResumeScan, Plan: model.PlanFree, Month: "2025-06", Limit: 3, Used: 3, Reason: model.DenyLimitReached}
}

const evaluationJSON = `{"match_score": 77, "overall_assessment": "Solid", "strengths": ["Go"], "weaknesses": [], "missing_keywords": ["aws"], "suggested_improvements": [], "improved_bullet_points": [], "ats_compatibility_score": 88, "ats_recommendations": []}`

func evaluateRequest() *model.EvaluateResumeRequest {
	return &model.EvaluateResumeRequest{
		ResumeText:     "Go developer with Docker experience.",
		JobDescription: "Go and AWS engineer, 3 years of experience.",
	}
}

// --- Tests ---

func TestAnalysisDomain_Evaluate(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	db := new(MockAnalysisDB)
	d := NewAnalysisDomain(gate, llm, db, zap.NewNop())
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationResumeScan).Return(allowed(1), nil)
	llm.On("Complete", ctx, mock.MatchedBy(func(req *outbound.CompletionRequest) bool {
		return strings.Contains(req.Prompt, "Go developer") && req.Temperature == evaluationTemperature
	})).Return(&outbound.Completion{Text: evaluationJSON}, nil)

	var stored *model.ResumeAnalysis
	db.On("Create", ctx, mock.AnythingOfType("*model.ResumeAnalysis")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*model.ResumeAnalysis)
	}).Return(nil)

	result, err := d.Evaluate(ctx, "u1", evaluateRequest())
	require.NoError(t, err)
	assert.Equal(t, 77, result.Evaluation.MatchScore)
	assert.Equal(t, []string{"aws"}, result.KeywordGaps.MissingTechnical)
	assert.Equal(t, "mid", result.JobAnalysis.Difficulty)

	require.NotNil(t, stored)
	assert.Equal(t, result.AnalysisID, stored.ID)
	assert.Equal(t, "u1", stored.UserID)
	var eval model.Evaluation
	require.NoError(t, json.Unmarshal(stored.Evaluation, &eval))
	assert.Equal(t, 77, eval.MatchScore)
}

func TestAnalysisDomain_Evaluate_QuotaExceeded(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	db := new(MockAnalysisDB)
	d := NewAnalysisDomain(gate, llm, db, zap.NewNop())
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationResumeScan).Return(denied(), nil)

	_, err := d.Evaluate(ctx, "u1", evaluateRequest())
	require.ErrorIs(t, err, billing.ErrQuotaExceeded)

	var quotaErr *billing.QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.Decision.Limit)
	assert.Equal(t, 3, quotaErr.Decision.Used)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnalysisDomain_Evaluate_UpstreamFailureLogsConsumedQuota(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	db := new(MockAnalysisDB)
	core, logs := observer.New(zap.InfoLevel)
	d := NewAnalysisDomain(gate, llm, db, zap.New(core))
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationResumeScan).Return(allowed(2), nil)
	llm.On("Complete", ctx, mock.Anything).Return(nil, outbound.ErrProviderUnavailable)

	_, err := d.Evaluate(ctx, "u1", evaluateRequest())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, outbound.ErrProviderUnavailable)

	entries := logs.FilterMessage("quota consumed without result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].ContextMap()["user_id"])
	assert.Equal(t, "2025-06", entries[0].ContextMap()["month"])
	db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnalysisDomain_Evaluate_PersistenceFailureReturnsResult(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	db := new(MockAnalysisDB)
	d := NewAnalysisDomain(gate, llm, db, zap.NewNop())
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationResumeScan).Return(allowed(1), nil)
	llm.On("Complete", ctx, mock.Anything).Return(&outbound.Completion{Text: evaluationJSON}, nil)
	db.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := d.Evaluate(ctx, "u1", evaluateRequest())
	require.ErrorIs(t, err, ErrStorageUnavailable)

	partial, ok := IsPartial(err)
	require.True(t, ok)
	assert.Equal(t, 77, partial.Result.Evaluation.MatchScore)
	assert.Empty(t, partial.Result.AnalysisID)
}

func TestAnalysisDomain_Evaluate_Validation(t *testing.T) {
	d := NewAnalysisDomain(new(MockBilling), new(MockLLM), new(MockAnalysisDB), zap.NewNop())

	_, err := d.Evaluate(context.Background(), "u1", &model.EvaluateResumeRequest{ResumeText: "  ", JobDescription: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.Evaluate(context.Background(), "u1", &model.EvaluateResumeRequest{
		ResumeText:     strings.Repeat("a", MaxInputLength+1),
		JobDescription: "x",
	})
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestAnalysisDomain_List(t *testing.T) {
	db := new(MockAnalysisDB)
	d := NewAnalysisDomain(new(MockBilling), new(MockLLM), db, zap.NewNop())
	ctx := context.Background()

	long := strings.Repeat("x", 250)
	db.On("ListByUser", ctx, "u1", maxListLimit).Return([]*model.ResumeAnalysis{
		{ID: "a1", ResumeText: long, JobDescription: "short", Evaluation: []byte(`{"match_score": 64}`), CreatedAt: time.Now()},
	}, nil)
	db.On("ListByUser", ctx, "u1", defaultListLimit).Return([]*model.ResumeAnalysis{}, nil)

	list, err := d.List(ctx, "u1", 500)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, strings.Repeat("x", 200)+"...", list[0].ResumeText)
	assert.Equal(t, "short", list[0].JobDescription)
	assert.Equal(t, 64, list[0].MatchScore)

	list, err = d.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnalysisDomain_Get_OwnerScoped(t *testing.T) {
	db := new(MockAnalysisDB)
	d := NewAnalysisDomain(new(MockBilling), new(MockLLM), db, zap.NewNop())
	ctx := context.Background()
	id := uuid.NewString()

	db.On("FindByIDForUser", ctx, "owner", id).Return(&model.ResumeAnalysis{
		ID:          id,
		UserID:      "owner",
		Evaluation:  []byte(evaluationJSON),
		KeywordGaps: []byte(`{"missing_technical": ["aws"], "total_missing": 1}`),
	}, nil)
	db.On("FindByIDForUser", ctx, "intruder", id).Return(nil, nil)

	detail, err := d.Get(ctx, "owner", id)
	require.NoError(t, err)
	assert.Equal(t, 77, detail.Evaluation.MatchScore)
	assert.Equal(t, 1, detail.KeywordGaps.TotalMissing)
	assert.Nil(t, detail.JobAnalysis)

	_, err = d.Get(ctx, "intruder", id)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	_, err = d.Get(ctx, "owner", "not-a-uuid")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestAnalysisDomain_AnalyzeJob(t *testing.T) {
	d := NewAnalysisDomain(new(MockBilling), new(MockLLM), new(MockAnalysisDB), zap.NewNop())

	analysis, err := d.AnalyzeJob(context.Background(), "Python and SQL, 1 year experience")
	require.NoError(t, err)
	assert.Equal(t, "entry", analysis.Difficulty)

	_, err = d.AnalyzeJob(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
