package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

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
	return nil, m.Called(ctx, userID).Error(1)
}

func (m *MockBilling) ListUsage(ctx context.Context, userID string, limit int) ([]*model.UsageResponse, error) {
	return nil, m.Called(ctx, userID, limit).Error(1)
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

func decision(kind model.OperationKind, allowed bool) *model.GateDecision {
	d := &model.GateDecision{Allowed: allowed, Operation: kind, Plan: model.PlanStarter, Month: "2025-06", Limit: 5, Used: 1}
	if !allowed {
		d.Reason = model.DenyLimitReached
		d.Used = 5
	}
	return d
}

func newTestDomain(gate *MockBilling, llm *MockLLM) *Domain {
	d := NewGenerationDomain(gate, llm, zap.NewNop())
	d.now = func() time.Time { return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) }
	return d
}

// --- Tests ---

func TestGenerationDomain_CoverLetter(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	d := newTestDomain(gate, llm)
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationCoverLetter).Return(decision(model.OperationCoverLetter, true), nil)
	llm.On("Complete", ctx, mock.MatchedBy(func(req *outbound.CompletionRequest) bool {
		return req.Temperature == coverLetterTemperature && strings.Contains(req.Prompt, "Company: the company")
	})).Return(&outbound.Completion{Text: "\nDear Hiring Manager,\n"}, nil)

	resp, err := d.CoverLetter(ctx, "u1", &model.CoverLetterRequest{
		ResumeText:     "Go engineer",
		JobDescription: "Backend role",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", resp.CoverLetter)
	assert.Equal(t, "the company", resp.CompanyName)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), resp.GeneratedAt)
	llm.AssertExpectations(t)
}

func TestGenerationDomain_CoverLetter_QuotaExceeded(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	d := newTestDomain(gate, llm)
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationCoverLetter).Return(decision(model.OperationCoverLetter, false), nil)

	_, err := d.CoverLetter(ctx, "u1", &model.CoverLetterRequest{ResumeText: "a", JobDescription: "b", CompanyName: "Acme"})
	assert.ErrorIs(t, err, billing.ErrQuotaExceeded)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerationDomain_CoverLetter_GateFailure(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	d := newTestDomain(gate, llm)
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "ghost", model.OperationCoverLetter).Return(nil, billing.ErrUnknownUser)

	_, err := d.CoverLetter(ctx, "ghost", &model.CoverLetterRequest{ResumeText: "a", JobDescription: "b"})
	assert.ErrorIs(t, err, billing.ErrUnknownUser)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerationDomain_InterviewQuestions(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	d := newTestDomain(gate, llm)
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationInterviewQuestions).Return(decision(model.OperationInterviewQuestions, true), nil)
	llm.On("Complete", ctx, mock.MatchedBy(func(req *outbound.CompletionRequest) bool {
		return req.Temperature == interviewTemperature
	})).Return(&outbound.Completion{Text: "1. Tell me about Go.\n2. How do you test?"}, nil)

	resp, err := d.InterviewQuestions(ctx, "u1", &model.InterviewQuestionsRequest{ResumeText: "a", JobDescription: "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tell me about Go.", "How do you test?"}, resp.Questions)
}

func TestGenerationDomain_InterviewQuestions_EmptyOutput(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	core, logs := observer.New(zap.InfoLevel)
	d := NewGenerationDomain(gate, llm, zap.New(core))
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationInterviewQuestions).Return(decision(model.OperationInterviewQuestions, true), nil)
	llm.On("Complete", ctx, mock.Anything).Return(&outbound.Completion{Text: "\n \n"}, nil)

	_, err := d.InterviewQuestions(ctx, "u1", &model.InterviewQuestionsRequest{ResumeText: "a", JobDescription: "b"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, logs.FilterMessage("quota consumed without result").Len())
}

func TestGenerationDomain_ProviderFailure(t *testing.T) {
	gate := new(MockBilling)
	llm := new(MockLLM)
	core, logs := observer.New(zap.InfoLevel)
	d := NewGenerationDomain(gate, llm, zap.New(core))
	ctx := context.Background()

	gate.On("CheckAndConsume", ctx, "u1", model.OperationCoverLetter).Return(decision(model.OperationCoverLetter, true), nil)
	llm.On("Complete", ctx, mock.Anything).Return(nil, outbound.ErrProviderUnavailable)

	_, err := d.CoverLetter(ctx, "u1", &model.CoverLetterRequest{ResumeText: "a", JobDescription: "b"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, outbound.ErrProviderUnavailable)

	entries := logs.FilterMessage("quota consumed without result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cover_letter", entries[0].ContextMap()["operation"])
	assert.Equal(t, "mock", entries[0].ContextMap()["provider"])
}

func TestGenerationDomain_Validation(t *testing.T) {
	d := newTestDomain(new(MockBilling), new(MockLLM))
	ctx := context.Background()

	_, err := d.CoverLetter(ctx, "u1", &model.CoverLetterRequest{ResumeText: " ", JobDescription: "b"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.InterviewQuestions(ctx, "u1", &model.InterviewQuestionsRequest{
		ResumeText:     strings.Repeat("x", MaxInputLength+1),
		JobDescription: "b",
	})
	assert.ErrorIs(t, err, ErrInputTooLong)

	_, err = d.InterviewQuestions(ctx, "u1", &model.InterviewQuestionsRequest{ResumeText: "a"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
