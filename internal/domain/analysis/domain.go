package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
	previewLength    = 200

	// MaxInputLength bounds resume and job description text in characters.
	MaxInputLength = 50000
)

// Domain implements resume evaluation logic.
type Domain struct {
	billing    inbound.BillingDomain
	llm        outbound.LLMProviderPort
	analysisDB outbound.AnalysisDatabasePort
	now        func() time.Time
	logger     *zap.Logger
}

// NewAnalysisDomain creates a new analysis domain service.
func NewAnalysisDomain(
	billingDomain inbound.BillingDomain,
	llm outbound.LLMProviderPort,
	analysisDB outbound.AnalysisDatabasePort,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		billing:    billingDomain,
		llm:        llm,
		analysisDB: analysisDB,
		now:        time.Now,
		logger:     logger,
	}
}

// Compile-time interface check
var _ inbound.AnalysisDomain = (*Domain)(nil)

func (d *Domain) AnalyzeJob(ctx context.Context, jobDescription string) (*model.JobAnalysis, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(jobDescription) > MaxInputLength {
		return nil, ErrInputTooLong
	}
	return AnalyzeJobDescription(jobDescription), nil
}

// Evaluate consumes one resume scan, asks the model for an evaluation and
// stores it. Quota is not returned when the model fails after consumption.
func (d *Domain) Evaluate(ctx context.Context, userID string, in *model.EvaluateResumeRequest) (*model.EvaluationResult, error) {
	resumeText := strings.TrimSpace(in.ResumeText)
	jobDescription := strings.TrimSpace(in.JobDescription)
	if resumeText == "" || jobDescription == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(resumeText) > MaxInputLength || utf8.RuneCountInString(jobDescription) > MaxInputLength {
		return nil, ErrInputTooLong
	}

	decision, err := billing.Enforce(ctx, d.billing, userID, model.OperationResumeScan)
	if err != nil {
		return nil, err
	}

	completion, err := d.llm.Complete(ctx, &outbound.CompletionRequest{
		SystemPrompt: evaluationSystemPrompt,
		Prompt:       evaluationPrompt(resumeText, jobDescription),
		Temperature:  evaluationTemperature,
		MaxTokens:    evaluationMaxTokens,
	})
	if err != nil {
		d.logger.Error("quota consumed without result",
			zap.String("user_id", userID),
			zap.String("operation", string(decision.Operation)),
			zap.String("month", decision.Month),
			zap.String("provider", d.llm.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	evaluation, fellBack := ParseEvaluation(completion.Text)
	if fellBack {
		d.logger.Warn("evaluation output was not valid JSON",
			zap.String("user_id", userID),
			zap.String("output", logger.Truncate(completion.Text, 300)),
		)
	}

	result := &model.EvaluationResult{
		Evaluation:  evaluation,
		KeywordGaps: FindKeywordGaps(resumeText, jobDescription),
		JobAnalysis: AnalyzeJobDescription(jobDescription),
		CreatedAt:   d.now().UTC(),
	}

	record, err := newAnalysisRecord(userID, resumeText, jobDescription, in.ResumeFileID, result)
	if err == nil {
		err = d.analysisDB.Create(ctx, record)
	}
	if err != nil {
		d.logger.Error("evaluation generated but not saved",
			zap.String("user_id", userID),
			zap.String("month", decision.Month),
			zap.Error(err),
		)
		return nil, &PartialResultError{Result: result, Err: err}
	}

	result.AnalysisID = record.ID
	result.CreatedAt = record.CreatedAt

	d.logger.Info("resume evaluated",
		zap.String("user_id", userID),
		zap.String("analysis_id", record.ID),
		zap.Int("match_score", evaluation.MatchScore),
		zap.Int("scans_used", decision.Used),
		zap.Int("input_tokens", completion.InputTokens),
		zap.Int("output_tokens", completion.OutputTokens),
	)
	return result, nil
}

func newAnalysisRecord(userID, resumeText, jobDescription string, fileID *string, result *model.EvaluationResult) (*model.ResumeAnalysis, error) {
	evaluation, err := json.Marshal(result.Evaluation)
	if err != nil {
		return nil, fmt.Errorf("encode evaluation: %w", err)
	}
	gaps, err := json.Marshal(result.KeywordGaps)
	if err != nil {
		return nil, fmt.Errorf("encode keyword gaps: %w", err)
	}
	job, err := json.Marshal(result.JobAnalysis)
	if err != nil {
		return nil, fmt.Errorf("encode job analysis: %w", err)
	}

	if fileID != nil && strings.TrimSpace(*fileID) == "" {
		fileID = nil
	}

	return &model.ResumeAnalysis{
		ID:             uuid.NewString(),
		UserID:         userID,
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		Evaluation:     datatypes.JSON(evaluation),
		KeywordGaps:    datatypes.JSON(gaps),
		JobAnalysis:    datatypes.JSON(job),
		ResumeFileID:   fileID,
		CreatedAt:      result.CreatedAt,
	}, nil
}

func (d *Domain) List(ctx context.Context, userID string, limit int) ([]*model.AnalysisSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := d.analysisDB.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	out := make([]*model.AnalysisSummary, 0, len(records))
	for _, r := range records {
		summary := &model.AnalysisSummary{
			ID:             r.ID,
			ResumeText:     logger.Truncate(r.ResumeText, previewLength),
			JobDescription: logger.Truncate(r.JobDescription, previewLength),
			CreatedAt:      r.CreatedAt,
		}
		var eval model.Evaluation
		if err := json.Unmarshal(r.Evaluation, &eval); err == nil {
			summary.MatchScore = eval.MatchScore
		}
		out = append(out, summary)
	}
	return out, nil
}

// Get returns the analysis only to its owner. Another user's id is reported
// as not found.
func (d *Domain) Get(ctx context.Context, userID, id string) (*model.AnalysisDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAnalysisNotFound
	}

	r, err := d.analysisDB.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if r == nil {
		return nil, ErrAnalysisNotFound
	}

	detail := &model.AnalysisDetail{
		ID:             r.ID,
		ResumeText:     r.ResumeText,
		JobDescription: r.JobDescription,
		ResumeFileID:   r.ResumeFileID,
		CreatedAt:      r.CreatedAt,
	}
	if err := decodeJSON(r.Evaluation, &detail.Evaluation); err != nil {
		return nil, err
	}
	if err := decodeJSON(r.KeywordGaps, &detail.KeywordGaps); err != nil {
		return nil, err
	}
	if err := decodeJSON(r.JobAnalysis, &detail.JobAnalysis); err != nil {
		return nil, err
	}
	return detail, nil
}

func decodeJSON(raw datatypes.JSON, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode stored analysis: %w", err)
	}
	return nil
}

// IsPartial reports whether err carries a generated but unsaved result.
func IsPartial(err error) (*PartialResultError, bool) {
	var partial *PartialResultError
	if errors.As(err, &partial) {
		return partial, true
	}
	return nil, false
}
