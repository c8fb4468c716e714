package generation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"go.uber.org/zap"
)

// MaxInputLength bounds resume and job description text in characters.
const MaxInputLength = 50000

// Domain implements metered cover letter and interview question generation.
type Domain struct {
	billing inbound.BillingDomain
	llm     outbound.LLMProviderPort
	now     func() time.Time
	logger  *zap.Logger
}

// NewGenerationDomain creates a new generation domain service.
func NewGenerationDomain(billingDomain inbound.BillingDomain, llm outbound.LLMProviderPort, logger *zap.Logger) *Domain {
	return &Domain{
		billing: billingDomain,
		llm:     llm,
		now:     time.Now,
		logger:  logger,
	}
}

// Compile-time interface check
var _ inbound.GenerationDomain = (*Domain)(nil)

func (d *Domain) CoverLetter(ctx context.Context, userID string, in *model.CoverLetterRequest) (*model.CoverLetterResponse, error) {
	resumeText, jobDescription, err := validate(in.ResumeText, in.JobDescription)
	if err != nil {
		return nil, err
	}
	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		company = defaultCompanyName
	}

	decision, err := billing.Enforce(ctx, d.billing, userID, model.OperationCoverLetter)
	if err != nil {
		return nil, err
	}

	completion, err := d.complete(ctx, decision, userID, &outbound.CompletionRequest{
		SystemPrompt: writerSystemPrompt,
		Prompt:       coverLetterPrompt(resumeText, jobDescription, company),
		Temperature:  coverLetterTemperature,
		MaxTokens:    coverLetterMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	letter := strings.TrimSpace(completion.Text)
	if letter == "" {
		d.logEmptyResult(userID, decision)
		return nil, fmt.Errorf("%w: empty cover letter", ErrGenerationFailed)
	}

	d.logger.Info("cover letter generated",
		zap.String("user_id", userID),
		zap.Int("used", decision.Used),
		zap.Int("output_tokens", completion.OutputTokens),
	)
	return &model.CoverLetterResponse{
		CoverLetter: letter,
		CompanyName: company,
		GeneratedAt: d.now().UTC(),
	}, nil
}

func (d *Domain) InterviewQuestions(ctx context.Context, userID string, in *model.InterviewQuestionsRequest) (*model.InterviewQuestionsResponse, error) {
	resumeText, jobDescription, err := validate(in.ResumeText, in.JobDescription)
	if err != nil {
		return nil, err
	}

	decision, err := billing.Enforce(ctx, d.billing, userID, model.OperationInterviewQuestions)
	if err != nil {
		return nil, err
	}

	completion, err := d.complete(ctx, decision, userID, &outbound.CompletionRequest{
		SystemPrompt: writerSystemPrompt,
		Prompt:       interviewPrompt(resumeText, jobDescription),
		Temperature:  interviewTemperature,
		MaxTokens:    interviewMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	questions := ParseQuestions(completion.Text)
	if len(questions) == 0 {
		d.logEmptyResult(userID, decision)
		return nil, fmt.Errorf("%w: no questions in output", ErrGenerationFailed)
	}

	d.logger.Info("interview questions generated",
		zap.String("user_id", userID),
		zap.Int("count", len(questions)),
		zap.Int("used", decision.Used),
	)
	return &model.InterviewQuestionsResponse{
		Questions:   questions,
		GeneratedAt: d.now().UTC(),
	}, nil
}

// complete calls the provider after quota was consumed. The unit is not
// returned on failure, so the loss is logged for support.
func (d *Domain) complete(ctx context.Context, decision *model.GateDecision, userID string, req *outbound.CompletionRequest) (*outbound.Completion, error) {
	completion, err := d.llm.Complete(ctx, req)
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
	return completion, nil
}

func (d *Domain) logEmptyResult(userID string, decision *model.GateDecision) {
	d.logger.Error("quota consumed without result",
		zap.String("user_id", userID),
		zap.String("operation", string(decision.Operation)),
		zap.String("month", decision.Month),
		zap.String("provider", d.llm.Name()),
		zap.String("reason", "empty output"),
	)
}

func validate(resumeText, jobDescription string) (string, string, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobDescription = strings.TrimSpace(jobDescription)
	if resumeText == "" || jobDescription == "" {
		return "", "", ErrInvalidInput
	}
	if utf8.RuneCountInString(resumeText) > MaxInputLength || utf8.RuneCountInString(jobDescription) > MaxInputLength {
		return "", "", ErrInputTooLong
	}
	return resumeText, jobDescription, nil
}
