package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/port/inbound"
)

// Handlers groups the HTTP ports served under the API prefix.
type Handlers struct {
	User       inbound.UserHttpPort
	Billing    inbound.BillingHttpPort
	Analysis   inbound.AnalysisHttpPort
	Generation inbound.GenerationHttpPort
	Resume     inbound.ResumeHttpPort
	Payment    inbound.PaymentHttpPort
	Jobs       inbound.JobsHttpPort
}

// RouteMiddleware holds per-route middleware. Nil entries are skipped.
type RouteMiddleware struct {
	// Auth resolves the requesting user. Required.
	Auth gin.HandlerFunc
	// LLMRateLimit throttles the endpoints that call the language model or
	// the job board.
	LLMRateLimit gin.HandlerFunc
	// CheckoutIdempotency replays repeated checkout requests.
	CheckoutIdempotency gin.HandlerFunc
}

// RegisterRoutes mounts every API route on r.
func RegisterRoutes(r gin.IRouter, h *Handlers, mw *RouteMiddleware) {
	// Public
	r.GET("/plans", h.Billing.ListPlans)
	r.POST("/stripe-webhook", h.Payment.StripeWebhook)

	protected := r.Group("", mw.Auth)
	{
		protected.POST("/create-user", h.User.CreateUser)
		protected.GET("/get-plan", h.Billing.GetPlan)
		protected.GET("/usage-history", h.Billing.ListUsageHistory)

		protected.POST("/upload-resume", h.Resume.UploadResume)
		protected.GET("/user-files", h.Resume.ListFiles)

		protected.POST("/analyze-job", h.Analysis.AnalyzeJob)
		protected.GET("/resume-analyses", h.Analysis.ListAnalyses)
		protected.GET("/resume-analysis/:id", h.Analysis.GetAnalysis)

		protected.POST("/create-checkout-session", with(mw.CheckoutIdempotency, h.Payment.CreateCheckoutSession)...)
	}

	llm := protected.Group("")
	if mw.LLMRateLimit != nil {
		llm.Use(mw.LLMRateLimit)
	}
	{
		llm.POST("/evaluate-resume", h.Analysis.EvaluateResume)
		llm.POST("/generate-cover-letter", h.Generation.GenerateCoverLetter)
		llm.POST("/generate-interview-questions", h.Generation.GenerateInterviewQuestions)
		llm.POST("/search-jobs", h.Jobs.SearchJobs)
		llm.POST("/match-jobs", h.Jobs.MatchJobs)
	}
}

func with(mw gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{mw, handler}
}
