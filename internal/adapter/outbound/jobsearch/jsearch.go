package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"go.uber.org/zap"
)

const (
	providerJSearch = "jsearch"
	sourceRapidAPI  = "rapidapi"

	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultHost    = "jsearch.p.rapidapi.com"

	// maxResponseBytes bounds the decoded search body.
	maxResponseBytes = 8 << 20
)

// Config holds JSearch client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Host    string
}

// Client searches job postings through the JSearch API on RapidAPI.
type Client struct {
	http    *http.Client
	baseURL string
	host    string
	apiKey  string
	logger  *zap.Logger
}

// NewClient creates a JSearch client on a shared HTTP client.
func NewClient(cfg *Config, httpClient *http.Client, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		host:    host,
		apiKey:  cfg.APIKey,
		logger:  logger.Named("jobsearch"),
	}
}

func (c *Client) Name() string {
	return providerJSearch
}

type searchResponse struct {
	Status string      `json:"status"`
	Data   []jobResult `json:"data"`
}

type jobResult struct {
	ID             string   `json:"job_id"`
	Title          string   `json:"job_title"`
	Employer       string   `json:"employer_name"`
	City           string   `json:"job_city"`
	State          string   `json:"job_state"`
	Country        string   `json:"job_country"`
	Description    string   `json:"job_description"`
	RequiredSkills []string `json:"job_required_skills"`
	EmploymentType string   `json:"job_employment_type"`
	ApplyLink      string   `json:"job_apply_link"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	MinSalary      *float64 `json:"job_min_salary"`
	MaxSalary      *float64 `json:"job_max_salary"`
	SalaryCurrency string   `json:"job_salary_currency"`
	SalaryPeriod   string   `json:"job_salary_period"`
}

// Search runs one page of a JSearch query. Throttling, server errors and
// transport failures are reported as outbound.ErrJobBoardUnavailable.
func (c *Client) Search(ctx context.Context, q *outbound.JobQuery) ([]*model.JobPosting, error) {
	query := q.Query
	if loc := strings.TrimSpace(q.Location); loc != "" {
		query += " in " + loc
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", outbound.ErrJobBoardUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", outbound.ErrJobBoardUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: bad status: %s", outbound.ErrJobBoardUnavailable, resp.Status)
	default:
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug("got response from job board",
		zap.String("query", query),
		zap.Int("results", len(parsed.Data)),
	)

	limit := q.Limit
	if limit <= 0 || limit > len(parsed.Data) {
		limit = len(parsed.Data)
	}
	postings := make([]*model.JobPosting, 0, limit)
	for _, r := range parsed.Data[:limit] {
		postings = append(postings, r.posting())
	}
	return postings, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
}

func (r *jobResult) posting() *model.JobPosting {
	p := &model.JobPosting{
		ID:           r.ID,
		Title:        r.Title,
		Company:      r.Employer,
		Location:     location(r.City, r.State, r.Country),
		Description:  r.Description,
		Requirements: r.RequiredSkills,
		Salary:       r.salary(),
		JobType:      r.EmploymentType,
		Source:       sourceRapidAPI,
		SourceURL:    r.ApplyLink,
	}
	if p.Requirements == nil {
		p.Requirements = []string{}
	}
	if posted, err := time.Parse(time.RFC3339, r.PostedAt); err == nil {
		posted = posted.UTC()
		p.PostedAt = &posted
	}
	return p
}

func location(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}

// salary formats the advertised range, e.g. "USD 90000-120000/YEAR".
func (r *jobResult) salary() string {
	var amount string
	switch {
	case r.MinSalary != nil && r.MaxSalary != nil && *r.MinSalary != *r.MaxSalary:
		amount = formatAmount(*r.MinSalary) + "-" + formatAmount(*r.MaxSalary)
	case r.MinSalary != nil:
		amount = formatAmount(*r.MinSalary)
	case r.MaxSalary != nil:
		amount = formatAmount(*r.MaxSalary)
	default:
		return ""
	}
	if r.SalaryCurrency != "" {
		amount = r.SalaryCurrency + " " + amount
	}
	if r.SalaryPeriod != "" {
		amount += "/" + r.SalaryPeriod
	}
	return amount
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Compile-time check
var _ outbound.JobSearchPort = (*Client)(nil)
