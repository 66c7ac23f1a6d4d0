package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// The scoring service is an external deployment. Failures are split in two so
// callers can surface a gateway timeout separately from a bad upstream.
var (
	ErrTimeout     = errors.New("analysis service timed out")
	ErrUnavailable = errors.New("analysis service unavailable")
)

type Report struct {
	ID        int64     `json:"id"`
	ResumeID  int64     `json:"resume_id"`
	JobID     int64     `json:"job_id"`
	Score     float64   `json:"score"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Client struct {
	c       *http.Client
	baseURL string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		c: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.BaseURL,
	}
}

// Analyze submits a stored resume for scoring against a job posting.
func (c *Client) Analyze(ctx context.Context, resumeID, jobID int64) (*Report, error) {
	q := url.Values{}
	q.Set("resume_id", strconv.FormatInt(resumeID, 10))
	q.Set("job_id", strconv.FormatInt(jobID, 10))

	var rep Report
	if err := c.do(ctx, http.MethodPost, "/analyze?"+q.Encode(), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// History lists all reports produced for the user's resumes.
func (c *Client) History(ctx context.Context, userID int64) ([]Report, error) {
	var reps []Report
	path := "/reports?user_id=" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodGet, path, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

func (c *Client) ByID(ctx context.Context, reportID int64) (*Report, error) {
	var rep Report
	if err := c.do(ctx, http.MethodGet, "/reports/"+strconv.FormatInt(reportID, 10), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.c.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, ErrUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, ErrUnavailable)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
