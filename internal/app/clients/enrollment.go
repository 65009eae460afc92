package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-service/internal/pkg/apperrors"
)

// EnrollmentService answers how many students are currently enrolled in
// a course. Implementations make a single attempt with a bounded
// timeout; callers decide how to degrade when the count is unavailable.
type EnrollmentService interface {
	GetEnrollmentCount(ctx context.Context, courseID int64) (int, error)
}

// HTTPEnrollmentClient calls the enrollment service REST endpoint.
type HTTPEnrollmentClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPEnrollmentClient creates an enrollment client against the given base URL.
func NewHTTPEnrollmentClient(baseURL string, timeout time.Duration, lgr zerolog.Logger) *HTTPEnrollmentClient {
	return &HTTPEnrollmentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  lgr,
	}
}

// GetEnrollmentCount fetches the live enrollment count for a course.
// The enrollment service answers either {"count": n} or a bare JSON
// array of enrollments (count = length). Any transport failure or
// non-2xx status is reported as ErrUpstreamUnavailable; no retry.
func (c *HTTPEnrollmentClient) GetEnrollmentCount(ctx context.Context, courseID int64) (int, error) {
	url := fmt.Sprintf("%s/enrollments/course/%d", c.baseURL, courseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build enrollment request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Enrollment service unreachable")
		return 0, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Int("status", resp.StatusCode).Int64("courseID", courseID).Msg("Enrollment service returned non-2xx")
		return 0, fmt.Errorf("%w: enrollment service returned %s", apperrors.ErrUpstreamUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: read enrollment response: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	count, err := parseEnrollmentCount(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return count, nil
}

// parseEnrollmentCount accepts both response shapes the enrollment
// service is known to emit.
func parseEnrollmentCount(body []byte) (int, error) {
	var asObject struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(body, &asObject); err == nil && asObject.Count != nil {
		return *asObject.Count, nil
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(body, &asArray); err == nil {
		return len(asArray), nil
	}

	return 0, fmt.Errorf("unrecognized enrollment response shape")
}
