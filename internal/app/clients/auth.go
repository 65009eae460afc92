package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-service/internal/pkg/apperrors"
)

// Identity is the authenticated caller as reported by the Access Gate.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenValidator validates a bearer token and resolves the identity
// behind it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// HTTPAuthClient delegates token validation to the auth service.
type HTTPAuthClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPAuthClient creates an auth client against the given base URL.
func NewHTTPAuthClient(baseURL string, timeout time.Duration, lgr zerolog.Logger) *HTTPAuthClient {
	return &HTTPAuthClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  lgr,
	}
}

// ValidateToken calls GET /auth/validate with the bearer token. Any
// failure, including the auth service being unreachable, is fatal to
// the request: there is no partial authentication.
func (c *HTTPAuthClient) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/validate", nil)
	if err != nil {
		return nil, fmt.Errorf("build auth validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Auth service unreachable")
		return nil, fmt.Errorf("%w: auth service unreachable", apperrors.ErrTokenInvalid)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: auth service returned %s", apperrors.ErrTokenInvalid, resp.Status)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: decode auth response: %v", apperrors.ErrTokenInvalid, err)
	}
	return &identity, nil
}
