package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/handler"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
)

const (
	apiPrefix        = "/api/v1"
	clientTimeout    = 10 * time.Second
	clientMaxRetries = 3
	clientRetryDelay = 500 * time.Millisecond
)

// APIError is a non-2xx reply from the economy API. Message is the
// user-facing text the API put in its error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// APIClient handles communication with the economy API
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string

	retryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		Client:     &http.Client{Timeout: clientTimeout},
		APIKey:     apiKey,
		retryDelay: clientRetryDelay,
	}
}

// do sends one JSON request, retrying transport failures and 5xx replies
// with exponential backoff, and decodes a 2xx body into out
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody []byte
	if body != nil {
		var err error
		if reqBody, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	target := c.BaseURL + apiPrefix + path

	var lastErr error
	for attempt := 0; attempt <= clientMaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(reqBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = readAPIError(resp)
			resp.Body.Close()
			slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
			continue
		}

		err = decodeResponse(resp, out)
		resp.Body.Close()
		return err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	var body handler.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Progression

func (c *APIClient) AwardMessage(ctx context.Context, userID, username string) (*progression.MessageXPResult, error) {
	var out progression.MessageXPResult
	err := c.do(ctx, http.MethodPost, "/progression/message", handler.MessageRequest{UserID: userID, Username: username}, &out)
	return &out, err
}

func (c *APIClient) AwardVoice(ctx context.Context, req handler.VoiceRequest) (*progression.ActivityResult, error) {
	var out progression.ActivityResult
	err := c.do(ctx, http.MethodPost, "/progression/voice", req, &out)
	return &out, err
}

func (c *APIClient) AwardImage(ctx context.Context, userID, username string) (*progression.ActivityResult, error) {
	var out progression.ActivityResult
	err := c.do(ctx, http.MethodPost, "/progression/image", handler.UserRequest{UserID: userID, Username: username}, &out)
	return &out, err
}

func (c *APIClient) Prestige(ctx context.Context, userID, username string) (*progression.PrestigeResult, error) {
	var out progression.PrestigeResult
	err := c.do(ctx, http.MethodPost, "/progression/prestige", handler.UserRequest{UserID: userID, Username: username}, &out)
	return &out, err
}

func (c *APIClient) GetAccount(ctx context.Context, userID string) (*progression.AccountSnapshot, error) {
	var out progression.AccountSnapshot
	err := c.do(ctx, http.MethodGet, "/progression/account/"+url.PathEscape(userID), nil, &out)
	return &out, err
}

func (c *APIClient) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var out handler.LeaderboardResponse
	path := "/progression/leaderboard?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// Investments

// PropertyAction runs one of purchase, sell, maintain, repair or collect
func (c *APIClient) PropertyAction(ctx context.Context, action, userID, property string) (*investment.Outcome, error) {
	var out investment.Outcome
	err := c.do(ctx, http.MethodPost, "/investments/"+action, handler.PropertyRequest{UserID: userID, Property: property}, &out)
	return &out, err
}

func (c *APIClient) CollectAll(ctx context.Context, userID string) (*investment.CollectAllResult, error) {
	var out investment.CollectAllResult
	err := c.do(ctx, http.MethodPost, "/investments/collect-all", handler.PortfolioRequest{UserID: userID}, &out)
	return &out, err
}

func (c *APIClient) MaintainAll(ctx context.Context, userID string) (*investment.MaintainAllResult, error) {
	var out investment.MaintainAllResult
	err := c.do(ctx, http.MethodPost, "/investments/maintain-all", handler.PortfolioRequest{UserID: userID}, &out)
	return &out, err
}

func (c *APIClient) Portfolio(ctx context.Context, userID string) (*investment.Portfolio, error) {
	var out investment.Portfolio
	err := c.do(ctx, http.MethodGet, "/investments/portfolio/"+url.PathEscape(userID), nil, &out)
	return &out, err
}

func (c *APIClient) Catalog(ctx context.Context) ([]domain.PropertyCatalogEntry, error) {
	var out handler.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/investments/catalog", nil, &out); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

func (c *APIClient) NeedsAttention(ctx context.Context) ([]investment.Attention, error) {
	var out handler.AttentionResponse
	if err := c.do(ctx, http.MethodGet, "/investments/attention", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// Admin

func (c *APIClient) AdminCoins(ctx context.Context, req handler.AdminCoinsRequest) (*domain.Account, error) {
	var out domain.Account
	err := c.do(ctx, http.MethodPost, "/admin/coins", req, &out)
	return &out, err
}

func (c *APIClient) AdminLevels(ctx context.Context, req handler.AdminLevelsRequest) (*domain.Account, error) {
	var out domain.Account
	err := c.do(ctx, http.MethodPost, "/admin/levels", req, &out)
	return &out, err
}

func (c *APIClient) SetXPEnabled(ctx context.Context, enabled bool) (*domain.Settings, error) {
	var out handler.SettingsResponse
	if err := c.do(ctx, http.MethodPost, "/admin/xp-toggle", handler.XPToggleRequest{Enabled: &enabled}, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *APIClient) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	err := c.do(ctx, http.MethodGet, "/admin/settings", nil, &out)
	return &out, err
}

func (c *APIClient) PatchSettings(ctx context.Context, patch settings.Patch) (*domain.Settings, error) {
	var out handler.SettingsResponse
	if err := c.do(ctx, http.MethodPatch, "/admin/settings", patch, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *APIClient) GrantTemporaryBoost(ctx context.Context, req handler.TemporaryBoostRequest) (*domain.ActiveBoost, error) {
	var out domain.ActiveBoost
	err := c.do(ctx, http.MethodPost, "/admin/boosts/temporary", req, &out)
	return &out, err
}

func (c *APIClient) GrantPermanentBoost(ctx context.Context, req handler.PermanentBoostRequest) (*domain.PermanentPerk, error) {
	var out domain.PermanentPerk
	err := c.do(ctx, http.MethodPost, "/admin/boosts/permanent", req, &out)
	return &out, err
}

func (c *APIClient) RunTick(ctx context.Context) (*investment.TickSummary, error) {
	var out investment.TickSummary
	err := c.do(ctx, http.MethodPost, "/admin/investments/tick", nil, &out)
	return &out, err
}

func (c *APIClient) ResetIncome(ctx context.Context) (*investment.ResetSummary, error) {
	var out investment.ResetSummary
	err := c.do(ctx, http.MethodPost, "/admin/investments/reset-income", nil, &out)
	return &out, err
}

// Dashboard

func (c *APIClient) IssueDashboardToken(ctx context.Context, userID, username string) (*handler.TokenResponse, error) {
	var out handler.TokenResponse
	err := c.do(ctx, http.MethodPost, "/dashboard/token", handler.TokenRequest{UserID: userID, Username: username}, &out)
	return &out, err
}

// Healthy reports whether the API answers its liveness check
func (c *APIClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
