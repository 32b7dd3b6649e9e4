// internal/abtasty/client.go
package abtasty

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "os"
    "strings"
    "sync"
    "time"

    "github.com/unclebandit/abtest-tracker/internal/model"
)

// tokenExpiryBuffer: refresh the cached token when fewer than 60s remain.
const tokenExpiryBuffer = 60 * time.Second

// RemoteAPIError is returned for any non-2xx response from AB Tasty,
// carrying the raw body so callers can surface the upstream detail.
type RemoteAPIError struct {
    StatusCode int
    Path       string
    Body       string
}

func (e *RemoteAPIError) Error() string {
    return fmt.Sprintf("abtasty: %d %s — %s", e.StatusCode, e.Path, e.Body)
}

// Client talks to the AB Tasty API for one account. The token cache is
// shared across all requests made through the same Client; a long-lived
// process simply re-authenticates at the next expiry check after a
// revocation, nothing is retried mid-flight.
type Client struct {
    baseURL      string
    clientID     string
    clientSecret string
    accountID    string
    httpClient   *http.Client

    mu        sync.Mutex
    token     string
    expiresAt time.Time
}

// NewClient builds a Client from explicit settings.
func NewClient(baseURL, clientID, clientSecret, accountID string) *Client {
    return &Client{
        baseURL:      strings.TrimRight(baseURL, "/"),
        clientID:     clientID,
        clientSecret: clientSecret,
        accountID:    accountID,
        httpClient:   &http.Client{},
    }
}

// NewClientFromEnv builds a Client from ABT_* environment variables.
func NewClientFromEnv() *Client {
    base := os.Getenv("ABT_API_BASE_URL")
    if base == "" {
        base = "https://api.abtasty.com"
    }
    return NewClient(
        base,
        os.Getenv("ABT_CLIENT_ID"),
        os.Getenv("ABT_CLIENT_SECRET"),
        os.Getenv("ABT_ACCOUNT_ID"),
    )
}

type tokenResponse struct {
    AccessToken string `json:"access_token"`
    TokenType   string `json:"token_type"`
    ExpiresIn   int    `json:"expires_in"`
}

// getToken returns a valid bearer token, fetching a fresh one via the
// client_credentials grant when the cached token is absent or within the
// expiry buffer.
func (c *Client) getToken(ctx context.Context) (string, error) {
    c.mu.Lock()
    defer c.mu.Unlock()

    if c.token != "" && time.Until(c.expiresAt) > tokenExpiryBuffer {
        return c.token, nil
    }

    form := url.Values{}
    form.Set("grant_type", "client_credentials")
    form.Set("client_id", c.clientID)
    form.Set("client_secret", c.clientSecret)

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/v2/token", strings.NewReader(form.Encode()))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

    resp, err := c.httpClient.Do(req)
    if err != nil {
        return "", fmt.Errorf("abtasty auth: %w", err)
    }
    defer resp.Body.Close()

    body, _ := io.ReadAll(resp.Body)
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return "", &RemoteAPIError{StatusCode: resp.StatusCode, Path: "/oauth/v2/token", Body: string(body)}
    }

    var tok tokenResponse
    if err := json.Unmarshal(body, &tok); err != nil {
        return "", fmt.Errorf("abtasty auth: decoding token response: %w", err)
    }

    c.token = tok.AccessToken
    c.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
    return c.token, nil
}

// do performs one authenticated request. No retries: a failure surfaces
// straight to the caller.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
    token, err := c.getToken(ctx)
    if err != nil {
        return err
    }

    var reqBody io.Reader
    if payload != nil {
        raw, err := json.Marshal(payload)
        if err != nil {
            return err
        }
        reqBody = bytes.NewReader(raw)
    }

    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
    if err != nil {
        return err
    }
    req.Header.Set("Authorization", "Bearer "+token)
    req.Header.Set("Content-Type", "application/json")

    resp, err := c.httpClient.Do(req)
    if err != nil {
        return fmt.Errorf("abtasty %s %s: %w", method, path, err)
    }
    defer resp.Body.Close()

    body, _ := io.ReadAll(resp.Body)
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return &RemoteAPIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
    }

    if out != nil {
        if err := json.Unmarshal(body, out); err != nil {
            return fmt.Errorf("abtasty %s %s: decoding response: %w", method, path, err)
        }
    }
    return nil
}

type campaignsResponse struct {
    Data  []model.Campaign `json:"data"`
    Total *int             `json:"total,omitempty"`
    Page  *int             `json:"page,omitempty"`
}

// ListCampaigns fetches all campaigns for the configured account.
func (c *Client) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
    var resp campaignsResponse
    path := fmt.Sprintf("/v1/accounts/%s/campaigns", c.accountID)
    if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
        return nil, err
    }
    if resp.Data == nil {
        return []model.Campaign{}, nil
    }
    return resp.Data, nil
}

// GetCampaign fetches a single campaign by id.
func (c *Client) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
    var campaign model.Campaign
    path := fmt.Sprintf("/v1/accounts/%s/campaigns/%s", c.accountID, id)
    if err := c.do(ctx, http.MethodGet, path, nil, &campaign); err != nil {
        return nil, err
    }
    return &campaign, nil
}

// SetCampaignStatus patches the campaign's status in AB Tasty.
func (c *Client) SetCampaignStatus(ctx context.Context, id string, status model.CampaignStatus) (*model.Campaign, error) {
    var campaign model.Campaign
    path := fmt.Sprintf("/v1/accounts/%s/campaigns/%s", c.accountID, id)
    body := map[string]model.CampaignStatus{"status": status}
    if err := c.do(ctx, http.MethodPatch, path, body, &campaign); err != nil {
        return nil, err
    }
    return &campaign, nil
}
