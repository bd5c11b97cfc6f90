// Package paypal is a client for the wallet network REST API:
// OAuth token, order creation and capture.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopmart/storefront/internal/models"
)

// capture status reported by the gateway on success
const StatusCompleted = "COMPLETED"

// tokenExpirySkew is subtracted from the token lifetime so a token
// is refreshed before the gateway actually rejects it
const tokenExpirySkew = 30 * time.Second

// Client represents HTTP client for wallet network requests
type Client struct {
	client       *http.Client
	baseURL      string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates new Client instance
func NewClient(baseURL, clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// OrderRequest is gateway order creation request
type OrderRequest struct {
	Amount      int64 // minor units
	Currency    string
	Description string
	Reference   string
	ReturnURL   string
	CancelURL   string
}

// Order is gateway order creation/capture result
type Order struct {
	ID          string
	Status      string
	ApprovalURL string
	CaptureID   string
	Raw         map[string]any
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// getAccessToken requests OAuth token, caching it until it expires.
// The mutex is held across the token request so concurrent callers
// do not issue duplicate fetches.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	u, err := url.JoinPath(c.baseURL, "v1", "oauth2", "token")
	if err != nil {
		return "", err
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: oauth status %d", models.ErrGatewayUnavailable, resp.StatusCode)
	}

	tokenResp := tokenResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpirySkew)
	return c.accessToken, nil
}

// invalidateToken drops the cached token if it is still the one the
// failed request was sent with
func (c *Client) invalidateToken(token string) {
	c.mu.Lock()
	if c.accessToken == token {
		c.accessToken = ""
	}
	c.mu.Unlock()
}

// CreateOrder creates gateway order for immediate capture
func (c *Client) CreateOrder(ctx context.Context, orderReq OrderRequest) (*Order, error) {
	u, err := url.JoinPath(c.baseURL, "v2", "checkout", "orders")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]any{
					"currency_code": orderReq.Currency,
					"value":         formatAmount(orderReq.Amount),
				},
				"description":  orderReq.Description,
				"reference_id": orderReq.Reference,
			},
		},
		"application_context": map[string]any{
			"return_url":  orderReq.ReturnURL,
			"cancel_url":  orderReq.CancelURL,
			"user_action": "PAY_NOW",
		},
	}

	return c.doOrderRequest(ctx, http.MethodPost, u, body)
}

// CaptureOrder completes the payment for an approved gateway order
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	u, err := url.JoinPath(c.baseURL, "v2", "checkout", "orders", orderID, "capture")
	if err != nil {
		return nil, err
	}

	return c.doOrderRequest(ctx, http.MethodPost, u, nil)
}

// doOrderRequest sends an authorized order request. A 401 from the
// gateway means the cached token was revoked or expired early, so it
// is dropped and the request retried once with a fresh token.
func (c *Client) doOrderRequest(ctx context.Context, method, u string, body any) (*Order, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	order, status, err := c.sendOrderRequest(ctx, method, u, token, body)
	if status == http.StatusUnauthorized {
		c.invalidateToken(token)
		token, err = c.getAccessToken(ctx)
		if err != nil {
			return nil, err
		}
		order, _, err = c.sendOrderRequest(ctx, method, u, token, body)
	}
	return order, err
}

func (c *Client) sendOrderRequest(ctx context.Context, method, u, token string, body any) (*Order, int, error) {
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, resp.StatusCode, fmt.Errorf("%w: order request status %d", models.ErrGatewayUnavailable, resp.StatusCode)
	}

	var raw map[string]any
	orderResp := orderResponse{}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&raw); err != nil {
		return nil, resp.StatusCode, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if err := json.Unmarshal(data, &orderResp); err != nil {
		return nil, resp.StatusCode, err
	}

	order := Order{
		ID:     orderResp.ID,
		Status: orderResp.Status,
		Raw:    raw,
	}

	for _, link := range orderResp.Links {
		if link.Rel == "approve" {
			order.ApprovalURL = link.Href
			break
		}
	}

	if len(orderResp.PurchaseUnits) > 0 && len(orderResp.PurchaseUnits[0].Payments.Captures) > 0 {
		order.CaptureID = orderResp.PurchaseUnits[0].Payments.Captures[0].ID
	}

	return &order, resp.StatusCode, nil
}

// formatAmount renders minor units as a decimal string the gateway expects
func formatAmount(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
