package stripe

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
)

// Config holds Stripe API configuration
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Client is a minimal Stripe API client used for debt payback intents
type Client struct {
	httpClient *http.Client
	config     Config
}

// PaymentIntent represents the subset of the Stripe PaymentIntent object we use
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// StatusSucceeded is the PaymentIntent status after a completed payment.
const StatusSucceeded = "succeeded"

// Succeeded reports whether the payment behind this intent completed.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == StatusSucceeded
}

// CreateIntentParams describes a payment intent to create
type CreateIntentParams struct {
	// Amount in the smallest currency unit (paise)
	Amount        int64
	Currency      string
	TransactionID string
	CustomerEmail string
}

// NewClient creates a new Stripe API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// CreatePaymentIntent creates a PaymentIntent and returns it together with
// the client secret the browser needs to confirm the payment.
func (c *Client) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return nil, fmt.Errorf("stripe config error: secret_key is empty")
	}

	currency := params.Currency
	if currency == "" {
		currency = "inr"
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", currency)
	form.Set("metadata[transaction_id]", params.TransactionID)
	if params.CustomerEmail != "" {
		form.Set("receipt_email", params.CustomerEmail)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/v1/payment_intents"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.config.SecretKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	var out PaymentIntent
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse stripe response: %w", err)
	}

	return &out, nil
}

// GetPaymentIntent retrieves a PaymentIntent, primarily to check whether
// the payment behind it actually succeeded.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("validation error: intent id is empty")
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return nil, fmt.Errorf("stripe config error: secret_key is empty")
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/v1/payment_intents/" + url.PathEscape(id)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	httpReq.SetBasicAuth(c.config.SecretKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	var out PaymentIntent
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse stripe response: %w", err)
	}

	return &out, nil
}
