package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"go-currency-converter"
	"go-currency-converter/exchange"
)

// Client talks to a converter server over its JSON API
type Client struct {
	// url base API url
	url string

	// client for HTTP requests
	client *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.client = c
	}
}

// WithTimeout sets the timeout of each request
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.client.Timeout = timeout
	}
}

// New constructs a valid Client for the server at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url: strings.TrimSuffix(url, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("converter api: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the server's error kinds by status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case exchange.ErrCurrencyNotFound:
		return e.StatusCode == http.StatusNotFound
	case exchange.ErrNoConversionPath:
		return e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// GetConfiguration loads every rate configured on the server.
func (c *Client) GetConfiguration(ctx context.Context) (converter.Table, error) {
	var table converter.Table
	if err := c.do(ctx, http.MethodGet, "/api/configuration", nil, &table); err != nil {
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return table, nil
}

// UpdateConfiguration inserts or replaces rates on the server.
func (c *Client) UpdateConfiguration(ctx context.Context, rates []converter.ConversionRate) error {
	type rate struct {
		FromCurrency converter.Currency `json:"fromCurrency"`
		ToCurrency   converter.Currency `json:"toCurrency"`
		Rate         converter.Rate     `json:"rate"`
	}

	request := lo.Map(rates, func(r converter.ConversionRate, _ int) rate {
		return rate{FromCurrency: r.From, ToCurrency: r.To, Rate: r.Rate}
	})
	if err := c.do(ctx, http.MethodPost, "/api/configuration", request, nil); err != nil {
		return fmt.Errorf("update configuration: %w", err)
	}
	return nil
}

// ClearConfiguration removes every rate configured on the server.
func (c *Client) ClearConfiguration(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/configuration", nil, nil); err != nil {
		return fmt.Errorf("clear configuration: %w", err)
	}
	return nil
}

// Convert asks the server to convert amount from one currency to another.
func (c *Client) Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error) {
	type request struct {
		FromCurrency converter.Currency `json:"fromCurrency"`
		ToCurrency   converter.Currency `json:"toCurrency"`
		Amount       converter.Amount   `json:"amount"`
	}

	type response struct {
		Exchange converter.Rate   `json:"exchange"`
		Amount   converter.Amount `json:"amount"`
	}

	var result response
	err := c.do(ctx, http.MethodPost, "/api/convert", request{FromCurrency: from, ToCurrency: to, Amount: amount}, &result)
	if err != nil {
		return converter.Exchanged{}, fmt.Errorf("convert [%v] to [%v]: %w", from, to, err)
	}
	return converter.Exchanged{Rate: result.Exchange, Amount: result.Amount}, nil
}

// do sends body as JSON, if not nil, and decodes the response into out, if not nil.
func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return fmt.Errorf("building http request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	httpResponse, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("http %v: %w", strings.ToLower(method), err)
	}
	defer httpResponse.Body.Close()

	data, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("reading json: %w", err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err != nil || failure.Error == "" {
			failure.Error = strings.TrimSpace(string(data))
		}
		return &APIError{StatusCode: httpResponse.StatusCode, Message: failure.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}
