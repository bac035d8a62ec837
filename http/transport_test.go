package http

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-currency-converter"
	"go-currency-converter/exchange"
)

type mock struct {
	t      *testing.T
	amount converter.Amount
	from   converter.Currency
	to     converter.Currency
	err    error

	updated []converter.ConversionRate
	cleared int
}

func (m *mock) GetConfiguration(_ context.Context) (converter.Table, error) {
	return converter.Table{"GBP": {"FOO": 2}}, m.err
}

func (m *mock) ClearConfiguration(_ context.Context) error {
	m.cleared++
	return m.err
}

func (m *mock) UpdateConfiguration(_ context.Context, rates []converter.ConversionRate) error {
	m.updated = append(m.updated, rates...)
	return m.err
}

func (m *mock) Convert(_ context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error) {
	assert.Equal(m.t, m.amount, amount, "amount")
	assert.Equal(m.t, m.from, from, "from")
	assert.Equal(m.t, m.to, to, "to")
	if m.err != nil {
		return converter.Exchanged{}, m.err
	}
	return converter.Exchanged{Rate: 2.0, Amount: 6.0}, nil
}

func newTestServer(s exchange.Service, opts ...Option) *Server {
	return NewServer(s, append([]Option{WithMode(gin.TestMode)}, opts...)...)
}

func TestServer_Convert(t *testing.T) {
	es := mock{
		t:      t,
		amount: 3,
		from:   "GBP",
		to:     "FOO",
	}

	server := newTestServer(&es)

	w := httptest.NewRecorder()
	msg := `{"fromCurrency":"GBP", "toCurrency":"FOO","amount":3.0}`
	r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(msg))

	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"exchange":2,"amount":6,"original":3}`, strings.TrimSpace(w.Body.String()))
}

func TestServer_Convert_ZeroAmount(t *testing.T) {
	es := mock{t: t, amount: 0, from: "GBP", to: "FOO"}
	server := newTestServer(&es)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(`{"fromCurrency":"GBP","toCurrency":"FOO","amount":0}`))
	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
}

func TestServer_Convert_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"fromCurrency":`},
		{"missing amount", `{"fromCurrency":"GBP","toCurrency":"FOO"}`},
		{"missing from", `{"toCurrency":"FOO","amount":1}`},
		{"empty to", `{"fromCurrency":"GBP","toCurrency":"","amount":1}`},
		{"amount not a number", `{"fromCurrency":"GBP","toCurrency":"FOO","amount":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&mock{t: t})

			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(tt.body))
			server.ServeHTTP(w, r)

			assert.Equal(t, 400, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"invalid request`)
		})
	}
}

func TestServer_Convert_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown currency", fmt.Errorf("currency 'FOO' %w", exchange.ErrCurrencyNotFound), 404},
		{"no path", fmt.Errorf("convert [GBP] to [FOO]: %w", exchange.ErrNoConversionPath), 422},
		{"other", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&mock{t: t, amount: 1, from: "GBP", to: "FOO", err: tt.err})

			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(`{"fromCurrency":"GBP","toCurrency":"FOO","amount":1}`))
			server.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.err.Error()), w.Body.String())
		})
	}
}

func TestServer_GetConfiguration(t *testing.T) {
	server := newTestServer(&mock{t: t})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/configuration", nil))

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"GBP":{"FOO":2}}`, w.Body.String())
}

func TestServer_UpdateConfiguration(t *testing.T) {
	es := mock{t: t}
	server := newTestServer(&es)

	w := httptest.NewRecorder()
	msg := `[{"fromCurrency":"USD","toCurrency":"CAD","rate":1.34},{"fromCurrency":"CAD","toCurrency":"GBP","rate":0.58}]`
	server.ServeHTTP(w, httptest.NewRequest("POST", "/api/configuration", strings.NewReader(msg)))

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, []converter.ConversionRate{
		{From: "USD", To: "CAD", Rate: 1.34},
		{From: "CAD", To: "GBP", Rate: 0.58},
	}, es.updated)
}

func TestServer_UpdateConfiguration_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an array", `{"fromCurrency":"USD","toCurrency":"CAD","rate":1.34}`},
		{"missing rate", `[{"fromCurrency":"USD","toCurrency":"CAD"}]`},
		{"missing currency", `[{"fromCurrency":"USD","rate":1.34}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := mock{t: t}
			server := newTestServer(&es)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, httptest.NewRequest("POST", "/api/configuration", strings.NewReader(tt.body)))

			assert.Equal(t, 400, w.Code)
			assert.Empty(t, es.updated)
		})
	}
}

func TestServer_ClearConfiguration(t *testing.T) {
	es := mock{t: t}
	server := newTestServer(&es)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/configuration", nil))
	assert.Equal(t, 204, w.Code)

	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/api/configuration/clear", nil))
	assert.Equal(t, 204, w.Code)

	assert.Equal(t, 2, es.cleared)
}

func TestServer_Healthcheck(t *testing.T) {
	server := newTestServer(&mock{t: t})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/healthcheck", nil))

	assert.Equal(t, 200, w.Code)
}
