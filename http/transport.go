package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/samber/lo"

	"go-currency-converter"
	"go-currency-converter/exchange"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	Logger  log.Logger

	router  *gin.Engine
	options *options
}

// NewServer builds a Server exposing s over JSON endpoints
func NewServer(s exchange.Service, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	gin.SetMode(o.mode)

	server := &Server{
		Service: s,
		Logger:  o.logger,
		router:  gin.New(),
		options: o,
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery())
	s.router.Use(CorrelationID())
	s.router.Use(Logging(s.Logger, s.options.excludePaths))
	if s.options.limiter != nil {
		s.router.Use(RateLimit(s.options.limiter))
	}

	s.router.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	if s.options.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.options.metrics))
	}

	api := s.router.Group("/api")
	api.GET("/configuration", s.getConfiguration())
	api.POST("/configuration", s.updateConfiguration())
	api.DELETE("/configuration", s.clearConfiguration())
	api.POST("/configuration/clear", s.clearConfiguration())
	api.POST("/convert", s.convert())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// getConfiguration produces the handler returning every configured rate
func (s *Server) getConfiguration() gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := s.Service.GetConfiguration(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, table)
	}
}

// updateConfiguration produces the handler inserting or replacing rates
func (s *Server) updateConfiguration() gin.HandlerFunc {

	// rate one element of the JSON array posted by clients
	type rate struct {
		FromCurrency converter.Currency `json:"fromCurrency" binding:"required"`
		ToCurrency   converter.Currency `json:"toCurrency" binding:"required"`
		Rate         *converter.Rate    `json:"rate" binding:"required"`
	}

	return func(c *gin.Context) {
		var request []rate
		if err := c.ShouldBindJSON(&request); err != nil {
			writeMessage(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		rates := lo.Map(request, func(r rate, _ int) converter.ConversionRate {
			return converter.ConversionRate{From: r.FromCurrency, To: r.ToCurrency, Rate: *r.Rate}
		})

		if err := s.Service.UpdateConfiguration(c.Request.Context(), rates); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// clearConfiguration produces the handler removing every configured rate
func (s *Server) clearConfiguration() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Service.ClearConfiguration(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() gin.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		FromCurrency converter.Currency `json:"fromCurrency" binding:"required"`
		ToCurrency   converter.Currency `json:"toCurrency" binding:"required"`
		Amount       *converter.Amount  `json:"amount" binding:"required"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Exchange converter.Rate   `json:"exchange"`
		Amount   converter.Amount `json:"amount"`
		Original converter.Amount `json:"original"`
	}

	return func(c *gin.Context) {
		var request request
		if err := c.ShouldBindJSON(&request); err != nil {
			writeMessage(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		result, err := s.Service.Convert(c.Request.Context(), *request.Amount, request.FromCurrency, request.ToCurrency)
		if err != nil {
			writeError(c, err)
			return
		}

		writeJSON(c, http.StatusOK, response{
			Exchange: result.Rate,
			Amount:   result.Amount,
			Original: *request.Amount,
		})
	}
}

// StatusCode maps a service error to the HTTP status reported for it
func StatusCode(err error) int {
	switch {
	case errors.Is(err, exchange.ErrCurrencyNotFound):
		return http.StatusNotFound
	case errors.Is(err, exchange.ErrNoConversionPath):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	writeMessage(c, StatusCode(err), err.Error())
}

func writeMessage(c *gin.Context, status int, message string) {
	writeJSON(c, status, gin.H{"error": message})
}

// writeJSON encodes v before writing the status, so values JSON cannot
// represent (an infinite rate from a zero rate) become a 500 instead of a
// truncated body.
func writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(gin.H{"error": "failed json encoding: " + err.Error()})
		status = http.StatusInternalServerError
	}
	c.Data(status, "application/json; charset=utf-8", body)
}
