package exchange

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-currency-converter"
)

// Metrics the collectors updated by an instrumenting Service
type Metrics struct {
	// RequestCount counts calls by method and whether they failed
	RequestCount *prometheus.CounterVec

	// RequestLatency observes call duration in seconds by method
	RequestLatency *prometheus.HistogramVec

	// ConfiguredCurrencies the number of currencies with at least one configured rate
	ConfiguredCurrencies prometheus.Gauge
}

// NewMetrics builds the collectors and registers them with registerer
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "converter",
			Subsystem: "exchange",
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, []string{"method", "error"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "converter",
			Subsystem: "exchange",
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ConfiguredCurrencies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "converter",
			Subsystem: "exchange",
			Name:      "configured_currencies",
			Help:      "Number of currencies with at least one configured rate.",
		}),
	}
	registerer.MustRegister(m.RequestCount, m.RequestLatency, m.ConfiguredCurrencies)
	return m
}

// instrumentingService decorates an exchange.Service with prometheus metrics
type instrumentingService struct {
	metrics *Metrics
	next    Service
}

// NewInstrumentingService returns a new instance of an instrumenting Service
func NewInstrumentingService(metrics *Metrics, s Service) Service {
	return &instrumentingService{
		metrics: metrics,
		next:    s,
	}
}

func (s *instrumentingService) observe(method string, begin time.Time, err error) {
	s.metrics.RequestCount.WithLabelValues(method, strconv.FormatBool(err != nil)).Inc()
	s.metrics.RequestLatency.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

// refreshCurrencies resets the currency gauge from the current configuration
func (s *instrumentingService) refreshCurrencies(ctx context.Context) {
	table, err := s.next.GetConfiguration(ctx)
	if err != nil {
		return
	}
	s.metrics.ConfiguredCurrencies.Set(float64(len(table)))
}

func (s *instrumentingService) GetConfiguration(ctx context.Context) (table converter.Table, err error) {
	defer func(begin time.Time) {
		s.observe("get_configuration", begin, err)
		if err == nil {
			s.metrics.ConfiguredCurrencies.Set(float64(len(table)))
		}
	}(time.Now())
	return s.next.GetConfiguration(ctx)
}

func (s *instrumentingService) ClearConfiguration(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.observe("clear_configuration", begin, err)
		if err == nil {
			s.metrics.ConfiguredCurrencies.Set(0)
		}
	}(time.Now())
	return s.next.ClearConfiguration(ctx)
}

func (s *instrumentingService) UpdateConfiguration(ctx context.Context, rates []converter.ConversionRate) (err error) {
	defer func(begin time.Time) {
		s.observe("update_configuration", begin, err)
		if err == nil {
			s.refreshCurrencies(ctx)
		}
	}(time.Now())
	return s.next.UpdateConfiguration(ctx, rates)
}

func (s *instrumentingService) Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) {
		s.observe("convert", begin, err)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}
