package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"go-currency-converter"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

// leveled picks the level for a call outcome: failures are errors, everything else is debug
func (s *loggingService) leveled(err error) log.Logger {
	if err != nil {
		return level.Error(s.logger)
	}
	return level.Debug(s.logger)
}

func (s *loggingService) GetConfiguration(ctx context.Context) (table converter.Table, err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "get_configuration",
			"currencies", len(table),
			"rates", table.Edges(),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetConfiguration(ctx)
}

func (s *loggingService) ClearConfiguration(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "clear_configuration",
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ClearConfiguration(ctx)
}

func (s *loggingService) UpdateConfiguration(ctx context.Context, rates []converter.ConversionRate) (err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "update_configuration",
			"rates", len(rates),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateConfiguration(ctx, rates)
}

func (s *loggingService) Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (ex converter.Exchanged, err error) {
	defer func(begin time.Time) {
		s.leveled(err).Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Amount,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}
