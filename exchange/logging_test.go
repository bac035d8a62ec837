package exchange

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"

	"go-currency-converter"
)

func TestLoggingService(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)
	s := NewLoggingService(logger, NewService(NewStore()))
	ctx := context.Background()

	_ = s.UpdateConfiguration(ctx, []converter.ConversionRate{{From: "USD", To: "EUR", Rate: 0.5}})
	assert.Contains(t, buf.String(), "level=debug method=update_configuration rates=1")

	buf.Reset()
	_, _ = s.Convert(ctx, 10, "USD", "EUR")
	assert.Contains(t, buf.String(), "level=debug method=convert amount=10 from=USD to=EUR rate=0.5 converted_amount=5")

	buf.Reset()
	_, err := s.Convert(ctx, 10, "USD", "JPY")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "level=error method=convert")
	assert.Contains(t, buf.String(), `err="currency 'JPY' not found in configuration"`)

	buf.Reset()
	_, _ = s.GetConfiguration(ctx)
	assert.Contains(t, buf.String(), "method=get_configuration currencies=2 rates=2")

	buf.Reset()
	_ = s.ClearConfiguration(ctx)
	assert.Contains(t, buf.String(), "method=clear_configuration")
}
