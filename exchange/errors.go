package exchange

import "errors"

var (
	// ErrCurrencyNotFound a conversion referenced a currency with no configured rates.
	ErrCurrencyNotFound = errors.New("not found in configuration")

	// ErrNoConversionPath both currencies are configured but no chain of rates connects them.
	ErrNoConversionPath = errors.New("no conversion path found")
)
