package folio

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors. Returned errors wrap one of these; test with errors.Is.
var (
	// ErrMeasurementUnavailable reports that the MeasurementProvider failed.
	// LayoutText still returns a usable zero Measurement alongside it.
	ErrMeasurementUnavailable = errors.New("folio: measurement unavailable")

	// ErrInvalidConfiguration reports an unknown enum value or an
	// out-of-range setting rejected at the API boundary.
	ErrInvalidConfiguration = errors.New("folio: invalid configuration")

	// ErrInvalidNumericInput reports a NaN or infinite argument.
	ErrInvalidNumericInput = errors.New("folio: invalid numeric input")
)

// checkFinite returns ErrInvalidNumericInput (naming the first offending
// argument) if any value is NaN or ±Inf.
func checkFinite(op string, names []string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			name := "argument"
			if i < len(names) {
				name = names[i]
			}
			return fmt.Errorf("%w: %s: %s is %v", ErrInvalidNumericInput, op, name, v)
		}
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
