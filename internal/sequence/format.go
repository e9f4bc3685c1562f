package sequence

import (
	"fmt"
	"strconv"

	"github.com/wellvision/wellvision/internal/shared"
)

const (
	DefaultPrefix = "INV"
	DefaultPad    = 4
)

// Format renders value as prefix + "-" + value left-padded with zeros to pad digits.
// pad is a minimum width, so longer values are never truncated. An empty prefix
// renders the padded number alone.
func Format(value int64, prefix string, pad int) (string, error) {
	if value < 0 {
		return "", fmt.Errorf("%w: sequence value %d is negative", shared.ErrInvalidArgument, value)
	}
	if pad < 0 {
		pad = 0
	}
	digits := fmt.Sprintf("%0*d", pad, value)
	if prefix == "" {
		return digits, nil
	}
	return prefix + "-" + digits, nil
}

// Style selects how a counter value becomes a stored bill number.
type Style string

const (
	StyleFormatted Style = "formatted"
	StyleRaw       Style = "raw"
)

// Formatter holds the configured bill number shape.
type Formatter struct {
	Prefix string
	Pad    int
	Style  Style
}

// DefaultFormatter renders INV-0001 style numbers.
func DefaultFormatter() Formatter {
	return Formatter{Prefix: DefaultPrefix, Pad: DefaultPad, Style: StyleFormatted}
}

// Render converts value according to the formatter's style.
func (f Formatter) Render(value int64) (string, error) {
	if f.Style == StyleRaw {
		if value < 0 {
			return "", fmt.Errorf("%w: sequence value %d is negative", shared.ErrInvalidArgument, value)
		}
		return strconv.FormatInt(value, 10), nil
	}
	return Format(value, f.Prefix, f.Pad)
}
