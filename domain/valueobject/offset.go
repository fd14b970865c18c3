package valueobject

import (
	"fmt"
	"strings"
	"time"

	"github.com/ca-srg/opday/domain"
)

const (
	// SecondsPerDay is the exclusive upper bound of a cutover offset
	SecondsPerDay = 24 * 60 * 60

	// DefaultOffsetString is the cutover used when no configuration has ever been read
	DefaultOffsetString = "00:00:00"
)

// Offset is the daily cutover time, expressed as seconds after UTC midnight.
// The zero value is a valid offset of 00:00:00.
type Offset struct {
	seconds int
}

// ParseOffset parses a zero-padded 24-hour "HH:MM:SS" string
func ParseOffset(raw string) (Offset, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "expected HH:MM:SS")
	}

	hours, ok := parseTwoDigits(parts[0])
	if !ok {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "hours must be two digits")
	}
	minutes, ok := parseTwoDigits(parts[1])
	if !ok {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "minutes must be two digits")
	}
	seconds, ok := parseTwoDigits(parts[2])
	if !ok {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "seconds must be two digits")
	}

	if hours > 23 {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "hours must be between 00 and 23")
	}
	if minutes > 59 {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "minutes must be between 00 and 59")
	}
	if seconds > 59 {
		return Offset{}, domain.ErrInvalidOffsetFormat(raw, "seconds must be between 00 and 59")
	}

	return Offset{seconds: hours*3600 + minutes*60 + seconds}, nil
}

// MustParseOffset is ParseOffset for compile-time constants; it panics on bad input
func MustParseOffset(raw string) Offset {
	off, err := ParseOffset(raw)
	if err != nil {
		panic(err)
	}
	return off
}

// NewOffsetFromSeconds builds an offset from a seconds-after-midnight count
func NewOffsetFromSeconds(seconds int) (Offset, error) {
	if seconds < 0 || seconds >= SecondsPerDay {
		return Offset{}, domain.ErrInvalidOffsetFormat(fmt.Sprintf("%d", seconds), "seconds must be in [0, 86400)")
	}
	return Offset{seconds: seconds}, nil
}

// FormatOffset renders seconds after midnight as HH:MM:SS
func FormatOffset(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Seconds returns the offset in seconds after UTC midnight
func (o Offset) Seconds() int {
	return o.seconds
}

// Duration returns the offset as a time-of-day duration
func (o Offset) Duration() time.Duration {
	return time.Duration(o.seconds) * time.Second
}

// Equal reports whether both offsets name the same cutover
func (o Offset) Equal(other Offset) bool {
	return o.seconds == other.seconds
}

// String renders the offset as HH:MM:SS
func (o Offset) String() string {
	return FormatOffset(o.seconds)
}

// MarshalText implements encoding.TextMarshaler so offsets serialize as HH:MM:SS
func (o Offset) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Offset) UnmarshalText(text []byte) error {
	parsed, err := ParseOffset(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func parseTwoDigits(s string) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
