package presenter

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/valueobject"
	usecase "github.com/ca-srg/opday/usecase/interface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDay() *usecase.DaySnapshot {
	start := time.Date(2026, 3, 9, 3, 0, 0, 0, time.UTC)
	return &usecase.DaySnapshot{
		At:               time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC),
		Offset:           valueobject.MustParseOffset("03:00:00"),
		Key:              "2026-03-09",
		Window:           valueobject.NewBoundaryWindow(start, 24*time.Hour),
		NextReset:        start.Add(24 * time.Hour),
		MillisUntilReset: 3600000,
		Countdown:        "1h 0m",
	}
}

func TestConsolePresenter_PrintDay(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &out)

	require.NoError(t, p.PrintDay(sampleDay()))

	text := out.String()
	assert.Contains(t, text, "Operating day 2026-03-09")
	assert.Contains(t, text, "03:00:00 UTC")
	assert.Contains(t, text, "2026-03-10 03:00:00.000 UTC (in 1h 0m)")
	assert.Contains(t, text, "2026-03-10 02:59:59.999 UTC")
}

func TestConsolePresenter_PrintWeek(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &out)

	start := time.Date(2026, 3, 9, 3, 0, 0, 0, time.UTC)
	err := p.PrintWeek(&usecase.WeekSnapshot{
		At:        start.Add(time.Hour),
		Offset:    valueobject.MustParseOffset("03:00:00"),
		Key:       "2026-03-09",
		Window:    valueobject.NewBoundaryWindow(start, 7*24*time.Hour),
		Alignment: "operating-day",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(Monday)")
	assert.Contains(t, out.String(), "operating-day")
}

func TestConsolePresenter_PrintSameDay(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &out)

	require.NoError(t, p.PrintSameDay(&SameDayResult{KeyA: "2026-03-09", KeyB: "2026-03-10"}))
	assert.Contains(t, out.String(), "different operating days")

	out.Reset()
	require.NoError(t, p.PrintSameDay(&SameDayResult{KeyA: "2026-03-09", KeyB: "2026-03-09", Same: true}))
	assert.Contains(t, out.String(), "same operating day")
}

func TestConsolePresenter_PrintCacheStatus(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &out)

	require.NoError(t, p.PrintCacheStatus(usecase.CacheStatus{
		Source:      "http",
		LastOutcome: usecase.CacheOutcomeNone,
		TTL:         5 * time.Minute,
	}, usecase.CacheStats{Failures: 2}))

	text := out.String()
	assert.Contains(t, text, "(none)")
	assert.Contains(t, text, "never")
	assert.Contains(t, text, "TTL 5m0s")
	assert.Contains(t, text, "Failures:")
}

func TestConsolePresenter_PrintConfig(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &out)

	require.NoError(t, p.PrintConfig(map[string]interface{}{
		"offset":   map[string]interface{}{"source": "static", "default": "00:00:00"},
		"_sources": map[string]string{"Offset.Source": "env", "Offset.Default": "default"},
	}))

	text := out.String()
	assert.Contains(t, text, "offset:\n  default: 00:00:00\n  source: static\n")
	assert.Contains(t, text, "Offset.Source (env)")
	assert.NotContains(t, text, "Offset.Default (")
}

func TestConsolePresenter_PrintError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewConsolePresenterWithWriters(&out, &errOut)

	p.PrintError(errors.New("boom"))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error: boom\n", errOut.String())
}

func TestJSONPresenter_PrintDay(t *testing.T) {
	var out bytes.Buffer
	p := NewJSONPresenterWithWriter(&out)

	require.NoError(t, p.PrintDay(sampleDay()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "03:00:00", decoded["cutover"])
	assert.Equal(t, "2026-03-09", decoded["key"])
	assert.Equal(t, float64(3600000), decoded["millis_until_reset"])

	window := decoded["window"].(map[string]interface{})
	assert.Equal(t, "2026-03-09T03:00:00Z", window["start"])
}

func TestJSONPresenter_PrintError(t *testing.T) {
	var out bytes.Buffer
	p := NewJSONPresenterWithWriter(&out)

	require.NoError(t, p.PrintError(domain.ErrInvalidInstant("", "instant is zero")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "INVALID_INSTANT", decoded["code"])

	out.Reset()
	require.NoError(t, p.PrintError(errors.New("plain")))
	decoded = nil
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	_, hasCode := decoded["code"]
	assert.False(t, hasCode)
}
