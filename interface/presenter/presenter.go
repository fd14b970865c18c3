package presenter

import (
	"time"

	usecase "github.com/ca-srg/opday/usecase/interface"
)

// SameDayResult is the answer to a same-operating-day question
type SameDayResult struct {
	A    time.Time `json:"a"`
	B    time.Time `json:"b"`
	KeyA string    `json:"key_a"`
	KeyB string    `json:"key_b"`
	Same bool      `json:"same"`
}

// BoundaryPresenter renders boundary query results
type BoundaryPresenter interface {
	PrintDay(day *usecase.DaySnapshot) error
	PrintWeek(week *usecase.WeekSnapshot) error
	PrintSameDay(result *SameDayResult) error
	PrintCacheStatus(status usecase.CacheStatus, stats usecase.CacheStats) error

	// PrintConfig prints an exported (secret-masked) configuration
	PrintConfig(config map[string]interface{}) error

	// PrintMessage prints the outcome of an action command
	PrintMessage(action string, message string) error
}

// ConsolePresenter handles console output formatting
type ConsolePresenter interface {
	BoundaryPresenter

	PrintVersion(version string)
	PrintError(err error)
}

// JSONPresenter handles JSON output formatting
type JSONPresenter interface {
	BoundaryPresenter

	PrintError(err error) error
}
