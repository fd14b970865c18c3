package presenter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ca-srg/opday/domain"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

// JSONPresenterImpl implements JSONPresenter for JSON output
type JSONPresenterImpl struct {
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	return NewJSONPresenterWithWriter(os.Stdout)
}

// NewJSONPresenterWithWriter creates a JSON presenter writing to w
func NewJSONPresenterWithWriter(w io.Writer) *JSONPresenterImpl {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		encoder: encoder,
	}
}

// PrintDay prints the operating day snapshot as JSON
func (p *JSONPresenterImpl) PrintDay(day *usecase.DaySnapshot) error {
	return p.encoder.Encode(day)
}

// PrintWeek prints the operating week snapshot as JSON
func (p *JSONPresenterImpl) PrintWeek(week *usecase.WeekSnapshot) error {
	return p.encoder.Encode(week)
}

// PrintSameDay prints the same-day answer as JSON
func (p *JSONPresenterImpl) PrintSameDay(result *SameDayResult) error {
	return p.encoder.Encode(result)
}

// PrintCacheStatus prints the cache state and counters as JSON
func (p *JSONPresenterImpl) PrintCacheStatus(status usecase.CacheStatus, stats usecase.CacheStats) error {
	data := map[string]interface{}{
		"status": status,
		"stats":  stats,
	}
	return p.encoder.Encode(data)
}

// PrintConfig prints the exported configuration as JSON
func (p *JSONPresenterImpl) PrintConfig(config map[string]interface{}) error {
	return p.encoder.Encode(config)
}

// PrintMessage prints an action result as JSON
func (p *JSONPresenterImpl) PrintMessage(action string, message string) error {
	data := map[string]interface{}{
		"action":  action,
		"message": message,
	}
	return p.encoder.Encode(data)
}

// PrintError prints an error as JSON, including its domain error code when present
func (p *JSONPresenterImpl) PrintError(err error) error {
	data := map[string]interface{}{
		"error": err.Error(),
	}
	if code := domain.GetErrorCode(err); code != "" {
		data["code"] = code
	}
	return p.encoder.Encode(data)
}
