package presenter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	usecase "github.com/ca-srg/opday/usecase/interface"
)

const consoleTimeLayout = "2006-01-02 15:04:05.000 MST"

// ConsolePresenterImpl implements ConsolePresenter for terminal output
type ConsolePresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter() *ConsolePresenterImpl {
	return NewConsolePresenterWithWriters(os.Stdout, os.Stderr)
}

// NewConsolePresenterWithWriters creates a console presenter writing to the given writers
func NewConsolePresenterWithWriters(writer, errWriter io.Writer) *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer:    writer,
		errWriter: errWriter,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion(version string) {
	_, _ = fmt.Fprintf(p.writer, "opday version %s\n", version)
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	_, _ = fmt.Fprintf(p.errWriter, "Error: %v\n", err)
}

// PrintDay prints the operating day containing an instant
func (p *ConsolePresenterImpl) PrintDay(day *usecase.DaySnapshot) error {
	_, _ = fmt.Fprintf(p.writer, "Operating day %s\n", day.Key)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 50))

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "At:\t%s\n", p.formatTime(day.At))
	_, _ = fmt.Fprintf(w, "Cutover:\t%s UTC\n", day.Offset)
	_, _ = fmt.Fprintf(w, "Starts:\t%s\n", p.formatTime(day.Window.Start))
	_, _ = fmt.Fprintf(w, "Ends:\t%s\n", p.formatTime(day.Window.End))
	_, _ = fmt.Fprintf(w, "Next reset:\t%s (in %s)\n", p.formatTime(day.NextReset), day.Countdown)
	return w.Flush()
}

// PrintWeek prints the operating week containing an instant
func (p *ConsolePresenterImpl) PrintWeek(week *usecase.WeekSnapshot) error {
	_, _ = fmt.Fprintf(p.writer, "Operating week %s\n", week.Key)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 50))

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "At:\t%s\n", p.formatTime(week.At))
	_, _ = fmt.Fprintf(w, "Cutover:\t%s UTC\n", week.Offset)
	_, _ = fmt.Fprintf(w, "Alignment:\t%s\n", week.Alignment)
	_, _ = fmt.Fprintf(w, "Starts:\t%s (%s)\n", p.formatTime(week.Window.Start), week.Window.Start.Weekday())
	_, _ = fmt.Fprintf(w, "Ends:\t%s\n", p.formatTime(week.Window.End))
	return w.Flush()
}

// PrintSameDay prints whether two instants share an operating day
func (p *ConsolePresenterImpl) PrintSameDay(result *SameDayResult) error {
	verdict := "different operating days"
	if result.Same {
		verdict = "same operating day"
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\n", p.formatTime(result.A), result.KeyA)
	_, _ = fmt.Fprintf(w, "%s\t%s\n", p.formatTime(result.B), result.KeyB)
	if err := w.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(p.writer, "Result: %s\n", verdict)
	return nil
}

// PrintCacheStatus prints the cutover cache state and counters
func (p *ConsolePresenterImpl) PrintCacheStatus(status usecase.CacheStatus, stats usecase.CacheStats) error {
	_, _ = fmt.Fprintln(p.writer, "Cutover cache")
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 50))

	cached := "(none)"
	if status.Offset != nil {
		cached = status.Offset.String()
	}
	fetchedAt := "never"
	if !status.FetchedAt.IsZero() {
		fetchedAt = p.formatTime(status.FetchedAt)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Source:\t%s\n", status.Source)
	_, _ = fmt.Fprintf(w, "Cutover:\t%s\n", cached)
	_, _ = fmt.Fprintf(w, "Fetched at:\t%s\n", fetchedAt)
	_, _ = fmt.Fprintf(w, "Fresh:\t%t (TTL %s)\n", status.Fresh, status.TTL)
	_, _ = fmt.Fprintf(w, "Last outcome:\t%s\n", status.LastOutcome)
	if status.LastError != "" {
		_, _ = fmt.Fprintf(w, "Last error:\t%s\n", status.LastError)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Hits:\t%d\n", stats.Hits)
	_, _ = fmt.Fprintf(w, "Fetches:\t%d\n", stats.Fetches)
	_, _ = fmt.Fprintf(w, "Failures:\t%d\n", stats.Failures)
	_, _ = fmt.Fprintf(w, "Fallbacks:\t%d\n", stats.Fallbacks)
	_, _ = fmt.Fprintf(w, "Invalidations:\t%d\n", stats.Invalidations)
	return w.Flush()
}

// PrintConfig prints configuration sections as indented key/value pairs
func (p *ConsolePresenterImpl) PrintConfig(config map[string]interface{}) error {
	sources, _ := config["_sources"].(map[string]string)

	keys := sortedKeys(config)
	for _, key := range keys {
		if key == "_sources" {
			continue
		}
		p.printConfigValue(key, config[key], 0)
	}

	if len(sources) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		_, _ = fmt.Fprintln(p.writer, "Overridden values:")
		fields := make([]string, 0, len(sources))
		for field, src := range sources {
			if src != "default" {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)
		for _, field := range fields {
			_, _ = fmt.Fprintf(p.writer, "  %s (%s)\n", field, sources[field])
		}
	}
	return nil
}

func (p *ConsolePresenterImpl) printConfigValue(key string, value interface{}, depth int) {
	indent := strings.Repeat("  ", depth)
	section, ok := value.(map[string]interface{})
	if !ok {
		_, _ = fmt.Fprintf(p.writer, "%s%s: %v\n", indent, key, value)
		return
	}

	_, _ = fmt.Fprintf(p.writer, "%s%s:\n", indent, key)
	for _, k := range sortedKeys(section) {
		p.printConfigValue(k, section[k], depth+1)
	}
}

// PrintMessage prints the outcome of an action command
func (p *ConsolePresenterImpl) PrintMessage(action string, message string) error {
	_, _ = fmt.Fprintf(p.writer, "%s: %s\n", action, message)
	return nil
}

func (p *ConsolePresenterImpl) formatTime(t time.Time) string {
	return t.UTC().Format(consoleTimeLayout)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

