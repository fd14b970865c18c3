package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/service"
	"github.com/ca-srg/opday/domain/valueobject"
	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/ca-srg/opday/infrastructure/logging"
	"github.com/ca-srg/opday/infrastructure/repository"
	"github.com/ca-srg/opday/interface/presenter"
	"github.com/ca-srg/opday/usecase/impl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetricsService struct {
	sent    int
	started int
	stopped int
	sendErr error
}

func (f *fakeMetricsService) StartPeriodicMetrics() error { f.started++; return nil }
func (f *fakeMetricsService) StopPeriodicMetrics() error  { f.stopped++; return nil }
func (f *fakeMetricsService) SendCurrentMetrics(ctx context.Context) error {
	f.sent++
	return f.sendErr
}

type fakeConfigService struct {
	created bool
}

func (f *fakeConfigService) GetConfig() *config.AppConfig { return config.DefaultConfig() }
func (f *fakeConfigService) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	cfg := config.DefaultConfig()
	return cfg, cfg.ConfigSources
}
func (f *fakeConfigService) ReloadConfig() error   { return nil }
func (f *fakeConfigService) GetConfigPath() string { return "/tmp/opday/config.json" }
func (f *fakeConfigService) ExportConfig() map[string]interface{} {
	return map[string]interface{}{"offset": map[string]interface{}{"source": "static"}}
}
func (f *fakeConfigService) EnsureConfigExists() (bool, error) {
	created := !f.created
	f.created = true
	return created, nil
}

type testHarness struct {
	controller *CLIController
	out        *bytes.Buffer
	errOut     *bytes.Buffer
	metrics    *fakeMetricsService
}

func newHarness(t *testing.T, cutover string, now time.Time) *testHarness {
	t.Helper()
	logger := &logging.NoOpLogger{}
	clock := domain.FixedClock{At: now}
	source := repository.NewStaticOffsetSourceRepository(cutover)
	cache := impl.NewOffsetCache(source, clock, impl.OffsetCacheConfig{
		TTL:           time.Minute,
		DefaultOffset: valueobject.MustParseOffset("00:00:00"),
	}, logger)
	boundary := impl.NewBoundaryService(cache, source, clock, service.WeekAlignmentOperatingDay, logger)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	metrics := &fakeMetricsService{}
	controller := NewCLIController(
		boundary,
		metrics,
		&fakeConfigService{},
		presenter.NewConsolePresenterWithWriters(out, errOut),
		presenter.NewJSONPresenterWithWriter(out),
		logger,
		"test",
	)
	return &testHarness{controller: controller, out: out, errOut: errOut, metrics: metrics}
}

func TestCLIController_Now(t *testing.T) {
	h := newHarness(t, "03:00:00", time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))

	require.NoError(t, h.controller.Run(context.Background(), nil))
	assert.Contains(t, h.out.String(), "Operating day 2026-03-09")
	assert.Contains(t, h.out.String(), "(in 1h 0m)")
}

func TestCLIController_DayAtJSON(t *testing.T) {
	h := newHarness(t, "03:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	h.controller.SetJSONOutput(true)

	require.NoError(t, h.controller.Run(context.Background(), []string{"day", "--at", "2026-03-10T03:00:00Z"}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &decoded))
	assert.Equal(t, "2026-03-10", decoded["key"])
	assert.Equal(t, "03:00:00", decoded["cutover"])
}

func TestCLIController_DayByKey(t *testing.T) {
	h := newHarness(t, "03:00:00", time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))

	require.NoError(t, h.controller.Run(context.Background(), []string{"day", "--key", "2026-03-11"}))
	assert.Contains(t, h.out.String(), "Operating day 2026-03-11")
	assert.Contains(t, h.out.String(), "2026-03-11 03:00:00.000 UTC")
	assert.Contains(t, h.out.String(), "(in 49h 0m)")

	err := h.controller.Run(context.Background(), []string{"day", "--key", "11/03/2026"})
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))

	err = h.controller.Run(context.Background(), []string{"day", "--key", "2026-03-11", "--at", "2026-03-10T00:00:00Z"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCLIController_Week(t *testing.T) {
	h := newHarness(t, "03:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	// Monday 02:00 still belongs to the previous operating week
	require.NoError(t, h.controller.Run(context.Background(), []string{"week", "--at", "2026-03-09T02:00:00Z"}))
	assert.Contains(t, h.out.String(), "Operating week 2026-W10")
	assert.Contains(t, h.out.String(), "2026-03-02 03:00:00.000 UTC (Monday)")
}

func TestCLIController_SameDay(t *testing.T) {
	h := newHarness(t, "03:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	h.controller.SetJSONOutput(true)

	require.NoError(t, h.controller.Run(context.Background(),
		[]string{"same-day", "2026-03-10T02:59:59Z", "2026-03-10T03:00:00Z"}))

	var decoded presenter.SameDayResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &decoded))
	assert.False(t, decoded.Same)
	assert.Equal(t, "2026-03-09", decoded.KeyA)
	assert.Equal(t, "2026-03-10", decoded.KeyB)
}

func TestCLIController_StatusAndInvalidate(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	require.NoError(t, h.controller.Run(context.Background(), []string{"status"}))
	assert.Contains(t, h.out.String(), "Source:")
	assert.Contains(t, h.out.String(), "static")
	assert.Contains(t, h.out.String(), "05:00:00")

	h.out.Reset()
	require.NoError(t, h.controller.Run(context.Background(), []string{"invalidate"}))
	assert.Contains(t, h.out.String(), "invalidate: cutover is 05:00:00 (fetched from static)")
}

func TestCLIController_SetCutoverReadOnlySource(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	err := h.controller.Run(context.Background(), []string{"set-cutover", "06:00:00"})
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedOperation))
}

func TestCLIController_Metrics(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	require.NoError(t, h.controller.Run(context.Background(), []string{"push-metrics"}))
	assert.Equal(t, 1, h.metrics.sent)

	h.metrics.sendErr = errors.New("remote write down")
	assert.Error(t, h.controller.Run(context.Background(), []string{"push-metrics"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.controller.Run(ctx, []string{"serve"}))
	assert.Equal(t, 1, h.metrics.started)
	assert.Equal(t, 1, h.metrics.stopped)
}

func TestCLIController_Config(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	require.NoError(t, h.controller.Run(context.Background(), []string{"config", "init"}))
	assert.Contains(t, h.out.String(), "created /tmp/opday/config.json")

	h.out.Reset()
	require.NoError(t, h.controller.Run(context.Background(), []string{"config", "init"}))
	assert.Contains(t, h.out.String(), "already exists")

	h.out.Reset()
	require.NoError(t, h.controller.Run(context.Background(), []string{"config"}))
	assert.Contains(t, h.out.String(), "source: static")
}

func TestCLIController_UsageErrors(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	tests := [][]string{
		{"bogus"},
		{"same-day", "2026-03-10T00:00:00Z"},
		{"set-cutover"},
		{"day", "--nope"},
		{"config", "delete"},
	}
	for _, args := range tests {
		err := h.controller.Run(context.Background(), args)
		assert.ErrorIs(t, err, ErrUsage, "args %v", args)
	}
}

func TestCLIController_PrintErrorJSON(t *testing.T) {
	h := newHarness(t, "05:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	h.controller.SetJSONOutput(true)

	err := h.controller.Run(context.Background(), []string{"day", "--at", "yesterday"})
	require.Error(t, err)
	h.controller.PrintError(err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &decoded))
	assert.Equal(t, "INVALID_INSTANT", decoded["code"])
}

func TestParseInstant(t *testing.T) {
	got, err := ParseInstant("2026-03-10T05:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), got)

	got, err = ParseInstant("1773111600000")
	require.NoError(t, err)
	assert.Equal(t, int64(1773111600000), got.UnixMilli())

	_, err = ParseInstant("")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInstant))

	_, err = ParseInstant("10/03/2026")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInstant))
}
