package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

const launchDarklySourceName = "launchdarkly"

// flagEvaluator is the part of the LaunchDarkly client this source uses
type flagEvaluator interface {
	StringVariation(key string, context ldcontext.Context, defaultVal string) (string, error)
	Initialized() bool
	Close() error
}

// LaunchDarklyOffsetSourceRepository reads the cutover from a string feature flag
type LaunchDarklyOffsetSourceRepository struct {
	client  flagEvaluator
	flagKey string
	context ldcontext.Context
}

// NewLaunchDarklyOffsetSourceRepository connects a LaunchDarkly client. A client
// that has not finished initializing is kept: it keeps connecting in the
// background and evaluations fail over to the cache fallback until it does.
func NewLaunchDarklyOffsetSourceRepository(cfg *config.LaunchDarklySourceConfig) (*LaunchDarklyOffsetSourceRepository, error) {
	if cfg == nil || cfg.SDKKey == "" {
		return nil, domain.ErrInvalidInput("launchdarkly.sdk_key", "the launchdarkly source requires an SDK key")
	}

	client, err := ld.MakeClient(cfg.SDKKey, time.Duration(cfg.ConnectTimeoutSec)*time.Second)
	if client == nil {
		return nil, fmt.Errorf("failed to create LaunchDarkly client: %w", err)
	}

	return NewLaunchDarklyOffsetSourceWithClient(client, cfg), nil
}

// NewLaunchDarklyOffsetSourceWithClient wraps an existing flag evaluator
func NewLaunchDarklyOffsetSourceWithClient(client flagEvaluator, cfg *config.LaunchDarklySourceConfig) *LaunchDarklyOffsetSourceRepository {
	return &LaunchDarklyOffsetSourceRepository{
		client:  client,
		flagKey: cfg.FlagKey,
		context: ldcontext.NewWithKind(ldcontext.Kind(cfg.ContextKind), cfg.ContextKey),
	}
}

func (r *LaunchDarklyOffsetSourceRepository) Name() string {
	return launchDarklySourceName
}

// FetchOffset evaluates the cutover flag. The SDK evaluates from its local
// flag store, so ctx is only checked up front.
func (r *LaunchDarklyOffsetSourceRepository) FetchOffset(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(launchDarklySourceName, err)
	}

	if !r.client.Initialized() {
		return "", domain.ErrConfigFetchFailed(launchDarklySourceName, "client is not initialized")
	}

	value, err := r.client.StringVariation(r.flagKey, r.context, "")
	if err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(launchDarklySourceName, err).
			WithDetails("flag", r.flagKey)
	}
	if value == "" {
		return "", domain.ErrConfigFetchFailed(launchDarklySourceName, fmt.Sprintf("flag %q has no value", r.flagKey))
	}

	return value, nil
}

// Close shuts the LaunchDarkly client down
func (r *LaunchDarklyOffsetSourceRepository) Close() error {
	return r.client.Close()
}
