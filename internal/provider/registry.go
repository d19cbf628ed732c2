package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"seam/internal/httputil"
	"seam/internal/log"
	"seam/internal/media"
	"seam/internal/metrics"
)

// Registry maps platform keys to providers.
// Adding a platform never requires changes to callers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Default returns a registry with every built-in platform sharing one client.
func Default(client *httputil.Client) *Registry {
	r := NewRegistry()
	r.Register(NewBilibili(client))
	r.Register(NewYQS173(client))
	return r
}

// Register adds a provider, replacing any previous one with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get finds a provider by platform key.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns all registered platform keys, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.providers)
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// PlaybackHeaders returns the headers a player should send for streams of
// platform. It is empty for platforms without requirements.
func (r *Registry) PlaybackHeaders(platform string) map[string]string {
	p, ok := r.Get(platform)
	if !ok {
		return map[string]string{}
	}
	if ph, ok := p.(PlaybackHeaderer); ok {
		return ph.PlaybackHeaders()
	}
	return map[string]string{}
}

// Resolve dispatches to the named provider and records the outcome.
// No retry and no fallback to another platform happens here.
func (r *Registry) Resolve(ctx context.Context, platform, roomID string, headers map[string]string) (*media.Node, error) {
	p, ok := r.Get(platform)
	if !ok {
		metrics.ResolveTotal.WithLabelValues("unknown", OutcomeUnknownPlatform).Inc()
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownPlatform, platform, r.Names())
	}

	start := time.Now()
	node, err := p.Resolve(ctx, roomID, headers)
	elapsed := time.Since(start)

	outcome := Classify(err)
	metrics.ResolveTotal.WithLabelValues(platform, outcome).Inc()
	metrics.ResolveDuration.WithLabelValues(platform).Observe(elapsed.Seconds())

	entry := log.WithFields(log.Fields{
		"platform": platform,
		"room":     roomID,
		"outcome":  outcome,
		"elapsed":  elapsed.Round(time.Millisecond).String(),
	})

	switch outcome {
	case OutcomeLive:
		node.Platform = platform
		entry.WithField("urls", len(node.URLs)).Debug("room resolved")
	case OutcomeNotLive:
		entry.Debug("room not live")
	default:
		entry.WithError(err).Warn("resolution failed")
	}

	return node, err
}
