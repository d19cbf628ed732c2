// Package batch resolves many rooms concurrently on a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"seam/internal/media"
	"seam/internal/provider"
)

// DefaultWorkers bounds concurrent resolutions when the caller passes 0.
const DefaultWorkers = 4

// Resolver is the subset of the provider registry batch needs.
type Resolver interface {
	Resolve(ctx context.Context, platform, roomID string, headers map[string]string) (*media.Node, error)
}

// Target names one room on one platform.
type Target struct {
	Platform string `json:"platform"`
	Room     string `json:"room"`
}

func (t Target) String() string { return t.Platform + ":" + t.Room }

// ParseTarget parses "platform:room".
func ParseTarget(s string) (Target, error) {
	platform, room, ok := strings.Cut(s, ":")
	if !ok || platform == "" || room == "" {
		return Target{}, fmt.Errorf("malformed target %q (want platform:room)", s)
	}
	return Target{Platform: platform, Room: room}, nil
}

// Result is the outcome of resolving one Target.
type Result struct {
	Target
	Outcome string      `json:"outcome"`
	Node    *media.Node `json:"node,omitempty"`
	Error   string      `json:"error,omitempty"`

	Err error `json:"-"`
}

// Run resolves every target with at most workers in flight. Results keep
// the order of targets. Per-target failures are reported in the Result;
// the returned error covers only pool setup.
func Run(ctx context.Context, r Resolver, targets []Target, workers int, headersFor func(string) map[string]string) ([]Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if headersFor == nil {
		headersFor = func(string) map[string]string { return nil }
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]Result, len(targets))
	var wg sync.WaitGroup

	for i, t := range targets {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			node, err := r.Resolve(ctx, t.Platform, t.Room, headersFor(t.Platform))
			results[i] = newResult(t, node, err)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			results[i] = newResult(t, nil, err)
		}
	}

	wg.Wait()
	return results, nil
}

func newResult(t Target, node *media.Node, err error) Result {
	res := Result{Target: t, Outcome: provider.Classify(err), Node: node, Err: err}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
