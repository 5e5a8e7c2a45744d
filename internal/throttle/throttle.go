// Package throttle implements a per-client sliding-window rate limiter.
// Heavy generation features get a stricter limit than ordinary ones.
package throttle

import (
	"math"
	"sync"
	"time"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
)

// Default limits: 3 requests per 60s window, 2 for heavy features.
const (
	DefaultWindow     = 60 * time.Second
	DefaultBaseLimit  = 3
	DefaultHeavyLimit = 2
)

// heavyFeatures are the features that consume enough provider compute to
// justify the stricter limit.
var heavyFeatures = map[models.Feature]bool{
	models.FeatureGenerateQuestions: true,
	models.FeatureGenerateAnswers:   true,
}

// Limiter admits or rejects requests per client key. Each Limiter owns
// its window store, so tests and parallel instances are fully isolated.
// Safe for concurrent use.
type Limiter struct {
	mu         sync.Mutex
	seen       map[string][]time.Time
	window     time.Duration
	baseLimit  int
	heavyLimit int
	now        func() time.Time
}

// New returns a Limiter with the default window and limits.
func New() *Limiter {
	return &Limiter{
		seen:       make(map[string][]time.Time),
		window:     DefaultWindow,
		baseLimit:  DefaultBaseLimit,
		heavyLimit: DefaultHeavyLimit,
		now:        time.Now,
	}
}

// Admit records the request for clientKey if it fits the applicable
// limit, or rejects it with a rate-limited fault carrying
// retry_after_seconds. The prune-check-append sequence runs under the
// lock so concurrent requests from one key can never exceed the limit.
func (l *Limiter) Admit(clientKey string, feature models.Feature) error {
	limit := l.baseLimit
	if heavyFeatures[feature] {
		limit = l.heavyLimit
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.seen[clientKey]
	pruned := history[:0]
	for _, ts := range history {
		if now.Sub(ts) < l.window {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= limit {
		l.seen[clientKey] = pruned
		// Oldest remaining timestamp leaves the window first; waiting
		// out the advertised seconds always frees a slot.
		wait := l.window - now.Sub(pruned[0])
		retry := int(math.Ceil(wait.Seconds()))
		if retry < 1 {
			retry = 1
		}
		return fault.RateLimited(retry)
	}

	l.seen[clientKey] = append(pruned, now)
	return nil
}
