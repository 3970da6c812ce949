package domain

import (
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// VersionLayout is the layout of cache-busting version tokens (yyMMdd-HHmm).
	VersionLayout = "060102-1504"

	// NoExpires is the version token for content that is served without expiry headers.
	NoExpires = "no-expires"

	// SameStartupWindow is how close a token must be to a known start time to be current.
	SameStartupWindow = 5 * time.Minute

	// RetentionWindow is how far a token may lag behind the known start times before it is gone.
	RetentionWindow = 7 * 24 * time.Hour

	// peerHorizon bounds the initial peer start time; tokens carry a two-digit year.
	peerHorizon = 10 * 365 * 24 * time.Hour
)

// VersionGate decides whether a cache-busting token is current.
// It tracks the start time of this process and the newest start time observed
// from a peer process, so that tokens minted by either stay valid.
type VersionGate struct {
	started time.Time
	token   string

	mu   sync.Mutex
	peer time.Time
}

// NewVersionGate creates a gate for a process started at the given time.
func NewVersionGate(started time.Time) *VersionGate {
	started = started.UTC()
	return &VersionGate{
		started: started,
		token:   started.Format(VersionLayout),
		peer:    started.Add(-peerHorizon),
	}
}

// Token returns the version token of this process.
func (g *VersionGate) Token() string {
	return g.token
}

// Started returns the start time of this process.
func (g *VersionGate) Started() time.Time {
	return g.started
}

// Peer returns the newest start time observed from another process.
func (g *VersionGate) Peer() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peer
}

// Check validates a version token.
// It reports whether the response may carry expiry headers. Tokens that cannot be
// parsed fail with ErrInvalidVersion; tokens older than the retention window fail
// with ErrStaleVersion.
func (g *VersionGate) Check(token string) (bool, error) {
	if token == NoExpires {
		return false, nil
	}
	if token == g.token {
		return true, nil
	}

	date, err := time.ParseInLocation(VersionLayout, token, time.UTC)
	if err != nil {
		return false, zerr.With(zerr.Wrap(ErrInvalidVersion, "check version"), "version", token)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case sameStartup(g.started, date) || sameStartup(g.peer, date):
		return true, nil
	case date.After(g.peer):
		g.peer = date
		return true, nil
	default:
		oldest := g.peer
		if g.started.Before(oldest) {
			oldest = g.started
		}
		if oldest.Sub(date) > RetentionWindow {
			return false, zerr.With(zerr.Wrap(ErrStaleVersion, "check version"), "version", token)
		}
		return true, nil
	}
}

func sameStartup(left, right time.Time) bool {
	diff := left.Sub(right)
	if diff < 0 {
		diff = -diff
	}
	return diff < SameStartupWindow
}
