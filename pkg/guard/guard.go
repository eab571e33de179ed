package guard

import (
	"strings"
	"sync"
	"time"
)

// Guard is the admission layer in front of externally reachable endpoints.
// It combines a host allow-list, static rejection of known scanner traffic,
// and a sliding-window rate limit with escalating, time-boxed blocking per
// caller address. Each key's state is independent; a single mutex guards the
// record table.
type Guard struct {
	cfg     Config
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

type Config struct {
	// AllowedHosts is the exact-match allow-list of target hosts. Empty
	// disables host filtering.
	AllowedHosts []string

	// DeniedPathPatterns are path substrings rejected before any rate
	// accounting (probe targets such as ".env" or "wp-admin").
	DeniedPathPatterns []string

	// DeniedAgentPatterns are caller-agent substrings of known scanners.
	DeniedAgentPatterns []string

	MaxRequests   int
	Window        time.Duration
	MaxViolations int
	BlockDuration time.Duration
}

// DefaultConfig returns the guard configuration used when no overrides are
// given.
func DefaultConfig() Config {
	return Config{
		DeniedPathPatterns: []string{
			".env", ".git", ".aws", "wp-admin", "wp-login",
			"phpmyadmin", "id_rsa", "config.php",
		},
		DeniedAgentPatterns: []string{
			"sqlmap", "nikto", "nuclei", "masscan", "zgrab", "nmap",
		},
		MaxRequests:   30,
		Window:        time.Minute,
		MaxViolations: 3,
		BlockDuration: 10 * time.Minute,
	}
}

// record tracks one admission key. States: normal (no block, violations
// below threshold), warned (violations > 0), blocked (blockedUntil in the
// future). A record whose window is empty and whose block has expired is
// dropped lazily.
type record struct {
	timestamps   []time.Time
	violations   int
	blockedUntil time.Time
}

type Verdict string

const (
	VerdictAllowed     Verdict = "allowed"
	VerdictUnknownHost Verdict = "unknown_host"
	VerdictDeniedPath  Verdict = "denied_path"
	VerdictDeniedAgent Verdict = "denied_agent"
	VerdictRateLimited Verdict = "rate_limited"
	VerdictBlocked     Verdict = "blocked"
)

// Decision is the admission outcome for one request.
type Decision struct {
	Verdict    Verdict
	RetryAfter time.Duration
}

func (x Decision) Allowed() bool {
	return x.Verdict == VerdictAllowed
}

type Option func(*Guard)

// WithNow injects the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

func New(cfg Config, options ...Option) *Guard {
	g := &Guard{
		cfg:     cfg,
		records: make(map[string]*record),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Check admits or rejects a request. key is the caller address; host, path
// and agent come from the request envelope. Static rejections happen before
// any rate accounting so scanner noise never touches the record table.
func (x *Guard) Check(key, host, path, agent string) Decision {
	if !x.hostAllowed(host) {
		return Decision{Verdict: VerdictUnknownHost}
	}

	lowerPath := strings.ToLower(path)
	for _, pattern := range x.cfg.DeniedPathPatterns {
		if strings.Contains(lowerPath, pattern) {
			return Decision{Verdict: VerdictDeniedPath}
		}
	}

	lowerAgent := strings.ToLower(agent)
	for _, pattern := range x.cfg.DeniedAgentPatterns {
		if strings.Contains(lowerAgent, pattern) {
			return Decision{Verdict: VerdictDeniedAgent}
		}
	}

	return x.admit(key)
}

func (x *Guard) hostAllowed(host string) bool {
	if len(x.cfg.AllowedHosts) == 0 {
		return true
	}
	for _, allowed := range x.cfg.AllowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}

func (x *Guard) admit(key string) Decision {
	x.mu.Lock()
	defer x.mu.Unlock()

	now := x.now()
	rec, ok := x.records[key]
	if !ok {
		rec = &record{}
		x.records[key] = rec
	}

	// An expired block resets the key to normal lazily on next access
	if !rec.blockedUntil.IsZero() {
		if now.Before(rec.blockedUntil) {
			return Decision{
				Verdict:    VerdictBlocked,
				RetryAfter: rec.blockedUntil.Sub(now),
			}
		}
		rec.blockedUntil = time.Time{}
		rec.violations = 0
		rec.timestamps = nil
	}

	// Drop timestamps that slid out of the window
	cutoff := now.Add(-x.cfg.Window)
	kept := rec.timestamps[:0]
	for _, ts := range rec.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	rec.timestamps = kept

	if len(rec.timestamps) >= x.cfg.MaxRequests {
		rec.violations++
		if rec.violations >= x.cfg.MaxViolations {
			rec.blockedUntil = now.Add(x.cfg.BlockDuration)
			return Decision{
				Verdict:    VerdictBlocked,
				RetryAfter: x.cfg.BlockDuration,
			}
		}
		return Decision{
			Verdict:    VerdictRateLimited,
			RetryAfter: x.cfg.Window,
		}
	}

	rec.timestamps = append(rec.timestamps, now)

	x.collect(now)
	return Decision{Verdict: VerdictAllowed}
}

// collect drops records whose window emptied and whose block expired.
func (x *Guard) collect(now time.Time) {
	cutoff := now.Add(-x.cfg.Window)
	for key, rec := range x.records {
		if !rec.blockedUntil.IsZero() && now.Before(rec.blockedUntil) {
			continue
		}
		live := false
		for _, ts := range rec.timestamps {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(x.records, key)
		}
	}
}
