package resilience

import (
	"errors"
	"sync"
	"time"
)

// BreakerState represents the current state of the circuit breaker
type BreakerState int

const (
	// BreakerClosed - requests flow normally
	BreakerClosed BreakerState = iota
	// BreakerOpen - requests fail immediately
	BreakerOpen
	// BreakerHalfOpen - a probe request tests whether the endpoint recovered
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrBreakerOpen is returned when the circuit is open
	ErrBreakerOpen = errors.New("circuit breaker is open")
	// ErrBreakerProbing is returned when the half-open probe slot is taken
	ErrBreakerProbing = errors.New("circuit breaker is probing")
)

// BreakerConfig configures circuit breaker behavior.
//
// The breaker guards a financial endpoint: it only ever rejects calls, it
// never replays them. A signed payment request must not be retried blindly,
// so recovery happens through fresh caller-initiated requests.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening
	MaxFailures uint32
	// CoolDown is how long the circuit stays open before allowing a probe
	CoolDown time.Duration
	// MaxProbes is the number of concurrent requests allowed in half-open
	MaxProbes uint32
}

// DefaultBreakerConfig returns sensible defaults for a payment gateway
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		CoolDown:    30 * time.Second,
		MaxProbes:   1,
	}
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	mu         sync.RWMutex
	state      BreakerState
	failures   uint32
	probes     uint32
	lastChange time.Time
	config     BreakerConfig
}

// NewBreaker creates a circuit breaker in the closed state
func NewBreaker(config BreakerConfig) *Breaker {
	return &Breaker{
		state:      BreakerClosed,
		lastChange: time.Now(),
		config:     config,
	}
}

// Call executes fn if the circuit allows it and records the result. fn runs
// at most once; an open circuit fails fast with ErrBreakerOpen.
func (b *Breaker) Call(fn func() error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	err := fn()
	b.afterCall(err)
	return err
}

func (b *Breaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return nil

	case BreakerOpen:
		if time.Since(b.lastChange) > b.config.CoolDown {
			b.setState(BreakerHalfOpen)
			b.probes++
			return nil
		}
		return ErrBreakerOpen

	case BreakerHalfOpen:
		if b.probes >= b.config.MaxProbes {
			return ErrBreakerProbing
		}
		b.probes++
		return nil

	default:
		return ErrBreakerOpen
	}
}

func (b *Breaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.onFailure()
		return
	}
	b.onSuccess()
}

func (b *Breaker) onFailure() {
	b.failures++

	switch b.state {
	case BreakerClosed:
		if b.failures >= b.config.MaxFailures {
			b.setState(BreakerOpen)
		}
	case BreakerHalfOpen:
		// A failed probe reopens the circuit
		b.setState(BreakerOpen)
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case BreakerHalfOpen:
		b.setState(BreakerClosed)
	case BreakerClosed:
		b.failures = 0
	}
}

func (b *Breaker) setState(next BreakerState) {
	if b.state == next {
		return
	}
	b.state = next
	b.lastChange = time.Now()
	b.failures = 0
	b.probes = 0
}

// State returns the current circuit state
func (b *Breaker) State() BreakerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Reset returns the breaker to the closed state
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
	b.probes = 0
	b.lastChange = time.Now()
}
