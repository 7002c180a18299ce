package client

import (
	"errors"
	"sync"
	"time"
)

// ErrSequencerUnavailable 表示 breaker 处于冷却期，请求未发出。
var ErrSequencerUnavailable = errors.New("sequencer temporarily unavailable")

// breakerState 表示 sequencer 当前健康状况。
type breakerState string

const (
	stateHealthy  breakerState = "healthy"
	stateDegraded breakerState = "degraded"
	stateProbing  breakerState = "probing"
)

// circuitBreaker 在连续的传输层或 5xx 失败后短时间拒绝提交，冷却后放行一次探测。
type circuitBreaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu         sync.Mutex
	state      breakerState
	failures   int
	lastChange time.Time
}

func newCircuitBreaker(threshold int, cooldown time.Duration, now func() time.Time) *circuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &circuitBreaker{
		threshold:  threshold,
		cooldown:   cooldown,
		now:        now,
		state:      stateHealthy,
		lastChange: now(),
	}
}

func (cb *circuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case stateDegraded:
		if cb.now().Sub(cb.lastChange) < cb.cooldown {
			return false
		}
		cb.state = stateProbing
		cb.lastChange = cb.now()
		return true
	case stateProbing:
		return false
	default:
		return true
	}
}

func (cb *circuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	if cb.state != stateHealthy {
		cb.state = stateHealthy
		cb.lastChange = cb.now()
	}
}

func (cb *circuitBreaker) Failure() (tripped bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.state == stateProbing || (cb.state == stateHealthy && cb.failures >= cb.threshold) {
		cb.state = stateDegraded
		cb.lastChange = cb.now()
		return true
	}
	return false
}

func (cb *circuitBreaker) State() breakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
