// Package credpool rotates a fixed set of extraction-API credentials,
// tracking per-credential failure counts and cooldowns so a rate-limited key
// is rested while the rest of the pool keeps working.
package credpool

import (
	"sync"
	"time"
)

const (
	// failureThreshold is the consecutive-failure count at which a
	// credential enters cooldown.
	failureThreshold = 5
	// cooldownPeriod is how long a credential rests after hitting the
	// failure threshold.
	cooldownPeriod = 60 * time.Second
	// idleResetWindow clears a credential's failure count when it has not
	// been touched for this long.
	idleResetWindow = 5 * time.Minute
)

type credentialState struct {
	value         string
	lastUsedAt    time.Time
	failureCount  int
	cooldownUntil time.Time
}

// Pool hands out the next usable credential. All state transitions happen
// under one mutex; concurrent chunk workers serialize through it.
type Pool struct {
	mu       sync.Mutex
	creds    []credentialState
	now      func() time.Time
	degraded bool
}

// New creates a pool over the given credential values, preserving order.
func New(credentials []string) *Pool {
	return NewWithClock(credentials, time.Now)
}

// NewWithClock creates a pool with an injectable clock.
func NewWithClock(credentials []string, now func() time.Time) *Pool {
	p := &Pool{now: now}
	for _, c := range credentials {
		p.creds = append(p.creds, credentialState{value: c})
	}
	return p
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.creds)
}

// Acquire returns the next usable credential: the first one, in stable order,
// that is not cooling down and is below the failure threshold. A credential
// idle longer than the reset window has its failure count cleared before
// inspection. When every credential is exhausted or cooling down the pool
// hard-resets all state and returns the first credential; that guarantees
// forward progress but marks the pool degraded.
func (p *Pool) Acquire() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.creds) == 0 {
		return ""
	}

	now := p.now()
	for i := range p.creds {
		c := &p.creds[i]
		if now.Before(c.cooldownUntil) {
			continue
		}
		if !c.cooldownUntil.IsZero() {
			// Cooldown served; the credential starts fresh.
			c.failureCount = 0
			c.cooldownUntil = time.Time{}
		}
		if !c.lastUsedAt.IsZero() && now.Sub(c.lastUsedAt) > idleResetWindow {
			c.failureCount = 0
		}
		if c.failureCount < failureThreshold {
			c.lastUsedAt = now
			return c.value
		}
	}

	// Everything exhausted or cooling down: hard reset and keep going.
	for i := range p.creds {
		p.creds[i].failureCount = 0
		p.creds[i].cooldownUntil = time.Time{}
	}
	p.degraded = true
	first := &p.creds[0]
	first.lastUsedAt = now
	return first.value
}

// ReportSuccess clears the failure count for the credential.
func (p *Pool) ReportSuccess(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.creds {
		if p.creds[i].value != credential {
			continue
		}
		p.creds[i].failureCount = 0
		p.creds[i].lastUsedAt = p.now()
		return
	}
}

// ReportFailure increments the credential's failure count; reaching the
// threshold puts it into a 60s cooldown.
func (p *Pool) ReportFailure(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for i := range p.creds {
		c := &p.creds[i]
		if c.value != credential {
			continue
		}
		c.failureCount++
		c.lastUsedAt = now
		if c.failureCount >= failureThreshold {
			c.cooldownUntil = now.Add(cooldownPeriod)
		}
		return
	}
}

// Degraded reports whether the pool has performed a hard reset during its
// lifetime. Callers should log this as a degraded-mode signal; it never
// fails a batch.
func (p *Pool) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}
