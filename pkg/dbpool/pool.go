// Package dbpool provides a bounded pool of live database connection
// handles with lazy creation and a liveness check on checkout.
//
// The bound is advisory, not backpressure: Get never blocks or queues.
// When the pool is at capacity the caller receives ErrExhausted and must
// treat it as a retryable condition.
package dbpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
)

// ErrExhausted is returned by Get when the pool is at its configured
// maximum and no connection is available. Retryable; the pool never
// retries internally.
var ErrExhausted = errors.New("connection pool exhausted")

// Factory creates a new database connection handle.
type Factory func(ctx context.Context) (*gorm.DB, error)

// Probe checks that a pooled connection is still alive. The default pings
// the underlying *sql.DB.
type Probe func(ctx context.Context, db *gorm.DB) error

// Pool owns every connection it creates. Callers borrow one for the scope
// of a request through a Lease and must release it on every exit path.
type Pool struct {
	factory Factory
	probe   Probe
	logger  *slog.Logger

	mu        sync.Mutex
	available []*gorm.DB
	inUse     int
	max       int
	closed    bool
}

// New creates a pool bounded at max connections. No connections are
// opened up front; they are created lazily by factory as demand arrives.
func New(max int, factory Factory, logger *slog.Logger) *Pool {
	if max < 1 {
		max = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		factory: factory,
		probe:   pingProbe,
		logger:  logger,
		max:     max,
	}
}

// SetProbe replaces the liveness probe. Intended for tests.
func (p *Pool) SetProbe(probe Probe) {
	if probe != nil {
		p.probe = probe
	}
}

// Get borrows a connection. Available connections are popped one at a
// time; any that fail the liveness probe are discarded. If none survive
// and the pool is below its maximum, the factory creates a fresh one;
// otherwise Get fails fast with ErrExhausted.
func (p *Pool) Get(ctx context.Context) (*Lease, error) {
	for {
		db, ok := p.takeAvailable()
		if !ok {
			break
		}
		// Probe outside the lock; the connection is counted as in-use
		// while probed so the size invariant holds throughout.
		if err := p.probe(ctx, db); err != nil {
			p.logger.Warn("discarding dead pooled connection", "error", err)
			p.discard(db)
			continue
		}
		return &Lease{pool: p, db: db}, nil
	}

	if !p.reserveSlot() {
		return nil, fmt.Errorf("%w: %d connections in use", ErrExhausted, p.max)
	}
	db, err := p.factory(ctx)
	if err != nil {
		p.unreserveSlot()
		return nil, fmt.Errorf("create pooled connection: %w", err)
	}
	return &Lease{pool: p, db: db}, nil
}

// takeAvailable pops the most recently returned connection and counts it
// as in-use.
func (p *Pool) takeAvailable() (*gorm.DB, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.available)
	if n == 0 {
		return nil, false
	}
	db := p.available[n-1]
	p.available = p.available[:n-1]
	p.inUse++
	return db, true
}

// reserveSlot claims capacity for a connection about to be created.
func (p *Pool) reserveSlot() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available)+p.inUse >= p.max {
		return false
	}
	p.inUse++
	return true
}

func (p *Pool) unreserveSlot() {
	p.mu.Lock()
	p.inUse--
	p.mu.Unlock()
}

// put returns a borrowed connection to the available stack. After Close
// the connection is closed instead of re-pooled.
func (p *Pool) put(db *gorm.DB) {
	if db == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.inUse--
		p.mu.Unlock()
		closeConn(db)
		return
	}
	p.available = append(p.available, db)
	p.inUse--
	p.mu.Unlock()
}

// discard drops a connection that failed its liveness probe.
func (p *Pool) discard(db *gorm.DB) {
	p.mu.Lock()
	p.inUse--
	p.mu.Unlock()
	closeConn(db)
}

// Size returns the total number of connections owned by the pool.
// Size() == Available() + InUse() at all times.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available) + p.inUse
}

// Available returns the number of idle connections.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}

// InUse returns the number of borrowed connections.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Max returns the configured maximum.
func (p *Pool) Max() int {
	return p.max
}

// Close discards every idle connection and marks the pool closed, so
// connections still borrowed are closed as their leases release instead
// of returning to the pool. Callers should drain requests first.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	idle := p.available
	p.available = nil
	p.mu.Unlock()
	for _, db := range idle {
		closeConn(db)
	}
}

func pingProbe(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func closeConn(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

// Lease is the only sanctioned way to hold a pooled connection. Release
// is idempotent and nil-safe, so it is always safe to defer.
type Lease struct {
	pool *Pool
	db   *gorm.DB

	mu       sync.Mutex
	released bool
}

// DB returns the borrowed connection handle. Nil after release.
func (l *Lease) DB() *gorm.DB {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	return l.db
}

// Release returns the connection to the pool. Releasing twice, or
// releasing a nil lease, is a no-op.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return
	}
	l.released = true
	db := l.db
	l.db = nil
	l.mu.Unlock()
	l.pool.put(db)
}
