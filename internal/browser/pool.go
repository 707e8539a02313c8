package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raysh454/kasumi/internal/logging"
)

// Pool hands out tabs from the shared browser. Tabs are created lazily up
// to MaxTabs and live until shutdown; a released tab goes straight back
// into rotation without any reset, because renders park their tab on
// about:blank before letting go of it.
type Pool struct {
	cfg     Config
	logger  logging.Logger
	factory func() (*Tab, error)

	mu      sync.Mutex
	created int
	closed  bool
	idle    chan *Tab
}

// NewPool builds a pool on top of b. Nothing is created until the first
// Acquire.
func NewPool(b *Browser, logger logging.Logger) *Pool {
	return newPool(b.cfg, logger, b.NewTab)
}

func newPool(cfg Config, logger logging.Logger, factory func() (*Tab, error)) *Pool {
	if cfg.MaxTabs <= 0 {
		cfg.MaxTabs = 10
	}
	return &Pool{
		cfg:     cfg,
		logger:  logger.With(logging.Field{Key: "component", Value: "tabpool"}),
		factory: factory,
		idle:    make(chan *Tab, cfg.MaxTabs),
	}
}

// Acquire returns a free tab, creating one while the pool is below its
// cap. When every tab is checked out it waits for a release; the wait is
// bounded by AcquireTimeout when configured, and only by ctx otherwise.
func (p *Pool) Acquire(ctx context.Context) (*Tab, error) {
	if p.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.cfg.AcquireTimeout, ErrPoolTimeout)
		defer cancel()
	}

	select {
	case t := <-p.idle:
		return t, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.cfg.MaxTabs {
		p.created++
		count := p.created
		p.mu.Unlock()

		t, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, fmt.Errorf("create tab: %w", err)
		}
		p.logger.Debug("grew pool",
			logging.Field{Key: "tab_id", Value: t.ID()},
			logging.Field{Key: "tabs", Value: count})
		return t, nil
	}
	p.mu.Unlock()

	select {
	case t := <-p.idle:
		return t, nil
	case <-ctx.Done():
		if cause := context.Cause(ctx); errors.Is(cause, ErrPoolTimeout) {
			return nil, fmt.Errorf("%w after %s", ErrPoolTimeout, p.cfg.AcquireTimeout)
		}
		return nil, ctx.Err()
	}
}

// Release returns a tab to the pool. Safe to call with nil.
func (p *Pool) Release(t *Tab) {
	if t == nil {
		return
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		t.Close()
		return
	}

	select {
	case p.idle <- t:
	default:
		// more releases than acquires; drop the stray
		t.Close()
	}
}

// Close stops handing out tabs and destroys the idle ones. Tabs still
// checked out die with the browser process.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.logger.Info("closing tab pool")
	for {
		select {
		case t := <-p.idle:
			t.Close()
		default:
			return
		}
	}
}
