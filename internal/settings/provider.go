// Package settings loads the site settings once and hands out read-only
// copies to every page.
package settings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/fetch"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dharti-automation/dharti-web/internal/theme"
	"golang.org/x/sync/singleflight"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Source fetches the settings record.
type Source interface {
	Settings(ctx context.Context) (*domain.Settings, error)
}

// Site is the published settings together with the theme derived from them.
type Site struct {
	Settings domain.Settings
	Theme    theme.Theme
}

// Snapshot is the provider state as seen by one request.
type Snapshot struct {
	Status Status
	Site   *Site
	Err    error
}

var ErrNotLoaded = errors.New("settings not loaded")

// Provider publishes the settings exactly once. Until then it reports
// loading or failed, and Reload may be retried.
type Provider struct {
	source Source
	site   atomic.Pointer[Site]
	group  singleflight.Group

	mu      sync.RWMutex
	status  Status
	lastErr error
	loads   int64
}

// LoadTimeout bounds one settings request.
const LoadTimeout = 30 * time.Second

func NewProvider(source Source) *Provider {
	return &Provider{source: source, status: StatusLoading}
}

// Load performs the startup fetch.
func (p *Provider) Load(ctx context.Context) error {
	return p.Reload(ctx)
}

// Reload fetches settings unless they are already published. Concurrent
// callers share a single in-flight request.
func (p *Provider) Reload(ctx context.Context) error {
	if p.site.Load() != nil {
		return nil
	}

	// A caller that goes away stops waiting; the shared request runs to
	// completion for everyone else.
	ch := p.group.DoChan("settings", func() (any, error) {
		if p.site.Load() != nil {
			return nil, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		p.setStatus(StatusLoading, nil)
		atomic.AddInt64(&p.loads, 1)

		st := fetch.Run(loadCtx, p.source.Settings)
		if st.Err == nil && !st.NotFound && st.Data != nil {
			site := &Site{Settings: *st.Data, Theme: theme.Resolve(st.Data.Colours)}
			p.site.CompareAndSwap(nil, site)
			p.setStatus(StatusReady, nil)
			logging.Operation(loadCtx, "load_settings").Info("settings loaded")
			return nil, nil
		}

		err := st.Err
		if err == nil {
			err = ErrNotLoaded
		}
		p.setStatus(StatusFailed, err)
		logging.Operation(loadCtx, "load_settings").Error(err, "settings load failed")
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	if site := p.site.Load(); site != nil {
		return Snapshot{Status: StatusReady, Site: site}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{Status: p.status, Err: p.lastErr}
}

// Site returns the published site, if any.
func (p *Provider) Site() (*Site, bool) {
	site := p.site.Load()
	return site, site != nil
}

// Loads reports how many settings requests were issued.
func (p *Provider) Loads() int64 {
	return atomic.LoadInt64(&p.loads)
}

func (p *Provider) setStatus(s Status, err error) {
	p.mu.Lock()
	p.status = s
	p.lastErr = err
	p.mu.Unlock()
}
