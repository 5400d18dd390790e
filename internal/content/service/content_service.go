package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/content/repository"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ContentService memoizes content reads per resource name. Every page that
// needs the client list shares one cached copy instead of fetching its own.
type ContentService struct {
	upstream *UpstreamClient
	cache    repository.CacheRepository
	ttl      time.Duration
	group    singleflight.Group
}

// NewContentService wires the upstream client to a cache. A nil cache or a
// non-positive ttl turns memoization off; singleflight still applies.
func NewContentService(upstream *UpstreamClient, cache repository.CacheRepository, ttl time.Duration) *ContentService {
	return &ContentService{upstream: upstream, cache: cache, ttl: ttl}
}

func (s *ContentService) Upstream() *UpstreamClient { return s.upstream }

// CacheName reports the backing store, or "disabled".
func (s *ContentService) CacheName() string {
	if !s.caching() {
		return "disabled"
	}
	return s.cache.Name()
}

// PingCache checks the backing store.
func (s *ContentService) PingCache(ctx context.Context) error {
	if !s.caching() {
		return nil
	}
	return s.cache.Ping(ctx)
}

func (s *ContentService) Settings(ctx context.Context) (*domain.Settings, error) {
	return s.upstream.GetSettings(ctx)
}

func (s *ContentService) Clients(ctx context.Context) ([]domain.Project, error) {
	return cached(ctx, s, ResourceClients, s.upstream.ListClients)
}

func (s *ContentService) Client(ctx context.Context, id string) (*domain.Project, error) {
	return cached(ctx, s, ResourceClients+"/"+id, func(ctx context.Context) (*domain.Project, error) {
		return s.upstream.GetClient(ctx, id)
	})
}

func (s *ContentService) Services(ctx context.Context) ([]domain.Service, error) {
	return cached(ctx, s, ResourceServices, s.upstream.ListServices)
}

func (s *ContentService) Service(ctx context.Context, id string) (*domain.Service, error) {
	return cached(ctx, s, ResourceServices+"/"+id, func(ctx context.Context) (*domain.Service, error) {
		return s.upstream.GetService(ctx, id)
	})
}

func (s *ContentService) Products(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, s, ResourceProducts, s.upstream.ListProducts)
}

func (s *ContentService) Jobs(ctx context.Context) ([]domain.Job, error) {
	return cached(ctx, s, ResourceJobs, s.upstream.ListJobs)
}

func (s *ContentService) Posts(ctx context.Context) ([]domain.BlogPost, error) {
	return cached(ctx, s, ResourcePosts, s.upstream.ListPosts)
}

func (s *ContentService) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return cached(ctx, s, ResourceTestimonials, s.upstream.ListTestimonials)
}

func (s *ContentService) Certification(ctx context.Context) (*domain.Certification, error) {
	return cached(ctx, s, ResourceCertifications, s.upstream.GetCertification)
}

func (s *ContentService) Domains(ctx context.Context) ([]domain.Domain, error) {
	return cached(ctx, s, ResourceDomains, s.upstream.ListDomains)
}

// Resource returns a list resource by name for the JSON content endpoint.
func (s *ContentService) Resource(ctx context.Context, name string) (any, error) {
	switch name {
	case ResourceClients:
		return s.Clients(ctx)
	case ResourceServices:
		return s.Services(ctx)
	case ResourceProducts:
		return s.Products(ctx)
	case ResourceJobs:
		return s.Jobs(ctx)
	case ResourcePosts:
		return s.Posts(ctx)
	case ResourceTestimonials:
		return s.Testimonials(ctx)
	case ResourceCertifications:
		return s.Certification(ctx)
	case ResourceDomains:
		return s.Domains(ctx)
	default:
		return nil, fmt.Errorf("unknown resource %q: %w", name, domain.ErrNotFound)
	}
}

// Warm re-fetches every list resource and overwrites its cache entry.
func (s *ContentService) Warm(ctx context.Context) error {
	if !s.caching() {
		return nil
	}
	logger := logging.Operation(ctx, "warm_cache")
	start := time.Now()

	var errs []error
	for _, name := range ListResources {
		value, err := s.loadFresh(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := s.cache.Set(ctx, name, value, s.ttl); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error(err, "cache warm incomplete")
		return err
	}
	logger.Info(fmt.Sprintf("warmed %d resources in %s", len(ListResources), time.Since(start)))
	return nil
}

// Invalidate drops every cached resource.
func (s *ContentService) Invalidate(ctx context.Context) (int, error) {
	if !s.caching() {
		return 0, nil
	}
	n, err := s.cache.Clear(ctx)
	if err != nil {
		return n, err
	}
	logging.Operation(ctx, "invalidate_cache").Info(fmt.Sprintf("dropped %d cached resources", n))
	return n, nil
}

func (s *ContentService) loadFresh(ctx context.Context, name string) (any, error) {
	switch name {
	case ResourceClients:
		return s.upstream.ListClients(ctx)
	case ResourceServices:
		return s.upstream.ListServices(ctx)
	case ResourceProducts:
		return s.upstream.ListProducts(ctx)
	case ResourceJobs:
		return s.upstream.ListJobs(ctx)
	case ResourcePosts:
		return s.upstream.ListPosts(ctx)
	case ResourceTestimonials:
		return s.upstream.ListTestimonials(ctx)
	case ResourceCertifications:
		return s.upstream.GetCertification(ctx)
	case ResourceDomains:
		return s.upstream.ListDomains(ctx)
	}
	return nil, fmt.Errorf("unknown resource %q", name)
}

func (s *ContentService) caching() bool {
	return s.cache != nil && s.ttl > 0
}

// cached serves resource from the cache, or loads it once for all concurrent
// callers and stores the result. Failures are never cached.
func cached[T any](ctx context.Context, s *ContentService, resource string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	logger := logging.Operation(ctx, "content_cache")

	if s.caching() {
		var v T
		err := s.cache.Get(ctx, resource, &v)
		if err == nil {
			recordCacheHit()
			return v, nil
		}
		if !repository.IsMiss(err) {
			logger.Warnf("cache read for %s failed: %v", resource, err)
		}
	}
	recordCacheMiss()

	// The shared load outlives any one caller; each caller stops waiting when
	// its own request ends.
	ch := s.group.DoChan(resource, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout())
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if s.caching() {
			if err := s.cache.Set(loadCtx, resource, v, s.ttl); err != nil {
				logger.Warnf("cache write for %s failed: %v", resource, err)
			}
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, fmt.Errorf("load %s: %w", resource, ctx.Err())
	}
}

func (s *ContentService) loadTimeout() time.Duration {
	if t := s.upstream.Timeout(); t > 0 {
		return t
	}
	return DefaultTimeout
}
