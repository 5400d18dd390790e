package bootstrap

import (
	"context"

	"github.com/dharti-automation/dharti-web/config"
	"github.com/dharti-automation/dharti-web/internal/content/repository"
	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
	"github.com/dharti-automation/dharti-web/internal/logging"
)

// OpenContent builds the content service over the configured cache: Redis
// when REDIS_ADDR is set, an in-process store otherwise. The returned func
// releases the cache connection.
func OpenContent(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*contentservice.ContentService, func(), error) {
	upstream := contentservice.NewUpstreamClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	if !cfg.Redis.Enabled() {
		logger.Info("REDIS_ADDR not set, using in-process content cache")
		svc := contentservice.NewContentService(upstream, repository.NewMemoryCacheRepository(), cfg.Cache.TTL)
		return svc, func() {}, nil
	}

	client, err := OpenRedis(ctx, RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("content cache connected to redis at %s", cfg.Redis.Addr)

	svc := contentservice.NewContentService(upstream, repository.NewRedisCacheRepository(client), cfg.Cache.TTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error(err, "failed to close redis client")
		}
	}
	return svc, closeFn, nil
}
