package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dharti-automation/dharti-web/config"
	"github.com/dharti-automation/dharti-web/internal/bootstrap"
	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dustin/go-humanize"
)

const commandTimeout = 2 * time.Minute

func open() (*contentservice.ContentService, *logging.Logger, func()) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(logging.Options{Level: cfg.App.LogLevel, HumanReadable: true})
	if err != nil {
		panic(err)
	}
	if !cfg.Redis.Enabled() {
		panic("REDIS_ADDR must be set: the worker only acts on the shared cache")
	}

	svc, closeFn, err := bootstrap.OpenContent(context.Background(), cfg, logger)
	if err != nil {
		panic(err)
	}
	return svc, logger, closeFn
}

// RunWarm fetches every cached resource from the content API once.
func RunWarm(args []string) {
	svc, logger, closeFn := open()
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	start := time.Now()
	if err := svc.Warm(ctx); err != nil {
		logger.Error(err, "warm finished with errors")
	}
	m := contentservice.GetMetrics()
	fmt.Printf("Warmed %s cache in %s: %s upstream calls, %s errors\n",
		svc.CacheName(), time.Since(start).Round(time.Millisecond),
		humanize.Comma(m.UpstreamCalls()), humanize.Comma(m.UpstreamErrors()))
}

// RunInvalidate drops every cached resource.
func RunInvalidate(args []string) {
	svc, _, closeFn := open()
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	n, err := svc.Invalidate(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Cleared %d cached resources\n", n)
}

// RunStatus reports whether the content API and the cache answer.
func RunStatus(args []string) {
	svc, _, closeFn := open()
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	report := func(name string, err error) {
		if err != nil {
			fmt.Printf(" - %s: down (%v)\n", name, err)
			return
		}
		fmt.Printf(" - %s: up\n", name)
	}
	fmt.Printf("Content API %s\n", svc.Upstream().BaseURL())
	report("upstream", svc.Upstream().Ping(ctx))
	report(svc.CacheName(), svc.PingCache(ctx))
}
