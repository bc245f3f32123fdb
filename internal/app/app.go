package app

import (
	"context"
	"fmt"

	"github.com/vectorops/chromactl/internal/config"
	"github.com/vectorops/chromactl/internal/logger"
	"github.com/vectorops/chromactl/internal/storage"
	"github.com/vectorops/chromactl/pkg/chroma"
	"github.com/vectorops/chromactl/pkg/httpclient"
	"github.com/vectorops/chromactl/pkg/publishers"
)

// App wires the collection client, the local cache, and the downstream event
// fanout behind the operations the CLI exposes.
type App struct {
	cfg    *config.Config
	log    logger.Logger
	client *chroma.Client
	store  storage.Store
	fanout *publishers.Fanout
}

// New builds the runtime from config: HTTP transport, collection client,
// cache backend, and (when a publishers file is configured) the event fanout.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpClient := httpclient.NewRestyClient(cfg.RequestTimeout)
	client := chroma.NewClient(cfg.BaseURL, httpClient, log)

	store, err := storage.NewStore(cfg.CacheType, cfg.CachePath, storage.Options{
		CollectionTTL:   cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("cache initialized", "cache_config", map[string]any{
		"type": cfg.CacheType,
		"path": cfg.CachePath,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		log:    log,
		client: client,
		store:  store,
		fanout: fanout,
	}, nil
}

// buildFanout loads the publishers file when one is configured; otherwise the
// fanout is an empty no-op.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubs), nil
}

// Close releases the cache backend.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Heartbeat probes the configured server.
func (a *App) Heartbeat(ctx context.Context) bool {
	return a.client.Heartbeat(ctx)
}

// CreateCollection creates the collection and announces it downstream. The
// fanout result never affects the reported outcome: the collection exists on
// the server whether or not the notification was delivered.
func (a *App) CreateCollection(ctx context.Context, name string) bool {
	if !a.client.CreateCollection(ctx, name) {
		return false
	}

	evt := publishers.NewEvent(publishers.ActionCollectionCreated, chroma.Collection{Name: name})
	if delivered, err := a.fanout.Publish(ctx, evt); err != nil {
		a.log.WarnObj("event fanout incomplete", "fanout_error", map[string]any{
			"action":    evt.Action,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
	return true
}

// GetCollection fetches the collection, caches the decoded record, and
// returns it. When the server delivers no bytes, the last cached record is
// served instead; false means neither the server nor the cache had one.
func (a *App) GetCollection(ctx context.Context, name string) (chroma.Collection, bool) {
	acc := a.client.GetCollection(ctx, name)

	if acc.Len() == 0 {
		col, found, err := a.store.Collection(name)
		if err != nil {
			a.log.WarnObj("cache lookup failed", "cache_error", map[string]any{
				"collection": name,
				"error":      err.Error(),
			})
			return chroma.Collection{}, false
		}
		if found {
			a.log.WarnObj("serving cached collection record", "collection_name", name)
			return col, true
		}
		return chroma.Collection{}, false
	}

	col := a.client.ParseCollectionResponse(acc.Bytes())
	if col.ID == "" && col.Name == "" {
		return chroma.Collection{}, false
	}

	if err := a.store.Put(name, col); err != nil {
		a.log.WarnObj("cache write failed", "cache_error", map[string]any{
			"collection": name,
			"error":      err.Error(),
		})
	}

	evt := publishers.NewEvent(publishers.ActionCollectionFetched, col)
	if delivered, err := a.fanout.Publish(ctx, evt); err != nil {
		a.log.WarnObj("event fanout incomplete", "fanout_error", map[string]any{
			"action":    evt.Action,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	return col, true
}
