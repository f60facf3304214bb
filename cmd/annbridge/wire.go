package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"annbridge/internal/alveo"
	"annbridge/internal/annotator"
	"annbridge/internal/config"
	"annbridge/internal/conversion"
	"annbridge/internal/domain"
	"annbridge/internal/dump"
	"annbridge/internal/metrics"
	"annbridge/internal/retry"
	"annbridge/internal/service"
	"annbridge/internal/sink/memory"
	"annbridge/internal/sink/sqlite"
	"annbridge/internal/source/local"
	"annbridge/internal/typesystem"
)

func loadTypeSystem(cfg *config.AppConfig) (*typesystem.Snapshot, error) {
	if cfg.TypeSystem.Path == "" {
		return typesystem.Builtin()
	}
	return typesystem.Load(cfg.TypeSystem.Path)
}

func buildChain(cfg *config.AppConfig) (*conversion.Chain, error) {
	convs, err := conversion.NewRegistry().Build(cfg.Converters)
	if err != nil {
		return nil, err
	}
	def := conversion.NewDefaultConverter(
		conversion.WithLabelFeatures(cfg.LabelFeatures...),
		conversion.WithTypeFeatures(cfg.TypeFeatures...),
	)
	return conversion.NewChain(def, convs...), nil
}

func buildAnnotators(names []string) ([]domain.Annotator, error) {
	out := make([]domain.Annotator, 0, len(names))
	for _, n := range names {
		a, err := annotator.New(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func newAlveoClient(a *config.AlveoConfig) (*alveo.Client, error) {
	if a == nil {
		return nil, fmt.Errorf("alveo config missing")
	}
	key := os.Getenv(a.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", a.APIKeyEnv)
	}
	rc := retry.DefaultConfig()
	rc.MaxAttempts = a.MaxAttempts
	return alveo.NewClient(alveo.Config{
		BaseURL: a.BaseURL,
		APIKey:  key,
		Timeout: time.Duration(a.TimeoutSecs) * time.Second,
		Retry:   rc,
	})
}

// buildSource picks the item source. Paths given on the command line
// replace the configured local paths.
func buildSource(cfg *config.AppConfig, ts *typesystem.Snapshot, paths []string) (domain.ItemSource, error) {
	switch cfg.Source.Type {
	case config.SourceLocal, "":
		if len(paths) == 0 && cfg.Source.Local != nil {
			paths = cfg.Source.Local.Paths
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no input paths given")
		}
		return local.NewSource(paths, ts), nil
	case config.SourceAlveo:
		client, err := newAlveoClient(cfg.Source.Alveo)
		if err != nil {
			return nil, err
		}
		return alveo.NewReader(client, cfg.Source.Alveo.ItemListID, ts), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Source.Type)
	}
}

// buildSink picks the sink; the returned func releases it.
func buildSink(ctx context.Context, cfg *config.AppConfig, dryRun bool) (domain.Sink, func() error, error) {
	noop := func() error { return nil }
	if dryRun {
		return memory.NewStorage(), noop, nil
	}
	switch cfg.Sink.Type {
	case config.SinkMemory, "":
		return memory.NewStorage(), noop, nil
	case config.SinkSQLite:
		st, err := sqlite.Open(ctx, cfg.Sink.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case config.SinkAlveo:
		a := cfg.SinkAlveo()
		client, err := newAlveoClient(a)
		if err != nil {
			return nil, nil, err
		}
		return alveo.NewUploader(client, a.BatchSize, logger), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink: %s", cfg.Sink.Type)
	}
}

// buildPipeline assembles the whole pipeline from configuration, failing on
// the first unknown component.
func buildPipeline(ctx context.Context, cfg *config.AppConfig, m *metrics.Metrics, paths []string, dryRun bool) (*service.Pipeline, func() error, error) {
	ts, err := loadTypeSystem(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("type system: %w", err)
	}
	chain, err := buildChain(cfg)
	if err != nil {
		return nil, nil, err
	}
	annotators, err := buildAnnotators(cfg.Annotators)
	if err != nil {
		return nil, nil, err
	}
	src, err := buildSource(cfg, ts, paths)
	if err != nil {
		return nil, nil, err
	}
	snk, closeSink, err := buildSink(ctx, cfg, dryRun)
	if err != nil {
		return nil, nil, err
	}
	opts := []service.Option{
		service.WithUploadableTypes(cfg.UploadableTypes...),
		service.WithWorkers(cfg.Workers),
		service.WithLogger(logger),
		service.WithMetrics(m),
	}
	if cfg.Dump.Dir != "" {
		w, err := dump.NewWriter(cfg.Dump.Dir)
		if err != nil {
			_ = closeSink()
			return nil, nil, err
		}
		opts = append(opts, service.WithDocumentWriter(w))
	}
	return service.New(src, annotators, chain, snk, opts...), closeSink, nil
}
