package cmd

import (
	"context"

	"github.com/rs/zerolog"

	"swotscraper/browser"
	"swotscraper/cache"
	"swotscraper/config"
	"swotscraper/pipeline"
	"swotscraper/sheets"
	"swotscraper/snapshot"
	"swotscraper/swot"
)

// buildRunner opens the browser session and assembles the pipeline. The
// returned close func releases the session and must run after the last Run.
func buildRunner(ctx context.Context, cfg *config.Config, log zerolog.Logger, publish bool) (*pipeline.Runner, func(), error) {
	extractorOpts := []swot.Option{
		swot.WithSelectors(cfg.Selectors()),
		swot.WithNavigationTimeout(cfg.Extract.NavigationTimeout),
		swot.WithMarkerTimeout(cfg.Extract.MarkerTimeout),
		swot.WithLogger(log),
	}
	if cfg.Snapshot.Dir != "" {
		extractorOpts = append(extractorOpts, swot.WithSnapshots(snapshot.New(cfg.Snapshot.Dir)))
	}

	runnerOpts := []pipeline.Option{
		pipeline.WithDelay(cfg.Extract.Delay),
		pipeline.WithLogger(log),
	}

	if publish {
		sink, err := buildSink(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		runnerOpts = append(runnerOpts, pipeline.WithSink(sink))
	}

	if cfg.Redis.Addr != "" {
		client := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		runnerOpts = append(runnerOpts, pipeline.WithCache(cache.New(client, cfg.Redis.TTL)))
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("result cache enabled")
	}

	browserOpts := cfg.BrowserOptions()
	browserOpts.Logger = log
	session, err := browser.Open(ctx, browserOpts)
	if err != nil {
		return nil, nil, err
	}

	runner := pipeline.New(session, swot.NewExtractor(extractorOpts...), cfg.Targets, runnerOpts...)
	return runner, session.Close, nil
}

func buildSink(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sheets.Sink, error) {
	mode, err := sheets.ParseMode(cfg.Sheet.Mode)
	if err != nil {
		return nil, err
	}

	api, err := sheets.NewService(ctx, credentialProvider(cfg))
	if err != nil {
		return nil, err
	}

	return &sheets.Sink{
		API:           api,
		SpreadsheetID: cfg.Sheet.SpreadsheetID,
		Range:         cfg.Sheet.Range,
		Mode:          mode,
		MaxRetries:    cfg.Sheet.MaxRetries,
		Logger:        log,
	}, nil
}

// credentialProvider prefers JSON from the environment, written next to the
// configured key file, and falls back to reading the key file.
func credentialProvider(cfg *config.Config) sheets.CredentialProvider {
	if cfg.CredentialsFromEnv(getenv) {
		return sheets.EnvCredentials{
			Var:  cfg.Sheet.CredentialsEnv,
			Path: cfg.Sheet.CredentialsFile,
		}
	}
	return sheets.FileCredentials{Path: cfg.Sheet.CredentialsFile}
}
