package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/viper"

	"github.com/dailyworker-news/DWnews-sub003/internal/cache"
	"github.com/dailyworker-news/DWnews-sub003/internal/classify"
	"github.com/dailyworker-news/DWnews-sub003/internal/crossref"
	"github.com/dailyworker-news/DWnews-sub003/internal/identify"
	"github.com/dailyworker-news/DWnews-sub003/internal/investigate"
	"github.com/dailyworker-news/DWnews-sub003/internal/investigate/social"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/pipeline"
	"github.com/dailyworker-news/DWnews-sub003/internal/rank"
	"github.com/dailyworker-news/DWnews-sub003/internal/search"
	"github.com/dailyworker-news/DWnews-sub003/internal/store"
	"github.com/dailyworker-news/DWnews-sub003/internal/verify"
	"github.com/dailyworker-news/DWnews-sub003/internal/worker"
)

// loadConfig merges defaults, the config file, and DWVERIFY_* env vars.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// buildRunner assembles the full pipeline from configuration. The
// caller owns the returned store and must Close it.
func buildRunner(cfg *model.Config) (*pipeline.Runner, *store.Store, error) {
	logging.Init(cfg.Logging.Level)

	if len(cfg.Search.Providers) == 0 {
		return nil, nil, errors.New("no search providers configured (see 'dwverify config init')")
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	limiter := worker.NewLimiter(2, 4)
	for _, p := range cfg.Search.Providers {
		if p.Rate > 0 {
			if u, err := url.Parse(p.Endpoint); err == nil && u.Host != "" {
				limiter.SetHostRate(u.Host, p.Rate, p.Burst)
			}
		}
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	var primary, escalation []search.Provider
	for _, p := range cfg.Search.Providers {
		var provider search.Provider = search.NewHTTPProvider(
			p.Name, p.Endpoint, p.APIKey, cfg.Search.QueryTimeout, limiter)
		if c != nil {
			provider = search.NewCachedProvider(provider, c, cfg.Cache.TTL)
		}
		// Escalation providers are additionally available to the deep
		// pass; the primary pass only sees the unreserved ones.
		escalation = append(escalation, provider)
		if !p.Escalation {
			primary = append(primary, provider)
		}
	}
	if len(primary) == 0 {
		return nil, nil, errors.New("all search providers are reserved for escalation")
	}

	ranker := rank.New()
	cr := crossref.New()
	classifier := classify.NewHeuristic()

	fetcher := pipeline.NewFetcher(cfg.HTTP, limiter, c, cfg.Cache.TTL)

	verifier := verify.New(
		identify.New(search.NewMultiSearcher(primary, cfg.Search.QueryTimeout), cfg.Verification.QueryBudget, cfg.Search.ResultLimit),
		ranker, cr, classifier, fetcher, cfg.Verification)

	var investigator *investigate.Agent
	if cfg.Escalation.Enabled {
		var soc *social.Investigator
		if cfg.Social.Enabled && len(cfg.Social.Platforms) > 0 {
			var monitors []*social.Monitor
			for _, p := range cfg.Social.Platforms {
				api := social.NewHTTPPlatform(p.Name, p.Endpoint, p.APIKey, cfg.Search.QueryTimeout)
				switch p.Name {
				case "reddit":
					monitors = append(monitors, social.NewRedditMonitor(api, cfg.Social.MaxPosts))
				default:
					monitors = append(monitors, social.NewTwitterMonitor(api, cfg.Social.MaxPosts))
				}
			}
			soc = social.NewInvestigator(monitors, cfg.Social)
		}

		investigator = investigate.New(
			search.NewMultiSearcher(escalation, cfg.Search.QueryTimeout),
			ranker, cr, classifier, soc, cfg.Escalation, cfg.Verification)
	}

	return pipeline.NewRunner(st, verifier, investigator, cfg.Escalation), st, nil
}
