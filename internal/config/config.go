package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/jaspreetjk20/docrank/internal/pipeline"
	"github.com/jaspreetjk20/docrank/internal/rank"
	"github.com/jaspreetjk20/docrank/internal/score"
	"github.com/jaspreetjk20/docrank/internal/segment"
	"github.com/jaspreetjk20/docrank/internal/structure"
)

// Config gathers every tunable. Values come from viper (flags, DOCRANK_*
// environment variables, optional config file) with built-in defaults.
type Config struct {
	// Server
	Port           string
	APIKey         string
	MaxUploadBytes int64
	CacheTTL       time.Duration

	// Worker pool
	Workers    int
	DocTimeout time.Duration

	// Stage settings
	Structure structure.Config
	Segment   segment.Config
	Score     score.Config
	Rank      rank.Config

	LogLevel string
}

// SetDefaults registers every key with viper so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("cache_ttl", "10m")

	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("doc_timeout", "60s")

	v.SetDefault("structure.max_levels", 3)
	v.SetDefault("structure.size_ratio_min", 1.08)
	v.SetDefault("structure.title_top_fraction", 0.25)
	v.SetDefault("structure.max_heading_words", 30)

	v.SetDefault("segment.min_words", 20)
	v.SetDefault("segment.gap_threshold", 18.0)

	v.SetDefault("score.expand_terms", 12)
	v.SetDefault("score.min_domain_overlap", 2)
	v.SetDefault("score.similarity_weight", 0.55)
	v.SetDefault("score.domain_weight", 0.2)
	v.SetDefault("score.quality_weight", 0.25)
	v.SetDefault("score.noise_floor", 0.15)

	v.SetDefault("rank.top_k", 10)
	v.SetDefault("rank.per_doc_cap", 5)
	v.SetDefault("rank.passages_per_section", 3)

	v.SetDefault("log_level", "info")
}

// Load materializes a Config from a prepared viper instance.
func Load(v *viper.Viper) Config {
	SetDefaults(v)

	cfg := Config{
		Port:           v.GetString("port"),
		APIKey:         v.GetString("api_key"),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		CacheTTL:       v.GetDuration("cache_ttl"),

		Workers:    v.GetInt("workers"),
		DocTimeout: v.GetDuration("doc_timeout"),

		Structure: structure.Config{
			MaxLevels:        v.GetInt("structure.max_levels"),
			SizeRatioMin:     v.GetFloat64("structure.size_ratio_min"),
			TitleTopFraction: v.GetFloat64("structure.title_top_fraction"),
			MaxHeadingWords:  v.GetInt("structure.max_heading_words"),
		},
		Segment: segment.Config{
			MinWords:     v.GetInt("segment.min_words"),
			GapThreshold: v.GetFloat64("segment.gap_threshold"),
		},
		Score: score.Config{
			ExpandTerms:      v.GetInt("score.expand_terms"),
			MinDomainOverlap: v.GetInt("score.min_domain_overlap"),
			SimilarityWeight: v.GetFloat64("score.similarity_weight"),
			DomainWeight:     v.GetFloat64("score.domain_weight"),
			QualityWeight:    v.GetFloat64("score.quality_weight"),
			NoiseFloor:       v.GetFloat64("score.noise_floor"),
		},
		Rank: rank.Config{
			TopK:               v.GetInt("rank.top_k"),
			PerDocCap:          v.GetInt("rank.per_doc_cap"),
			PassagesPerSection: v.GetInt("rank.passages_per_section"),
		},

		LogLevel: v.GetString("log_level"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.DocTimeout <= 0 {
		cfg.DocTimeout = 60 * time.Second
	}

	return cfg
}

// Pipeline assembles the per-batch stage configuration. Stage packages
// re-clamp their own fields, so zero values passed through viper are safe.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Structure:  c.Structure,
		Segment:    c.Segment,
		Score:      c.Score,
		Rank:       c.Rank,
		Workers:    c.Workers,
		DocTimeout: c.DocTimeout,
	}
}
