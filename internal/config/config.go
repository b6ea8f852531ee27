package config

import "time"

// Reconciliation strategies for the order ingestion flow.
const (
	// StrategyFullReplace truncates and reloads market_orders from the bulk
	// snapshot feed. Valid only because the snapshot is a complete dump.
	StrategyFullReplace = "full_replace"

	// StrategyIncrementalUpsert pages live orders per region and evicts rows
	// that disappeared from successfully polled regions.
	StrategyIncrementalUpsert = "incremental_upsert"
)

// Config is the root configuration for a marketpulse instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Sources  SourcesConfig  `yaml:"sources"`
	Database DBConfig       `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Forecast ForecastConfig `yaml:"forecast"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Health   HealthConfig   `yaml:"health"`
	LogLevel string         `yaml:"log_level"`
}

// InstanceConfig identifies this process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// SourcesConfig holds the upstream market-data endpoints.
type SourcesConfig struct {
	SnapshotURL    string        `yaml:"snapshot_url"`     // bulk bz2 order dump
	HistoryBaseURL string        `yaml:"history_base_url"` // daily bz2 history files
	TotalsURL      string        `yaml:"totals_url"`       // availability manifest
	APIBaseURL     string        `yaml:"api_base_url"`     // paginated live-order API
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	UserAgent      string        `yaml:"user_agent"`
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PipelineConfig holds ingestion reconciler settings.
type PipelineConfig struct {
	Strategy      string  `yaml:"strategy"` // full_replace or incremental_upsert
	Regions       []int64 `yaml:"regions"`  // regions to poll and analyze
	RetentionDays int     `yaml:"retention_days"`
	Concurrency   int     `yaml:"concurrency"` // max concurrent fetches per cycle
}

// AnalysisConfig holds profitability engine settings.
type AnalysisConfig struct {
	BrokerFee      float64 `yaml:"broker_fee"`      // fraction, e.g. 0.01
	TransactionTax float64 `yaml:"transaction_tax"` // fraction, e.g. 0.01
	WindowDays     int     `yaml:"window_days"`     // history window for metrics
	TrendThreshold float64 `yaml:"trend_threshold"` // slope dead zone
}

// ForecastConfig holds model training and inference settings.
type ForecastConfig struct {
	ModelDir         string  `yaml:"model_dir"`
	MinHistoryDays   int     `yaml:"min_history_days"`
	TrainSplit       float64 `yaml:"train_split"`        // fraction used for fitting
	HistoryFetchDays int     `yaml:"history_fetch_days"` // lookback for inference features
}

// ScheduleConfig holds cron specs for the background jobs.
type ScheduleConfig struct {
	Pipeline string `yaml:"pipeline"`
	Analysis string `yaml:"analysis"`
	Training string `yaml:"training"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
