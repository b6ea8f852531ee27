package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultSnapshotURL    = "https://data.everef.net/market-orders/market-orders-latest.v3.csv.bz2"
	DefaultHistoryBaseURL = "https://data.everef.net/market-history"
	DefaultTotalsURL      = DefaultHistoryBaseURL + "/totals.json"
	DefaultAPIBaseURL     = "https://esi.evetech.net/latest"
	DefaultFetchTimeout   = 60 * time.Second
	DefaultMaxRetries     = 3
	DefaultUserAgent      = "marketpulse"

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultStrategy      = StrategyFullReplace
	DefaultRegion        = int64(10000002) // The Forge
	DefaultRetentionDays = 90
	DefaultConcurrency   = 10

	DefaultBrokerFee      = 0.01
	DefaultTransactionTax = 0.01
	DefaultWindowDays     = 30
	DefaultTrendThreshold = 0.1

	DefaultModelDir         = "models"
	DefaultMinHistoryDays   = 30
	DefaultTrainSplit       = 0.8
	DefaultHistoryFetchDays = 90

	DefaultPipelineSchedule = "@every 30m"
	DefaultAnalysisSchedule = "@hourly"
	DefaultTrainingSchedule = "@midnight"

	DefaultHealthPort = 8080
	DefaultLogLevel   = "info"
)

func (c *Config) applyDefaults() {
	// Source defaults
	if c.Sources.SnapshotURL == "" {
		c.Sources.SnapshotURL = DefaultSnapshotURL
	}
	if c.Sources.HistoryBaseURL == "" {
		c.Sources.HistoryBaseURL = DefaultHistoryBaseURL
	}
	if c.Sources.TotalsURL == "" {
		c.Sources.TotalsURL = DefaultTotalsURL
	}
	if c.Sources.APIBaseURL == "" {
		c.Sources.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = DefaultFetchTimeout
	}
	if c.Sources.MaxRetries == 0 {
		c.Sources.MaxRetries = DefaultMaxRetries
	}
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = DefaultUserAgent
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Pipeline defaults
	if c.Pipeline.Strategy == "" {
		c.Pipeline.Strategy = DefaultStrategy
	}
	if len(c.Pipeline.Regions) == 0 {
		c.Pipeline.Regions = []int64{DefaultRegion}
	}
	if c.Pipeline.RetentionDays == 0 {
		c.Pipeline.RetentionDays = DefaultRetentionDays
	}
	if c.Pipeline.Concurrency == 0 {
		c.Pipeline.Concurrency = DefaultConcurrency
	}

	// Analysis defaults
	if c.Analysis.BrokerFee == 0 {
		c.Analysis.BrokerFee = DefaultBrokerFee
	}
	if c.Analysis.TransactionTax == 0 {
		c.Analysis.TransactionTax = DefaultTransactionTax
	}
	if c.Analysis.WindowDays == 0 {
		c.Analysis.WindowDays = DefaultWindowDays
	}
	if c.Analysis.TrendThreshold == 0 {
		c.Analysis.TrendThreshold = DefaultTrendThreshold
	}

	// Forecast defaults
	if c.Forecast.ModelDir == "" {
		c.Forecast.ModelDir = DefaultModelDir
	}
	if c.Forecast.MinHistoryDays == 0 {
		c.Forecast.MinHistoryDays = DefaultMinHistoryDays
	}
	if c.Forecast.TrainSplit == 0 {
		c.Forecast.TrainSplit = DefaultTrainSplit
	}
	if c.Forecast.HistoryFetchDays == 0 {
		c.Forecast.HistoryFetchDays = DefaultHistoryFetchDays
	}

	// Schedule defaults
	if c.Schedule.Pipeline == "" {
		c.Schedule.Pipeline = DefaultPipelineSchedule
	}
	if c.Schedule.Analysis == "" {
		c.Schedule.Analysis = DefaultAnalysisSchedule
	}
	if c.Schedule.Training == "" {
		c.Schedule.Training = DefaultTrainingSchedule
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
