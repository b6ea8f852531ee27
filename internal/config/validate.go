package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	switch c.Pipeline.Strategy {
	case StrategyFullReplace, StrategyIncrementalUpsert:
	default:
		return fmt.Errorf("pipeline.strategy must be %q or %q, got %q",
			StrategyFullReplace, StrategyIncrementalUpsert, c.Pipeline.Strategy)
	}
	if len(c.Pipeline.Regions) == 0 {
		return errors.New("pipeline.regions must list at least one region")
	}
	if c.Pipeline.RetentionDays < 1 {
		return errors.New("pipeline.retention_days must be >= 1")
	}
	if c.Pipeline.Concurrency < 1 {
		return errors.New("pipeline.concurrency must be >= 1")
	}

	if c.Analysis.BrokerFee < 0 || c.Analysis.BrokerFee >= 1 {
		return fmt.Errorf("analysis.broker_fee must be in [0, 1), got %v", c.Analysis.BrokerFee)
	}
	if c.Analysis.TransactionTax < 0 || c.Analysis.TransactionTax >= 1 {
		return fmt.Errorf("analysis.transaction_tax must be in [0, 1), got %v", c.Analysis.TransactionTax)
	}
	if c.Analysis.WindowDays < 2 {
		return errors.New("analysis.window_days must be >= 2")
	}

	if c.Forecast.MinHistoryDays < 2 {
		return errors.New("forecast.min_history_days must be >= 2")
	}
	if c.Forecast.TrainSplit <= 0 || c.Forecast.TrainSplit >= 1 {
		return fmt.Errorf("forecast.train_split must be in (0, 1), got %v", c.Forecast.TrainSplit)
	}
	if c.Forecast.HistoryFetchDays < c.Forecast.MinHistoryDays {
		return errors.New("forecast.history_fetch_days must be >= forecast.min_history_days")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must be <= max_conns", prefix)
	}
	return nil
}
