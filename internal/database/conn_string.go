package database

import (
	"fmt"
	"net/url"

	"github.com/evetools/marketpulse/internal/config"
)

// connString renders a DBConfig as a postgres URL for pgxpool. Only the
// password is escaped; the other fields cannot carry URL metacharacters.
func connString(cfg config.DBConfig) string {
	mode := cfg.SSLMode
	if mode == "" {
		mode = "prefer"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, mode)
}
