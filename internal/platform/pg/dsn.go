package pg

import (
	"net/url"
	"strconv"
	"strings"
)

// DSNConfig contains the parameters of a PostgreSQL connection string.
type DSNConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	ApplicationName string
}

// BuildDSN assembles a postgres:// connection string. Empty host, port and
// sslmode fall back to localhost, 5432 and disable.
func BuildDSN(cfg DSNConfig) string {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}

	var dsn strings.Builder
	dsn.WriteString("postgres://")
	if cfg.User != "" {
		dsn.WriteString(url.QueryEscape(cfg.User))
		if cfg.Password != "" {
			dsn.WriteString(":")
			dsn.WriteString(url.QueryEscape(cfg.Password))
		}
		dsn.WriteString("@")
	}
	dsn.WriteString(cfg.Host)
	dsn.WriteString(":")
	dsn.WriteString(strconv.Itoa(cfg.Port))
	if cfg.Database != "" {
		dsn.WriteString("/")
		dsn.WriteString(url.QueryEscape(cfg.Database))
	}

	params := url.Values{}
	params.Set("sslmode", cfg.SSLMode)
	if cfg.ApplicationName != "" {
		params.Set("application_name", cfg.ApplicationName)
	}
	dsn.WriteString("?")
	dsn.WriteString(params.Encode())
	return dsn.String()
}
