package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultPostgresPort = 5432
	defaultSSLMode      = "disable"
)

// ParsedDatabaseURL is a postgres:// URL split into libpq connection fields
type ParsedDatabaseURL struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Options  map[string]string
}

// ParseDatabaseURL accepts postgres:// and postgresql:// URLs, as handed out
// by managed Postgres providers. Missing port and sslmode fall back to the
// local development defaults.
func ParseDatabaseURL(rawURL string) (*ParsedDatabaseURL, error) {
	if rawURL == "" {
		return nil, errors.New("database URL is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unsupported database URL scheme %q", u.Scheme)
	}

	port := defaultPostgresPort
	if raw := u.Port(); raw != "" {
		if port, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("invalid database port %q: %w", raw, err)
		}
	}

	parsed := &ParsedDatabaseURL{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  defaultSSLMode,
		Options:  map[string]string{},
	}
	parsed.Password, _ = u.User.Password()

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "sslmode" {
			parsed.SSLMode = values[0]
			continue
		}
		parsed.Options[key] = values[0]
	}

	return parsed, nil
}

// ToDSN renders the key=value form lib/pq expects. Extra options follow the
// fixed fields in key order so the result is stable.
func (p *ParsedDatabaseURL) ToDSN() string {
	var b strings.Builder
	fmt.Fprintf(&b, "host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)

	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, p.Options[k])
	}
	return b.String()
}
