package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

func NewDriverPostgres(config DriverPostgresConfig) (Driver, error) {
	if err := requireConfig(map[string]string{
		"host":     config.Host,
		"database": config.Name,
		"username": config.User,
	}, "host", "database", "username"); err != nil {
		return nil, err
	}

	connector, err := pq.NewConnector(config.dsn())
	if err != nil {
		return nil, ConnectFailure{
			Message: "config database [options] rejected",
			Err:     fmt.Errorf("%w: %w", ErrInvalidOptions, err),
		}
	}

	return &driverPostgres{
		config:    config,
		connector: connector,
	}, nil
}

// DriverPostgresConfig requires Host, Name and User. An empty Pass is allowed
// for trust or peer authentication.
type DriverPostgresConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	Name     string
	Options  map[string]string
	Charset  string
	Timezone string
}

func (config DriverPostgresConfig) dsn() string {
	port := config.Port
	if port == 0 {
		port = 5432
	}

	settings := map[string]string{
		"host":     config.Host,
		"port":     fmt.Sprint(port),
		"user":     config.User,
		"password": config.Pass,
		"dbname":   config.Name,
		"sslmode":  "disable",
	}
	for key, value := range config.Options {
		settings[key] = value
	}

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+postgresDSNValue(settings[key]))
	}

	return strings.Join(parts, " ")
}

func postgresDSNValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}

	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)

	return "'" + value + "'"
}

type driverPostgres struct {
	config    DriverPostgresConfig
	connector *pq.Connector
}

func (driver *driverPostgres) Open() (*sql.DB, error) {
	return sql.OpenDB(driver.connector), nil
}

func (driver *driverPostgres) Name() string {
	return "postgres"
}

func (driver *driverPostgres) assembleLimit(limit *int, offset *int) string {
	return assembleLimitOffset(limit, offset)
}

// lib/pq does not support sql.Result.LastInsertId, the session sequence
// value is read instead.
func (driver *driverPostgres) lastInsertIDQuery() string {
	return "SELECT lastval()"
}

func (driver *driverPostgres) postConnectStatements() []statement {
	statements := []statement{}

	if driver.config.Charset != "" {
		statements = append(statements, statement{
			Query: "SET client_encoding TO " + quoteLiteral(driver.config.Charset),
		})
	}

	if driver.config.Timezone != "" {
		statements = append(statements, statement{
			Query: "SET TIME ZONE " + quoteLiteral(driver.config.Timezone),
		})
	}

	return statements
}

func (driver *driverPostgres) quoteIdentifier(name string) string {
	return quoteIdentifier(`"`, name)
}

func (driver *driverPostgres) usesNumberedParameters() bool {
	return true
}
