package database

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

func NewDriverSQLite(config DriverSQLiteConfig) (Driver, error) {
	if err := requireConfig(map[string]string{
		"database": config.Path,
	}, "database"); err != nil {
		return nil, err
	}

	return &driverSQLite{
		config: config,
	}, nil
}

type DriverSQLiteConfig struct {
	Path    string
	Options map[string]string
}

type driverSQLite struct {
	config DriverSQLiteConfig
}

func (driver *driverSQLite) dsn() string {
	options := url.Values{}
	options.Set("cache", "shared")
	options.Set("_foreign_keys", "on")
	for key, value := range driver.config.Options {
		options.Set(key, value)
	}

	return fmt.Sprintf("file:%s?%s", driver.config.Path, options.Encode())
}

func (driver *driverSQLite) Open() (*sql.DB, error) {
	return sql.Open("sqlite3", driver.dsn())
}

func (driver *driverSQLite) Name() string {
	return "sqlite"
}

// SQLite accepts the MySQL "LIMIT offset,count" form.
func (driver *driverSQLite) assembleLimit(limit *int, offset *int) string {
	return assembleLimit(limit, offset)
}

func (driver *driverSQLite) lastInsertIDQuery() string {
	return ""
}

// Encoding is fixed at database creation and there is no session time zone.
func (driver *driverSQLite) postConnectStatements() []statement {
	return nil
}

func (driver *driverSQLite) quoteIdentifier(name string) string {
	return quoteIdentifier(`"`, name)
}

func (driver *driverSQLite) usesNumberedParameters() bool {
	return false
}
