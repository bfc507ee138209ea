package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Driver is a SQL dialect: how to open the database, quote identifiers,
// paginate and find the id of the last inserted row.
type Driver interface {
	Open() (*sql.DB, error)
	Name() string
	assembleLimit(limit *int, offset *int) string
	// lastInsertIDQuery is empty when the executor result carries the id.
	lastInsertIDQuery() string
	postConnectStatements() []statement
	quoteIdentifier(name string) string
	usesNumberedParameters() bool
}

// quoteLiteral renders a string literal for session statements that cannot
// take bound parameters (SET NAMES, SET time_zone).
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func requireConfig(values map[string]string, keys ...string) error {
	for _, key := range keys {
		if values[key] == "" {
			return ConnectFailure{
				Message: fmt.Sprintf("config database [%s] not found", key),
				Err:     ErrMissingConfig,
			}
		}
	}

	return nil
}
