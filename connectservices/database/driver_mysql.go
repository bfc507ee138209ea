package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

func NewDriverMySQL(config DriverMySQLConfig) (Driver, error) {
	if err := requireConfig(map[string]string{
		"host":     config.Host,
		"database": config.Name,
		"username": config.User,
	}, "host", "database", "username"); err != nil {
		return nil, err
	}

	mysqlConfig, err := config.mysqlConfig()
	if err != nil {
		return nil, err
	}

	return &driverMySQL{
		config:      config,
		mysqlConfig: mysqlConfig,
	}, nil
}

// DriverMySQLConfig requires Host, Name and User. An empty Pass is allowed
// for accounts without a password.
type DriverMySQLConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	Name      string
	Options   map[string]string
	Charset   string
	Collation string
	Timezone  string
}

// mysqlConfig builds the connector config. Options are DSN parameters, so
// they get the same validation as a hand written DSN.
func (config DriverMySQLConfig) mysqlConfig() (*mysql.Config, error) {
	port := config.Port
	if port == 0 {
		port = 3306
	}

	base := mysql.NewConfig()
	base.User = config.User
	base.Passwd = config.Pass
	base.Net = "tcp"
	base.Addr = fmt.Sprintf("%s:%d", config.Host, port)
	base.DBName = config.Name
	base.ParseTime = true

	dsn := base.FormatDSN()
	if len(config.Options) > 0 {
		options := url.Values{}
		for key, value := range config.Options {
			options.Set(key, value)
		}

		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + options.Encode()
	}

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, ConnectFailure{
			Message: "config database [options] rejected",
			Err:     fmt.Errorf("%w: %w", ErrInvalidOptions, err),
		}
	}

	return parsed, nil
}

type driverMySQL struct {
	config      DriverMySQLConfig
	mysqlConfig *mysql.Config
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	connector, err := mysql.NewConnector(driver.mysqlConfig)
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(connector), nil
}

func (driver *driverMySQL) Name() string {
	return "mysql"
}

func (driver *driverMySQL) assembleLimit(limit *int, offset *int) string {
	return assembleLimit(limit, offset)
}

func (driver *driverMySQL) lastInsertIDQuery() string {
	return ""
}

func (driver *driverMySQL) postConnectStatements() []statement {
	statements := []statement{}

	if driver.config.Charset != "" {
		query := "SET NAMES " + quoteLiteral(driver.config.Charset)
		if driver.config.Collation != "" {
			query += " COLLATE " + quoteLiteral(driver.config.Collation)
		}

		statements = append(statements, statement{Query: query})
	}

	if driver.config.Timezone != "" {
		statements = append(statements, statement{
			Query: "SET time_zone = " + quoteLiteral(driver.config.Timezone),
		})
	}

	return statements
}

func (driver *driverMySQL) quoteIdentifier(name string) string {
	return quoteIdentifier("`", name)
}

func (driver *driverMySQL) usesNumberedParameters() bool {
	return false
}
