// Package connect loads database settings and builds the matching
// database.Service.
package connect

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/lunagic/connect/connectservices/database"
	"github.com/lunagic/connect/connecttools"
	"github.com/spf13/cast"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config mirrors the keys of the "database" section of a config source.
// Name holds the "database" key: the schema name, or the file for sqlite.
type Config struct {
	Driver    string
	Host      string
	Port      int
	Name      string
	Username  string
	Password  string
	Options   map[string]string
	Charset   string
	Collation string
	Timezone  string
}

func NewConfig() Config {
	return Config{
		Driver: "sqlite",
		Host:   "127.0.0.1",
		Name:   "database.sqlite",
	}
}

var configKeys = []string{
	"driver",
	"host",
	"port",
	"database",
	"username",
	"password",
	"options",
	"charset",
	"collation",
	"timezone",
}

// requiredKeys lists the keys that must be present per driver. A present but
// empty password is accepted.
var requiredKeys = map[string][]string{
	"mysql":    {"host", "database", "username", "password"},
	"postgres": {"host", "database", "username", "password"},
	"sqlite":   {"database"},
}

// ParseConfig validates a loosely typed "database" section, for example one
// read by viper, on top of the NewConfig defaults.
func ParseConfig(raw map[string]any) (Config, error) {
	config := NewConfig()

	if value, found := raw["driver"]; found {
		config.Driver = cast.ToString(value)
	}

	required, found := requiredKeys[config.Driver]
	if !found {
		return Config{}, database.ConnectFailure{
			Message: fmt.Sprintf("config database [driver] %q not supported", config.Driver),
			Err:     ErrInvalidConfig,
		}
	}

	missing := connecttools.Filter(required, func(key string) bool {
		_, found := raw[key]
		return !found
	})
	if len(missing) > 0 {
		return Config{}, database.ConnectFailure{
			Message: fmt.Sprintf("config database [%s] not found", missing[0]),
			Err:     database.ErrMissingConfig,
		}
	}

	for _, key := range configKeys {
		value, found := raw[key]
		if !found || value == nil {
			continue
		}

		if err := config.set(key, value); err != nil {
			return Config{}, database.ConnectFailure{
				Message: fmt.Sprintf("config database [%s] invalid", key),
				Err:     err,
			}
		}
	}

	return config, nil
}

func (config *Config) set(key string, value any) error {
	var err error

	switch key {
	case "host":
		config.Host, err = cast.ToStringE(value)
	case "port":
		config.Port, err = cast.ToIntE(value)
	case "database":
		config.Name, err = cast.ToStringE(value)
	case "username":
		config.Username, err = cast.ToStringE(value)
	case "password":
		config.Password, err = cast.ToStringE(value)
	case "charset":
		config.Charset, err = cast.ToStringE(value)
	case "collation":
		config.Collation, err = cast.ToStringE(value)
	case "timezone":
		config.Timezone, err = cast.ToStringE(value)
	case "options":
		if reflect.TypeOf(value).Kind() != reflect.Map {
			return fmt.Errorf("%w: options must be a mapping, got %T", database.ErrInvalidOptions, value)
		}

		config.Options, err = cast.ToStringMapStringE(value)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// NewDriver builds the dialect named by Driver.
func (config Config) NewDriver() (database.Driver, error) {
	switch config.Driver {
	case "sqlite":
		return database.NewDriverSQLite(database.DriverSQLiteConfig{
			Path:    config.Name,
			Options: config.Options,
		})
	case "postgres":
		return database.NewDriverPostgres(database.DriverPostgresConfig{
			Host:     config.Host,
			Port:     config.Port,
			User:     config.Username,
			Pass:     config.Password,
			Name:     config.Name,
			Options:  config.Options,
			Charset:  config.Charset,
			Timezone: config.Timezone,
		})
	case "mysql":
		return database.NewDriverMySQL(database.DriverMySQLConfig{
			Host:      config.Host,
			Port:      config.Port,
			User:      config.Username,
			Pass:      config.Password,
			Name:      config.Name,
			Options:   config.Options,
			Charset:   config.Charset,
			Collation: config.Collation,
			Timezone:  config.Timezone,
		})
	}

	return nil, database.ConnectFailure{
		Message: fmt.Sprintf("invalid database driver: %s", config.Driver),
		Err:     ErrInvalidConfig,
	}
}

func (config Config) Database(configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	driver, err := config.NewDriver()
	if err != nil {
		return nil, err
	}

	return database.New(driver, configFuncs...)
}
