package connecttest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/connect/connectservices/database"
)

// MySQL starts a MySQL compatible server (mysql or mariadb images) with a
// fresh database and user.
func MySQL(t *testing.T, repository string, tag string) database.Driver {
	name := uuid.NewString()
	pass := uuid.NewString()
	user := uuid.NewString()[0:32] // MySQL user names are limited to 32 characters

	return GetDockerService(t, DockerServiceConfig[database.Driver]{
		Repository:   repository,
		Tag:          tag,
		InternalPort: 3306,
		Environment: map[string]string{
			"MYSQL_ROOT_PASSWORD": uuid.NewString(),
			"MYSQL_DATABASE":      name,
			"MYSQL_USER":          user,
			"MYSQL_PASSWORD":      pass,
		},
		Builder: func(host string, port int) (database.Driver, error) {
			driver, err := database.NewDriverMySQL(database.DriverMySQLConfig{
				Host:     host,
				Port:     port,
				User:     user,
				Pass:     pass,
				Name:     name,
				Charset:  "utf8mb4",
				Timezone: "+00:00",
			})
			if err != nil {
				return nil, err
			}

			return driver, ping(driver)
		},
	})
}

func Postgres(t *testing.T, tag string) database.Driver {
	name := uuid.NewString()
	pass := uuid.NewString()
	user := uuid.NewString()

	return GetDockerService(t, DockerServiceConfig[database.Driver]{
		Repository:   "postgres",
		Tag:          tag,
		InternalPort: 5432,
		Environment: map[string]string{
			"POSTGRES_DB":       name,
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
		},
		Builder: func(host string, port int) (database.Driver, error) {
			driver, err := database.NewDriverPostgres(database.DriverPostgresConfig{
				Host:     host,
				Port:     port,
				User:     user,
				Pass:     pass,
				Name:     name,
				Charset:  "UTF8",
				Timezone: "UTC",
			})
			if err != nil {
				return nil, err
			}

			return driver, ping(driver)
		},
	})
}

// SQLite returns a driver for a database file inside the test's temp dir.
func SQLite(t *testing.T) database.Driver {
	t.Helper()

	driver, err := database.NewDriverSQLite(database.DriverSQLiteConfig{
		Path: filepath.Join(t.TempDir(), "database.sqlite"),
	})
	if err != nil {
		t.Fatalf("sqlite driver: %s", err)
	}

	return driver
}

func ping(driver database.Driver) error {
	db, err := driver.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	return db.PingContext(context.Background())
}
