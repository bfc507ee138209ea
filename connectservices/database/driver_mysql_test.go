package database_test

import (
	"errors"
	"testing"

	"github.com/lunagic/connect/connectservices/database"
	"github.com/lunagic/connect/connecttest"
	"gotest.tools/v3/assert"
)

func Test_DriverMySQL_8(t *testing.T) {
	t.Parallel()
	testSuite(t, connecttest.MySQL(t, "mysql", "8"))
}

func Test_DriverMySQL_MariaDB_11_4(t *testing.T) {
	t.Parallel()
	testSuite(t, connecttest.MySQL(t, "mariadb", "11.4"))
}

func Test_DriverMySQL_MariaDB_10_6(t *testing.T) {
	t.Parallel()
	testSuite(t, connecttest.MySQL(t, "mariadb", "10.6"))
}

func TestDriverMySQLConfig(t *testing.T) {
	testCases := []struct {
		name          string
		config        database.DriverMySQLConfig
		expectedErr   error
		expectedMatch string
	}{
		{
			name:          "missing host",
			config:        database.DriverMySQLConfig{Name: "connect", User: "connect"},
			expectedErr:   database.ErrMissingConfig,
			expectedMatch: "config database [host] not found",
		},
		{
			name:          "missing database",
			config:        database.DriverMySQLConfig{Host: "localhost", User: "connect"},
			expectedErr:   database.ErrMissingConfig,
			expectedMatch: "config database [database] not found",
		},
		{
			name:          "missing username",
			config:        database.DriverMySQLConfig{Host: "localhost", Name: "connect"},
			expectedErr:   database.ErrMissingConfig,
			expectedMatch: "config database [username] not found",
		},
		{
			name: "invalid option",
			config: database.DriverMySQLConfig{
				Host:    "localhost",
				Name:    "connect",
				User:    "connect",
				Options: map[string]string{"timeout": "soon"},
			},
			expectedErr:   database.ErrInvalidOptions,
			expectedMatch: "config database [options] rejected",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := database.NewDriverMySQL(testCase.config)
			assert.ErrorIs(t, err, testCase.expectedErr)
			assert.ErrorContains(t, err, testCase.expectedMatch)

			var failure database.ConnectFailure
			assert.Assert(t, errors.As(err, &failure))
		})
	}

	driver, err := database.NewDriverMySQL(database.DriverMySQLConfig{
		Host:    "localhost",
		Name:    "connect",
		User:    "connect",
		Options: map[string]string{"timeout": "5s"},
	})
	assert.NilError(t, err)
	assert.Equal(t, "mysql", driver.Name())
}
