package connect

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// LoadConfig reads the "database" section from, in increasing priority, the
// NewConfig defaults, a .connect.yaml file (configFile when given) and
// CONNECT_DATABASE_* environment variables. .env and .env.local are loaded
// into the environment first, .env.local overriding. The host and database
// defaults only apply to sqlite.
func LoadConfig(fs afero.Fs, configFile string) (Config, error) {
	if err := loadDotEnv(fs, ".env", false); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(fs, ".env.local", true); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix("CONNECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := NewConfig()
	v.SetDefault("database.driver", defaults.Driver)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName(".connect")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "connect"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	// Server drivers must name their host and database explicitly.
	if v.GetString("database.driver") == defaults.Driver {
		v.SetDefault("database.host", defaults.Host)
		v.SetDefault("database.database", defaults.Name)
	}

	raw := map[string]any{}
	for _, key := range configKeys {
		if v.IsSet("database." + key) {
			raw[key] = v.Get("database." + key)
		}
	}

	return ParseConfig(raw)
}

// loadDotEnv applies a dotenv file to the process environment. Missing files
// are skipped. Existing variables are only replaced when override is set.
func loadDotEnv(fs afero.Fs, name string, override bool) error {
	contents, err := afero.ReadFile(fs, name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	values, err := godotenv.UnmarshalBytes(contents)
	if err != nil {
		return err
	}

	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}
