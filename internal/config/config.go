package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/storage"
	"github.com/poofware/coi-service/internal/utils"
)

type Config struct {
	AppName        string
	Env            string
	AppPort        string
	AppUrl         string
	StorageDriver  string
	SQLitePath     string
	DBUrl          string
	Location       *time.Location
	SearchDebounce time.Duration

	LDFlag_SeedDbWithTestData bool
	LDFlag_CORSHighSecurity   bool
	LDFlag_StatusMaintenance  bool
}

const (
	DefaultAppName      = "coi-service"
	LDConnectionTimeout = 5 * time.Second

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:5173"
)

// Set via -ldflags; all optional.
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// LoadConfig reads the process environment and exits on invalid input.
func LoadConfig() *Config {
	cfg, err := Load(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}
	return cfg
}

// Load builds a Config from getenv. Feature flags come from LaunchDarkly
// when LD_SDK_KEY is set, otherwise from the matching env vars.
func Load(getenv func(string) string) (*Config, error) {
	appName := AppName
	if appName == "" {
		appName = DefaultAppName
	}
	utils.Logger.Info("Loading config for app: ", appName)

	cfg := &Config{
		AppName:       appName,
		Env:           envOr(getenv, "ENV", "dev"),
		AppPort:       envOr(getenv, "APP_PORT", "8080"),
		AppUrl:        envOr(getenv, "APP_URL_FROM_ANYWHERE", CORSLowSecurityAllowedOriginLocalhost),
		StorageDriver: envOr(getenv, "STORAGE_DRIVER", storage.DriverMemory),
		SQLitePath:    envOr(getenv, "SQLITE_PATH", "coi.db"),
		DBUrl:         getenv("DB_URL"),
	}

	switch cfg.StorageDriver {
	case storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverPostgres:
		if cfg.DBUrl == "" {
			return nil, fmt.Errorf("DB_URL env var is required for STORAGE_DRIVER=%s", storage.DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cfg.Location = time.Local
	if tz := getenv("TIME_ZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	cfg.SearchDebounce = constants.DefaultSearchDebounce
	if raw := getenv("SEARCH_DEBOUNCE_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE_MS %q", raw)
		}
		cfg.SearchDebounce = time.Duration(ms) * time.Millisecond
	}

	if key := getenv("LD_SDK_KEY"); key != "" {
		if err := cfg.loadLDFlags(key); err != nil {
			return nil, err
		}
	} else {
		var err error
		if cfg.LDFlag_SeedDbWithTestData, err = envBool(getenv, "SEED_DB_WITH_TEST_DATA", true); err != nil {
			return nil, err
		}
		if cfg.LDFlag_CORSHighSecurity, err = envBool(getenv, "CORS_HIGH_SECURITY", false); err != nil {
			return nil, err
		}
		if cfg.LDFlag_StatusMaintenance, err = envBool(getenv, "STATUS_MAINTENANCE", true); err != nil {
			return nil, err
		}
	}
	utils.Logger.Debugf("flags: seed_db_with_test_data=%t cors_high_security=%t status_maintenance=%t",
		cfg.LDFlag_SeedDbWithTestData, cfg.LDFlag_CORSHighSecurity, cfg.LDFlag_StatusMaintenance)

	return cfg, nil
}

func (c *Config) loadLDFlags(sdkKey string) error {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()

	kind, key := LDServerContextKind, LDServerContextKey
	if kind == "" {
		kind = "service"
	}
	if key == "" {
		key = c.AppName + "-" + c.Env
	}
	ctx := ldcontext.NewWithKind(ldcontext.Kind(kind), key)

	if c.LDFlag_SeedDbWithTestData, err = ldClient.BoolVariation("seed_db_with_test_data", ctx, true); err != nil {
		return fmt.Errorf("retrieve seed_db_with_test_data flag: %w", err)
	}
	if c.LDFlag_CORSHighSecurity, err = ldClient.BoolVariation("cors_high_security", ctx, false); err != nil {
		return fmt.Errorf("retrieve cors_high_security flag: %w", err)
	}
	if c.LDFlag_StatusMaintenance, err = ldClient.BoolVariation("status_maintenance", ctx, true); err != nil {
		return fmt.Errorf("retrieve status_maintenance flag: %w", err)
	}
	return nil
}

// StorageOptions maps the config onto the storage factory.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Driver: c.StorageDriver, SQLitePath: c.SQLitePath, DBUrl: c.DBUrl}
}

// Now is the service clock in the configured time zone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

func envOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}
