package config

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	"massnet.org/sha2/database/storage/ldbstorage"
	"massnet.org/sha2/logging"
)

const (
	AppName                = "sha2sum"
	DefaultConfigFilename  = ".sha2sum.json"
	DefaultLoggingFilename = "sha2sum"
	DefaultLogLevel        = logging.InfoLevel
	defaultLogDirname      = "logs"
	defaultLogAge          = 1
	defaultCacheEntries    = 4096
	defaultDbType          = ldbstorage.DbType
	MaxWorkers             = 1024
)

type Config struct {
	Log       *Log       `json:"log"`
	Pool      *Pool      `json:"pool"`
	Datastore *Datastore `json:"datastore"`
}

type Log struct {
	LogDir        string `json:"log_dir"`
	LogLevel      string `json:"log_level"`
	LogAge        uint32 `json:"log_age"`
	DisableCPrint bool   `json:"disable_cprint"`
}

type Pool struct {
	// Workers is the number of concurrent hashers, 0 means one per logical CPU.
	Workers      int `json:"workers"`
	CacheEntries int `json:"cache_entries"`
}

type Datastore struct {
	Dir    string `json:"dir"`
	DBType string `json:"db_type"`
}

func DefaultConfig() *Config {
	return &Config{
		Log:       DefaultLog(),
		Pool:      DefaultPool(),
		Datastore: DefaultDatastore(),
	}
}

func DefaultLog() *Log {
	return &Log{
		LogDir:        filepath.Join(AppDataDir(AppName, false), defaultLogDirname),
		LogLevel:      DefaultLogLevel,
		LogAge:        defaultLogAge,
		DisableCPrint: false,
	}
}

func DefaultPool() *Pool {
	return &Pool{
		Workers:      0,
		CacheEntries: defaultCacheEntries,
	}
}

func DefaultDatastore() *Datastore {
	return &Datastore{
		Dir:    "",
		DBType: defaultDbType,
	}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err = json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, CheckConfig(cfg)
}

// CheckConfig fills missing sections with defaults and validates the rest.
func CheckConfig(cfg *Config) error {
	if cfg.Log == nil {
		cfg.Log = DefaultLog()
	}
	if cfg.Pool == nil {
		cfg.Pool = DefaultPool()
	}
	if cfg.Datastore == nil {
		cfg.Datastore = DefaultDatastore()
	}

	switch cfg.Log.LogLevel {
	case logging.PanicLevel, logging.FatalLevel, logging.ErrorLevel, logging.WarnLevel,
		logging.InfoLevel, logging.DebugLevel, logging.TraceLevel:
	case "":
		cfg.Log.LogLevel = DefaultLogLevel
	default:
		return errors.Errorf("invalid log level %q", cfg.Log.LogLevel)
	}
	cfg.Log.LogDir = CleanAndExpandPath(cfg.Log.LogDir)
	cfg.Datastore.Dir = CleanAndExpandPath(cfg.Datastore.Dir)

	if cfg.Pool.Workers < 0 || cfg.Pool.Workers > MaxWorkers {
		return errors.Errorf("workers must be within [0, %d], got %d", MaxWorkers, cfg.Pool.Workers)
	}
	if cfg.Pool.CacheEntries < 0 {
		return errors.Errorf("cache entries cannot be negative, got %d", cfg.Pool.CacheEntries)
	}
	if cfg.Datastore.DBType == "" {
		cfg.Datastore.DBType = defaultDbType
	}
	return nil
}
