package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"massnet.org/sha2/config"
	"massnet.org/sha2/logging"
	"massnet.org/sha2/sumpool"
)

// skipFileLogs marks commands that never touch files, so they leave the log
// directory alone.
const skipFileLogs = "sha2sum.skip_file_logs"

// app carries what every subcommand shares: the loaded config and the
// lazily started worker pool.
type app struct {
	cfgFile         string
	usingConfigFile bool
	cfg             *config.Config
	pool            *sumpool.Pool
}

// init reads the config file, SHA2SUM_* environment variables and flags,
// then initializes file logging unless cmd is annotated with skipFileLogs.
func (a *app) init(cmd *cobra.Command) error {
	v := viper.New()
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath("./")
		v.SetConfigName(strings.TrimSuffix(config.DefaultConfigFilename, ".json"))
		v.SetConfigType("json")
	}
	v.SetEnvPrefix("sha2sum")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := config.DefaultConfig()
	v.SetDefault("log.log_dir", defaults.Log.LogDir)
	v.SetDefault("log.log_level", defaults.Log.LogLevel)
	v.SetDefault("log.log_age", defaults.Log.LogAge)
	v.SetDefault("log.disable_cprint", defaults.Log.DisableCPrint)
	v.SetDefault("pool.workers", defaults.Pool.Workers)
	v.SetDefault("pool.cache_entries", defaults.Pool.CacheEntries)
	v.SetDefault("datastore.dir", defaults.Datastore.Dir)
	v.SetDefault("datastore.db_type", defaults.Datastore.DBType)

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || a.cfgFile != "" {
			return errors.Wrap(err, "read config")
		}
	} else {
		a.usingConfigFile = true
	}

	a.cfg = &config.Config{
		Log: &config.Log{
			LogDir:        v.GetString("log.log_dir"),
			LogLevel:      v.GetString("log.log_level"),
			LogAge:        v.GetUint32("log.log_age"),
			DisableCPrint: v.GetBool("log.disable_cprint"),
		},
		Pool: &config.Pool{
			Workers:      v.GetInt("pool.workers"),
			CacheEntries: v.GetInt("pool.cache_entries"),
		},
		Datastore: &config.Datastore{
			Dir:    v.GetString("datastore.dir"),
			DBType: v.GetString("datastore.db_type"),
		},
	}
	if err := config.CheckConfig(a.cfg); err != nil {
		return err
	}
	if _, skip := cmd.Annotations[skipFileLogs]; skip {
		return nil
	}

	if err := logging.Init(a.cfg.Log.LogDir, config.DefaultLoggingFilename, a.cfg.Log.LogLevel,
		a.cfg.Log.LogAge, a.cfg.Log.DisableCPrint); err != nil {
		return err
	}
	logging.VPrint(logging.INFO, "sha2sum started", logging.LogFormat{
		"command":     cmd.Name(),
		"config_file": a.usingConfigFile,
		"workers":     a.cfg.Pool.Workers,
	})
	return nil
}

// bindFlags lets explicitly set flags override the config file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"log.log_dir":   "log_dir",
		"log.log_level": "log_level",
		"pool.workers":  "workers",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// workerPool starts the pool on first use.
func (a *app) workerPool() (*sumpool.Pool, error) {
	if a.pool == nil {
		pool, err := sumpool.NewPool(a.cfg.Pool.Workers, a.cfg.Pool.CacheEntries)
		if err != nil {
			return nil, err
		}
		a.pool = pool
	}
	return a.pool, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
