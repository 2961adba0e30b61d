package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/saveblush/reraw-search/core/utils/logger"
)

var current atomic.Pointer[Configs]

func init() {
	current.Store(defaultConfigs())
}

// CF current config, a reload swaps in a new value so hold on to the
// returned pointer for a consistent view
func CF() *Configs {
	return current.Load()
}

var (
	filePath       = "./configs"
	fileExtension  = "yml"
	fileNameConfig = "config"
)

// Environment environment
type Environment string

const (
	Develop    Environment = "develop"
	Production Environment = "prod"
)

// Production check is production
func (e Environment) Production() bool {
	return e == Production
}

// CacheDriver storage behind the ttl cache
type CacheDriver string

const (
	CacheMemory   CacheDriver = "memory"
	CachePostgres CacheDriver = "postgres"
)

type DatabaseConfig struct {
	Host         string        `mapstructure:"HOST"`
	Port         int           `mapstructure:"PORT"`
	Username     string        `mapstructure:"USERNAME"`
	Password     string        `mapstructure:"PASSWORD"`
	DatabaseName string        `mapstructure:"DATABASE_NAME"`
	MaxIdleConns int           `mapstructure:"MAX_IDLE_CONNS"`
	MaxOpenConns int           `mapstructure:"MAX_OPEN_CONNS"`
	MaxLifetime  time.Duration `mapstructure:"MAX_LIFE_TIME"`
}

type QueryConfig struct {
	Relays           []string      `mapstructure:"RELAYS"`
	Limit            int           `mapstructure:"LIMIT"`
	Timeout          time.Duration `mapstructure:"TIMEOUT"`
	SearchRelays     []string      `mapstructure:"SEARCH_RELAYS"`
	SearchLimit      int           `mapstructure:"SEARCH_LIMIT"`
	SearchTimeout    time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	AllowInsecure    bool          `mapstructure:"ALLOW_INSECURE"`
	MaxMessageLength int64         `mapstructure:"MAX_MESSAGE_LENGTH"`
}

type FollowingsConfig struct {
	Limit              int           `mapstructure:"LIMIT"`
	TTL                time.Duration `mapstructure:"TTL"`
	ListTimeout        time.Duration `mapstructure:"LIST_TIMEOUT"`
	ProfileTimeout     time.Duration `mapstructure:"PROFILE_TIMEOUT"`
	ProfileRate        float64       `mapstructure:"PROFILE_RATE"`
	ProfileConcurrency int           `mapstructure:"PROFILE_CONCURRENCY"`
}

type CacheConfig struct {
	Driver        CacheDriver `mapstructure:"DRIVER"`
	PurgeSchedule string      `mapstructure:"PURGE_SCHEDULE"`
}

type Configs struct {
	App struct {
		Environment Environment `mapstructure:"ENVIRONMENT"`
		Pubkey      string      `mapstructure:"PUBKEY"` // login identity, hex or npub
	} `mapstructure:"APP"`

	Query      QueryConfig      `mapstructure:"QUERY"`
	Followings FollowingsConfig `mapstructure:"FOLLOWINGS"`
	Cache      CacheConfig      `mapstructure:"CACHE"`

	Database struct {
		CacheSQL DatabaseConfig `mapstructure:"CACHE_SQL"`
	} `mapstructure:"DATABASE"`
}

// setDefaults register default values
// env ใช้ได้เฉพาะ key ที่มี default
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP.ENVIRONMENT", string(Develop))
	v.SetDefault("APP.PUBKEY", "")

	v.SetDefault("QUERY.RELAYS", []string{"wss://relay.damus.io", "wss://nos.lol", "wss://relay.nostr.band"})
	v.SetDefault("QUERY.LIMIT", 20)
	v.SetDefault("QUERY.TIMEOUT", 10*time.Second)
	v.SetDefault("QUERY.SEARCH_RELAYS", []string{"wss://relay.nostr.band"})
	v.SetDefault("QUERY.SEARCH_LIMIT", 50)
	v.SetDefault("QUERY.SEARCH_TIMEOUT", 12*time.Second)
	v.SetDefault("QUERY.ALLOW_INSECURE", false)
	v.SetDefault("QUERY.MAX_MESSAGE_LENGTH", 1024*1024)

	v.SetDefault("FOLLOWINGS.LIMIT", 50)
	v.SetDefault("FOLLOWINGS.TTL", 24*time.Hour)
	v.SetDefault("FOLLOWINGS.LIST_TIMEOUT", 10*time.Second)
	v.SetDefault("FOLLOWINGS.PROFILE_TIMEOUT", 6*time.Second)
	v.SetDefault("FOLLOWINGS.PROFILE_RATE", 5.0)
	v.SetDefault("FOLLOWINGS.PROFILE_CONCURRENCY", 4)

	v.SetDefault("CACHE.DRIVER", string(CacheMemory))
	v.SetDefault("CACHE.PURGE_SCHEDULE", "*/30 * * * *")

	v.SetDefault("DATABASE.CACHE_SQL.HOST", "localhost")
	v.SetDefault("DATABASE.CACHE_SQL.PORT", 5432)
	v.SetDefault("DATABASE.CACHE_SQL.USERNAME", "postgres")
	v.SetDefault("DATABASE.CACHE_SQL.PASSWORD", "")
	v.SetDefault("DATABASE.CACHE_SQL.DATABASE_NAME", "reraw_search")
	v.SetDefault("DATABASE.CACHE_SQL.MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE.CACHE_SQL.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.CACHE_SQL.MAX_LIFE_TIME", time.Minute)
}

func defaultConfigs() *Configs {
	v := viper.New()
	setDefaults(v)

	cf := &Configs{}
	_ = v.Unmarshal(cf)

	return cf
}

// bind decodes into a fresh struct, decoding over the old one would keep
// trailing slice items of the previous values
func bind(v *viper.Viper) error {
	cf := &Configs{}
	if err := v.Unmarshal(cf); err != nil {
		return err
	}
	current.Store(cf)

	return nil
}

// InitConfig init config
// file ระบุเองได้ ถ้าไม่ระบุจะหาใน ./configs/config.yml
func InitConfig(file string) error {
	v := viper.New()
	setDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(filePath)
		v.SetConfigName(fileNameConfig)
		v.SetConfigType(fileExtension)
	}
	v.AutomaticEnv()

	// แปลง . dot เป็น _ underscore
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Log.Errorf("read config file error: %s", err)
			return err
		}
		logger.Log.Debugf("config file not found, using defaults")
		watch = false
	}

	if err := bind(v); err != nil {
		logger.Log.Errorf("binding config error: %s", err)
		return err
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			logger.Log.Infof("config file changed: %s", e.Name)
			if err := bind(v); err != nil {
				logger.Log.Errorf("binding config error: %s", err)
			}
		})
		v.WatchConfig()
	}

	return nil
}
