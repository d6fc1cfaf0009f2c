package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultPath is where the config file lives relative to the working directory.
const DefaultPath = "config/config.yaml"

// Config is the full application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	Authority  AuthorityConfig  `mapstructure:"authority"`
	LevelDB    LevelDBConfig    `mapstructure:"leveldb"`
	Screening  ScreeningConfig  `mapstructure:"screening"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Render     RenderConfig     `mapstructure:"render"`
}

// LogConfig selects the log destination and level
type LogConfig struct {
	AppLogFile string `mapstructure:"app_log_file"`
	Level      string `mapstructure:"level"`
}

// ServerConfig holds the simulator API listener settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthorityConfig describes the decision authority, both as a server and as seen by the simulator
type AuthorityConfig struct {
	URL         string        `mapstructure:"url"`
	Port        int           `mapstructure:"port"`
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 waits forever
	Validators  int           `mapstructure:"validators"`
}

// LevelDBConfig locates the chain store
type LevelDBConfig struct {
	Path string `mapstructure:"path"` // empty keeps chains in memory
}

// ScreeningConfig tunes how validators judge an entry
type ScreeningConfig struct {
	EntropyThreshold float64 `mapstructure:"entropy_threshold"`
	DNSBLZone        string  `mapstructure:"dnsbl_zone"` // empty disables the blocklist
}

// SimulationConfig holds the round timings and display settings
type SimulationConfig struct {
	VoteDelay         time.Duration `mapstructure:"vote_delay"`
	ResetDelay        time.Duration `mapstructure:"reset_delay"`
	AnimationDuration time.Duration `mapstructure:"animation_duration"`
	FadeStart         float64       `mapstructure:"fade_start"`
	FrameInterval     time.Duration `mapstructure:"frame_interval"`
	LogDisplay        int           `mapstructure:"log_display"`
}

// RenderConfig enables the render surfaces
type RenderConfig struct {
	Terminal         bool          `mapstructure:"terminal"`
	TerminalInterval time.Duration `mapstructure:"terminal_interval"`
	Websocket        bool          `mapstructure:"websocket"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.app_log_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("authority.url", "http://localhost:5000")
	v.SetDefault("authority.port", 5000)
	v.SetDefault("authority.submit_delay", 3*time.Second)
	v.SetDefault("authority.timeout", time.Duration(0))
	v.SetDefault("authority.validators", 5)
	v.SetDefault("leveldb.path", "")
	v.SetDefault("screening.entropy_threshold", 4.0)
	v.SetDefault("screening.dnsbl_zone", "zen.spamhaus.org")
	v.SetDefault("simulation.vote_delay", 1500*time.Millisecond)
	v.SetDefault("simulation.reset_delay", 2000*time.Millisecond)
	v.SetDefault("simulation.animation_duration", 1500*time.Millisecond)
	v.SetDefault("simulation.fade_start", 0.9)
	v.SetDefault("simulation.frame_interval", 16*time.Millisecond)
	v.SetDefault("simulation.log_display", 5)
	v.SetDefault("render.terminal", true)
	v.SetDefault("render.terminal_interval", 100*time.Millisecond)
	v.SetDefault("render.websocket", true)
}

// Load reads defaults, then the config file at path (a missing file is fine
// unless the path was given explicitly), then any flags that were set.
// Flags bind by their viper key, e.g. "server.port".
func Load(path string, explicit bool, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
