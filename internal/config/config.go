package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	Throughputs ThroughputsConfig
	Atmosphere  AtmosphereConfig
	SkyModel    SkyModelConfig
	OpSim       OpSimConfig
	Results     ResultsConfig
	Database    DatabaseConfig
	Recalc      RecalcConfig
	Weather     WeatherConfig
	Survey      SurveyConfig
	Metrics     MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ThroughputsConfig struct {
	Dir        string
	MinWavelen float64
	MaxWavelen float64
	Step       float64
}

type AtmosphereConfig struct {
	Dir       string
	CacheSize int
}

type SkyModelConfig struct {
	URL     string
	Timeout time.Duration
}

type OpSimConfig struct {
	Path string
}

// ResultsConfig selects where recalculated values are stored: "file" writes
// JSON lines under Dir, "postgres" uses the Database settings.
type ResultsConfig struct {
	Backend string
	Dir     string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RecalcConfig struct {
	Partitions    int
	Workers       int
	ProgressEvery int
	SkyMags       bool
	Depths        bool
}

type WeatherConfig struct {
	SeeingFile string
	CloudFile  string
	StartDate  float64
}

type SurveyConfig struct {
	StartMJD float64
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("THROUGHPUTS_DIR", "./throughputs/baseline")
	v.SetDefault("THROUGHPUTS_MIN_WAVELEN", 300.0)
	v.SetDefault("THROUGHPUTS_MAX_WAVELEN", 1150.0)
	v.SetDefault("THROUGHPUTS_STEP", 0.1)
	v.SetDefault("ATMOSPHERE_DIR", "./throughputs/atmos")
	v.SetDefault("ATMOSPHERE_CACHE_SIZE", 16)
	v.SetDefault("SKYMODEL_URL", "http://localhost:8090")
	v.SetDefault("SKYMODEL_TIMEOUT", "30s")
	v.SetDefault("OPSIM_PATH", "")
	v.SetDefault("RESULTS_BACKEND", "file")
	v.SetDefault("RESULTS_DIR", "./results")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "obscond")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("RECALC_PARTITIONS", 40)
	v.SetDefault("RECALC_WORKERS", 8)
	v.SetDefault("RECALC_PROGRESS_EVERY", 1000)
	v.SetDefault("RECALC_SKY_MAGS", true)
	v.SetDefault("RECALC_DEPTHS", true)
	v.SetDefault("WEATHER_SEEING_FILE", "")
	v.SetDefault("WEATHER_CLOUD_FILE", "")
	v.SetDefault("WEATHER_START_DATE", 0.0)
	v.SetDefault("SURVEY_START_MJD", 59579.6)
	v.SetDefault("METRICS_ENABLED", true)

	// Env
	v.AutomaticEnv()

	skyTimeout, err := time.ParseDuration(v.GetString("SKYMODEL_TIMEOUT"))
	if err != nil {
		skyTimeout = 30 * time.Second
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Throughputs: ThroughputsConfig{
			Dir:        v.GetString("THROUGHPUTS_DIR"),
			MinWavelen: v.GetFloat64("THROUGHPUTS_MIN_WAVELEN"),
			MaxWavelen: v.GetFloat64("THROUGHPUTS_MAX_WAVELEN"),
			Step:       v.GetFloat64("THROUGHPUTS_STEP"),
		},
		Atmosphere: AtmosphereConfig{
			Dir:       v.GetString("ATMOSPHERE_DIR"),
			CacheSize: v.GetInt("ATMOSPHERE_CACHE_SIZE"),
		},
		SkyModel: SkyModelConfig{
			URL:     v.GetString("SKYMODEL_URL"),
			Timeout: skyTimeout,
		},
		OpSim: OpSimConfig{
			Path: v.GetString("OPSIM_PATH"),
		},
		Results: ResultsConfig{
			Backend: v.GetString("RESULTS_BACKEND"),
			Dir:     v.GetString("RESULTS_DIR"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Recalc: RecalcConfig{
			Partitions:    v.GetInt("RECALC_PARTITIONS"),
			Workers:       v.GetInt("RECALC_WORKERS"),
			ProgressEvery: v.GetInt("RECALC_PROGRESS_EVERY"),
			SkyMags:       v.GetBool("RECALC_SKY_MAGS"),
			Depths:        v.GetBool("RECALC_DEPTHS"),
		},
		Weather: WeatherConfig{
			SeeingFile: v.GetString("WEATHER_SEEING_FILE"),
			CloudFile:  v.GetString("WEATHER_CLOUD_FILE"),
			StartDate:  v.GetFloat64("WEATHER_START_DATE"),
		},
		Survey: SurveyConfig{
			StartMJD: v.GetFloat64("SURVEY_START_MJD"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port))
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		result = multierror.Append(result, fmt.Errorf("LOGGER_FORMAT must be json or text, got %q", c.Logger.Format))
	}
	if !(c.Throughputs.Step > 0) || c.Throughputs.MaxWavelen <= c.Throughputs.MinWavelen {
		result = multierror.Append(result, fmt.Errorf("throughput grid [%g, %g] step %g is empty",
			c.Throughputs.MinWavelen, c.Throughputs.MaxWavelen, c.Throughputs.Step))
	}
	if c.Atmosphere.CacheSize < 0 {
		result = multierror.Append(result, fmt.Errorf("ATMOSPHERE_CACHE_SIZE must be >= 0, got %d", c.Atmosphere.CacheSize))
	}
	if c.SkyModel.URL == "" {
		result = multierror.Append(result, fmt.Errorf("SKYMODEL_URL is required"))
	}
	switch c.Results.Backend {
	case "file":
		if c.Results.Dir == "" {
			result = multierror.Append(result, fmt.Errorf("RESULTS_DIR is required for the file backend"))
		}
	case "postgres":
	default:
		result = multierror.Append(result, fmt.Errorf("RESULTS_BACKEND must be file or postgres, got %q", c.Results.Backend))
	}
	if c.Recalc.Partitions < 1 {
		result = multierror.Append(result, fmt.Errorf("RECALC_PARTITIONS must be >= 1, got %d", c.Recalc.Partitions))
	}
	if c.Recalc.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("RECALC_WORKERS must be >= 1, got %d", c.Recalc.Workers))
	}

	return result.ErrorOrNil()
}
