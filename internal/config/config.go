// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the tabular inputs.
type DataConfig struct {
	// DatasetCSV is the UHF42-level dataset produced by the upstream
	// analysis pipeline (columns UHF42, Population, NO2, O3, Asthma_Count).
	DatasetCSV string `yaml:"dataset_csv" mapstructure:"dataset_csv"`
	// CacheDB is the SQLite cache holding the ZIP3 asthma table and the
	// UHF42 final table used by the zip3 pipeline.
	CacheDB string `yaml:"cache_db" mapstructure:"cache_db"`
}

// BoundaryConfig locates the polygon boundary files. GeoJSON and ESRI
// shapefile sources are both accepted; the loader dispatches on extension.
type BoundaryConfig struct {
	Borough string `yaml:"borough" mapstructure:"borough"`
	ZCTA    string `yaml:"zcta" mapstructure:"zcta"`
}

// RenderConfig configures map output.
type RenderConfig struct {
	OutputDir        string `yaml:"output_dir" mapstructure:"output_dir"`
	DPI              int    `yaml:"dpi" mapstructure:"dpi"`
	BoroughQuantiles int    `yaml:"borough_quantiles" mapstructure:"borough_quantiles"`
	Zip3Quantiles    int    `yaml:"zip3_quantiles" mapstructure:"zip3_quantiles"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AIRMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dataset_csv", "final_dataset.csv")
	v.SetDefault("data.cache_db", "asthma_cache.db")
	v.SetDefault("boundary.borough", "resources/boroughs.geojson")
	v.SetDefault("boundary.zcta", "resources/nyc-zip-code-tabulation-areas-polygons.geojson")
	v.SetDefault("render.output_dir", "output")
	v.SetDefault("render.dpi", 300)
	// Five boroughs cannot reliably support more than two quantile groups.
	v.SetDefault("render.borough_quantiles", 2)
	v.SetDefault("render.zip3_quantiles", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
