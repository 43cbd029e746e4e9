package project

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/GangSheet/internal/model"
)

// AppConfig is the application configuration, loaded from a YAML file.
type AppConfig struct {
	DataDir string `yaml:"data_dir"`

	Costs struct {
		SheetCost       float64 `yaml:"sheet_cost"`
		ScreenSetupCost float64 `yaml:"screen_setup_cost"`
		MinUtilization  float64 `yaml:"min_utilization"`
		ColumnCapacity  int     `yaml:"column_capacity"`
	} `yaml:"costs"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Watch struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"watch"`
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file is present.
func DefaultAppConfig() AppConfig {
	var cfg AppConfig
	cfg.DataDir = DefaultDataDir()
	s := model.DefaultSettings()
	cfg.Costs.SheetCost = s.SheetCost
	cfg.Costs.ScreenSetupCost = s.ScreenSetupCost
	cfg.Costs.MinUtilization = s.MinUtilization
	cfg.Costs.ColumnCapacity = s.ColumnCapacity
	cfg.Metrics.Port = 9090
	cfg.Watch.IntervalSeconds = 300
	return cfg
}

// Settings converts the configured cost constants into engine settings.
func (c AppConfig) Settings() model.GangSettings {
	return model.GangSettings{
		SheetCost:       c.Costs.SheetCost,
		ScreenSetupCost: c.Costs.ScreenSetupCost,
		MinUtilization:  c.Costs.MinUtilization,
		ColumnCapacity:  c.Costs.ColumnCapacity,
	}
}

// SaveAppConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, cfg AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return cfg, nil
}
