package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Business info printed on invoices
	Business BusinessConfig `yaml:"business"`

	// PDF renderer settings
	Renderer RendererConfig `yaml:"renderer"`

	// Logging settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type InvoiceConfig struct {
	DefaultDueDays int     `yaml:"default_due_days"` // Days until invoice due
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Tax rate as percentage (8.25 = 8.25%)
	OutputDir      string  `yaml:"output_dir"`       // Directory for generated PDFs
	NumberPrefix   string  `yaml:"number_prefix"`    // Invoice number prefix (e.g., "INV")
}

type BusinessConfig struct {
	Name    string `yaml:"name"` // Producer or label name
	Email   string `yaml:"email"`
	Website string `yaml:"website"`
	Address string `yaml:"address"`
}

type RendererConfig struct {
	GotenbergURL string `yaml:"gotenberg_url"` // Empty disables PDF rendering
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DefaultConfigPath returns ~/.config/beatbooks/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "beatbooks", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "beatbooks", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	configDir := filepath.Join(homeDir, ".config", "beatbooks")

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(configDir, "beatbooks.db"),
		},
		Invoice: InvoiceConfig{
			DefaultDueDays: 30,
			DefaultTaxRate: 0.0,
			OutputDir:      filepath.Join(configDir, "invoices"),
			NumberPrefix:   "INV",
		},
		Renderer: RendererConfig{
			GotenbergURL: "",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: filepath.Join(configDir, "beatbooks.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// applyEnv lets BEATBOOKS_* environment variables override file values
func (c *Config) applyEnv() {
	if v := os.Getenv("BEATBOOKS_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("BEATBOOKS_GOTENBERG_URL"); v != "" {
		c.Renderer.GotenbergURL = v
	}
	if v := os.Getenv("BEATBOOKS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BEATBOOKS_INVOICE_PREFIX"); v != "" {
		c.Invoice.NumberPrefix = v
	}
	if v := os.Getenv("BEATBOOKS_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Invoice.DefaultTaxRate = rate
		}
	}
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, invoices, etc.)
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.Invoice.OutputDir, 0755)
}
