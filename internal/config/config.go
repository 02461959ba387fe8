package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/brailledoc/internal/braille"
)

type Config struct {
	// Stage directories
	RawDir       string `toml:"raw_dir" yaml:"raw_dir"`
	ProcessedDir string `toml:"processed_dir" yaml:"processed_dir"`
	OutputDir    string `toml:"output_dir" yaml:"output_dir"`

	// OCR
	OCRLanguage string `toml:"ocr_lang" yaml:"ocr_lang"`

	// liblouis
	LouisLibrary   string `toml:"louis_library" yaml:"louis_library"`
	LouisTablePath string `toml:"louis_tablepath" yaml:"louis_tablepath"`
	LouisTable     string `toml:"louis_table" yaml:"louis_table"`

	// Extraction
	Workers              int      `toml:"workers" yaml:"workers"`
	ExtractTimeout       Duration `toml:"extract_timeout" yaml:"extract_timeout"`
	MaxFileBytes         int64    `toml:"max_file_bytes" yaml:"max_file_bytes"`
	PDFFallbackPdftotext bool     `toml:"pdf_fallback_pdftotext" yaml:"pdf_fallback_pdftotext"`

	// Run history
	LedgerPath string `toml:"ledger_path" yaml:"ledger_path"`

	// HTTP
	Port   string `toml:"port" yaml:"port"`
	APIKey string `toml:"api_key" yaml:"api_key"`

	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// Duration is a time.Duration written as "30s" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RawDir:       filepath.Join("data", "raw"),
		ProcessedDir: filepath.Join("data", "processed"),
		OutputDir:    filepath.Join("samples", "output"),

		OCRLanguage: "eng",

		LouisLibrary:   defaultLouisLibrary(),
		LouisTablePath: "/usr/share/liblouis/tables",
		LouisTable:     "en-ueb-g2.ctb",

		Workers:              1,
		MaxFileBytes:         100 << 20,
		PDFFallbackPdftotext: true,

		Port:      "8090",
		LogFormat: "text",
	}
}

func defaultLouisLibrary() string {
	switch runtime.GOOS {
	case "darwin":
		return "liblouis.dylib"
	case "windows":
		return "liblouis.dll"
	default:
		return "liblouis.so.20"
	}
}

// Load builds the configuration from defaults, then the optional file at
// path, then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxFileBytes < 0 {
		cfg.MaxFileBytes = 0
	}
	if cfg.ExtractTimeout < 0 {
		cfg.ExtractTimeout = 0
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("config %s: unsupported format (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.RawDir = envOr("RAW_DIR", c.RawDir)
	c.ProcessedDir = envOr("PROCESSED_DIR", c.ProcessedDir)
	c.OutputDir = envOr("OUTPUT_DIR", c.OutputDir)

	c.OCRLanguage = envOr("OCR_LANG", c.OCRLanguage)

	c.LouisLibrary = envOr("LOUIS_LIBRARY", c.LouisLibrary)
	c.LouisTablePath = envOr("LOUIS_TABLEPATH", c.LouisTablePath)
	c.LouisTable = envOr("LOUIS_TABLE", c.LouisTable)

	c.Workers = envInt("WORKERS", c.Workers)
	c.ExtractTimeout = Duration(envDuration("EXTRACT_TIMEOUT", c.ExtractTimeout.Std()))
	c.MaxFileBytes = envInt64("MAX_FILE_BYTES", c.MaxFileBytes)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)

	c.LedgerPath = envOr("LEDGER_PATH", c.LedgerPath)

	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("API_KEY", c.APIKey)

	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
}

// StructuredFile is where the structure stage writes its JSON.
func (c Config) StructuredFile() string {
	return filepath.Join(c.OutputDir, "structured_data.json")
}

// BrailleFile is where the translate stage writes its JSON.
func (c Config) BrailleFile() string {
	return filepath.Join(c.OutputDir, "braille_output.json")
}

func (c Config) BrailleConfig() braille.Config {
	return braille.Config{
		LibraryPath: c.LouisLibrary,
		TablesDir:   c.LouisTablePath,
		Table:       c.LouisTable,
	}
}

func (c Config) Validate() error {
	if c.RawDir == "" {
		return errors.New("RAW_DIR is required")
	}
	if c.ProcessedDir == "" {
		return errors.New("PROCESSED_DIR is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ValidateTranslation checks that the liblouis library and table exist.
func (c Config) ValidateTranslation() error {
	if c.LouisTable == "" {
		return errors.New("LOUIS_TABLE is required")
	}
	return c.BrailleConfig().Validate()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
