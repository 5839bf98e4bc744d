package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeIndex()
	c.normalizeScan()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("PAGECHECK_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DocumentsDir) == "" {
		c.Paths.DocumentsDir = filepath.Join(c.Paths.DataDir, defaultDocumentsSubdir)
	}
	if c.Paths.DocumentsDir, err = expandPath(c.Paths.DocumentsDir); err != nil {
		return fmt.Errorf("paths.documents_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogSubdir)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	if c.Store.BusyTimeoutMillis <= 0 {
		c.Store.BusyTimeoutMillis = defaultBusyTimeoutMillis
	}
	if c.Store.BusyRetryAttempts <= 0 {
		c.Store.BusyRetryAttempts = defaultBusyRetryAttempts
	}
	if c.Store.BusyRetryInitialMS <= 0 {
		c.Store.BusyRetryInitialMS = defaultBusyRetryInitialMS
	}
	if c.Store.BusyRetryMaxDelayMS <= 0 {
		c.Store.BusyRetryMaxDelayMS = defaultBusyRetryMaxDelayMS
	}
}

func (c *Config) normalizeIndex() {
	c.Index.CodePattern = strings.TrimSpace(c.Index.CodePattern)
	if c.Index.CodePattern == "" {
		c.Index.CodePattern = defaultCodePattern
	}
}

func (c *Config) normalizeScan() {
	c.Scan.Mode = strings.ToLower(strings.TrimSpace(c.Scan.Mode))
	if c.Scan.Mode == "" {
		c.Scan.Mode = defaultScanMode
	}
	if c.Scan.StartPage < 0 {
		c.Scan.StartPage = 0
	}
}

func (c *Config) normalizeReport() {
	c.Report.Bind = strings.TrimSpace(c.Report.Bind)
	if c.Report.Bind == "" {
		c.Report.Bind = defaultReportBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
