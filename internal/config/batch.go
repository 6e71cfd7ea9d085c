package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvBatchPageSize          = "FREIGHTDESK_BATCH_PAGE_SIZE"
	EnvBatchWorkers           = "FREIGHTDESK_BATCH_WORKERS"
	EnvBatchMaxRepairAttempts = "FREIGHTDESK_BATCH_MAX_REPAIR_ATTEMPTS"
	EnvBatchOwnDomains        = "FREIGHTDESK_BATCH_OWN_DOMAINS"
	EnvBatchCarrierDomains    = "FREIGHTDESK_BATCH_CARRIER_DOMAINS"
)

// BatchConfig holds batch processing parameters. OwnDomains are the
// forwarder's mail domains used to derive document direction;
// CarrierDomains are known carrier sender domains.
type BatchConfig struct {
	PageSize          int      `toml:"page_size"`
	Workers           int      `toml:"workers"`
	MaxRepairAttempts int      `toml:"max_repair_attempts"`
	OwnDomains        []string `toml:"own_domains"`
	CarrierDomains    []string `toml:"carrier_domains"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BatchConfig) Merge(overlay *BatchConfig) {
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.MaxRepairAttempts != 0 {
		c.MaxRepairAttempts = overlay.MaxRepairAttempts
	}
	if len(overlay.OwnDomains) > 0 {
		c.OwnDomains = overlay.OwnDomains
	}
	if len(overlay.CarrierDomains) > 0 {
		c.CarrierDomains = overlay.CarrierDomains
	}
}

func (c *BatchConfig) loadDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = 200
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.MaxRepairAttempts <= 0 {
		c.MaxRepairAttempts = 3
	}
}

func (c *BatchConfig) loadEnv() {
	if v := os.Getenv(EnvBatchPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
	if v := os.Getenv(EnvBatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvBatchMaxRepairAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRepairAttempts = n
		}
	}
	if v := os.Getenv(EnvBatchOwnDomains); v != "" {
		c.OwnDomains = splitTrimmed(v)
	}
	if v := os.Getenv(EnvBatchCarrierDomains); v != "" {
		c.CarrierDomains = splitTrimmed(v)
	}
}

func (c *BatchConfig) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.MaxRepairAttempts < 1 {
		return fmt.Errorf("max_repair_attempts must be positive")
	}
	return nil
}

func splitTrimmed(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
