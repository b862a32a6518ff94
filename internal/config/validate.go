package config

import (
	"fmt"
	"net/url"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

// MinReportInterval is the shortest accepted playback heartbeat.
const MinReportInterval = 100 * time.Millisecond

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.URL == "" {
		errs = append(errs, "server.url: required")
	} else if u, err := url.Parse(c.Server.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("server.url: must be an http or https URL, got %q", c.Server.URL))
	}
	if c.Server.Timeout.Duration < 0 {
		errs = append(errs, "server.timeout: must not be negative")
	}
	if (c.Auth.UserID == "") != (c.Auth.Token == "") {
		errs = append(errs, "auth: user_id and token must be set together")
	}

	if c.Sync.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("sync.concurrency: must be positive, got %d", c.Sync.Concurrency))
	}
	if c.Sync.PageSize < 1 {
		errs = append(errs, fmt.Sprintf("sync.page_size: must be positive, got %d", c.Sync.PageSize))
	}

	if c.Playback.ReportInterval.Duration < MinReportInterval {
		errs = append(errs, fmt.Sprintf("playback.report_interval: must be at least %s, got %s", MinReportInterval, c.Playback.ReportInterval))
	}
	if c.Playback.MaxBitrate < 0 {
		errs = append(errs, "playback.max_bitrate: must not be negative")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be text or json; got %q", c.Log.Format))
	}

	return errs
}
