// Package config loads tool configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Organization string   `yaml:"organization,omitempty"`
	Repositories []string `yaml:"repositories,omitempty"`
	ExemptRepos  []string `yaml:"exempt_repos,omitempty"`
	DryRun       bool     `yaml:"dry_run,omitempty"`

	Report *ReportConfig `yaml:"report,omitempty"`
	Sweep  *SweepConfig  `yaml:"sweep,omitempty"`
}

// ReportConfig configures the monthly contributor report.
type ReportConfig struct {
	Repository  string   `yaml:"repository,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Assignees   []string `yaml:"assignees,omitempty"`
	SponsorInfo *bool    `yaml:"sponsor_info,omitempty"`
	Output      string   `yaml:"output,omitempty"`
}

// SweepConfig configures the CODEOWNERS sweep.
type SweepConfig struct {
	PRTitle         string `yaml:"pr_title,omitempty"`
	PRBody          string `yaml:"pr_body,omitempty"`
	CommitMessage   string `yaml:"commit_message,omitempty"`
	IssueReport     bool   `yaml:"issue_report,omitempty"`
	IssueReportPath string `yaml:"issue_report_path,omitempty"`
	Workers         int    `yaml:"workers,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".cleanowners"
	}
	return filepath.Join(configDir, "cleanowners")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".cleanowners.yaml"
}

// Load loads the configuration from disk and environment.
// It first loads the global config from the XDG config directory, merges any
// local .cleanowners.yaml on top (local values win), then applies environment
// variables on top of both so scheduled automation can configure everything
// without a config file.
func Load() (*Config, error) {
	cfg := &Config{}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = Merge(cfg, &localCfg)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// Merge merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func Merge(global, local *Config) *Config {
	result := &Config{}

	if local.Organization != "" {
		result.Organization = local.Organization
	} else {
		result.Organization = global.Organization
	}

	if len(local.Repositories) > 0 {
		result.Repositories = local.Repositories
	} else {
		result.Repositories = global.Repositories
	}

	if len(local.ExemptRepos) > 0 {
		result.ExemptRepos = local.ExemptRepos
	} else {
		result.ExemptRepos = global.ExemptRepos
	}

	result.DryRun = global.DryRun || local.DryRun

	result.Report = mergeReport(global.Report, local.Report)
	result.Sweep = mergeSweep(global.Sweep, local.Sweep)

	return result
}

func mergeReport(global, local *ReportConfig) *ReportConfig {
	if global == nil && local == nil {
		return nil
	}
	result := &ReportConfig{}

	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.Repository != "" {
			result.Repository = local.Repository
		}
		if local.Title != "" {
			result.Title = local.Title
		}
		if len(local.Assignees) > 0 {
			result.Assignees = local.Assignees
		}
		if local.SponsorInfo != nil {
			result.SponsorInfo = local.SponsorInfo
		}
		if local.Output != "" {
			result.Output = local.Output
		}
	}

	return result
}

func mergeSweep(global, local *SweepConfig) *SweepConfig {
	if global == nil && local == nil {
		return nil
	}
	result := &SweepConfig{}

	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.PRTitle != "" {
			result.PRTitle = local.PRTitle
		}
		if local.PRBody != "" {
			result.PRBody = local.PRBody
		}
		if local.CommitMessage != "" {
			result.CommitMessage = local.CommitMessage
		}
		if local.IssueReport {
			result.IssueReport = true
		}
		if local.IssueReportPath != "" {
			result.IssueReportPath = local.IssueReportPath
		}
		if local.Workers > 0 {
			result.Workers = local.Workers
		}
	}

	return result
}

// ApplyEnv overlays environment variables on the config. List-valued
// variables are comma-separated.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ORGANIZATION"); v != "" {
		c.Organization = v
	}
	if v := os.Getenv("REPOSITORY"); v != "" {
		c.Repositories = splitList(v)
	}
	if v := os.Getenv("EXEMPT_REPOS"); v != "" {
		c.ExemptRepos = splitList(v)
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		c.DryRun = isTrue(v)
	}

	if v := os.Getenv("ISSUE_TITLE"); v != "" {
		c.ensureReport().Title = v
	}
	if v := os.Getenv("ASSIGNEES"); v != "" {
		c.ensureReport().Assignees = splitList(v)
	}
	if v := os.Getenv("SPONSOR_INFO"); v != "" {
		b := isTrue(v)
		c.ensureReport().SponsorInfo = &b
	}

	if v := os.Getenv("PR_TITLE"); v != "" {
		c.ensureSweep().PRTitle = v
	}
	if v := os.Getenv("PR_BODY"); v != "" {
		c.ensureSweep().PRBody = v
	}
	if v := os.Getenv("COMMIT_MESSAGE"); v != "" {
		c.ensureSweep().CommitMessage = v
	}
	if v := os.Getenv("ISSUE_REPORT"); v != "" {
		c.ensureSweep().IssueReport = isTrue(v)
	}
}

func (c *Config) ensureReport() *ReportConfig {
	if c.Report == nil {
		c.Report = &ReportConfig{}
	}
	return c.Report
}

func (c *Config) ensureSweep() *SweepConfig {
	if c.Sweep == nil {
		c.Sweep = &SweepConfig{}
	}
	return c.Sweep
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor app practice, tokens are only read from the
// environment, never from config files.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ReportSponsorInfo returns the sponsor-info flag, defaulting to true.
func (c *Config) ReportSponsorInfo() bool {
	if c.Report == nil || c.Report.SponsorInfo == nil {
		return true
	}
	return *c.Report.SponsorInfo
}

// Save saves the configuration to the global config path
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# cleanowners configuration file

# Organization to sweep (or set repositories to target specific repos)
# organization: my-org

# Explicit repositories (owner/name), overrides organization scanning
# repositories:
#   - my-org/repo

# Repositories to skip
# exempt_repos:
#   - my-org/archive-mirror

# Monthly contributor report settings
# report:
#   repository: my-org/repo
#   assignees:
#     - maintainer
#   sponsor_info: true

# The GitHub token is read from the GITHUB_TOKEN environment variable.
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
