// Copyright (c) 2025, EduForge Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/eduforge/lmsctl/pkg/defaults"
	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/logging"
	"github.com/eduforge/lmsctl/pkg/serializer"
)

// Config is the run configuration handed to every component.
type Config struct {
	// Namespace is the namespace all platform resources live in.
	Namespace string `yaml:"namespace" env:"LMSCTL_NAMESPACE"`

	// Kubeconfig is an explicit kubeconfig path; empty means the standard
	// resolution chain (KUBECONFIG, ~/.kube/config, in-cluster).
	Kubeconfig string `yaml:"kubeconfig" env:"LMSCTL_KUBECONFIG"`

	// ManifestDir is the directory the per-set manifest paths resolve
	// against.
	ManifestDir string `yaml:"manifestDir" env:"LMSCTL_MANIFEST_DIR"`

	// SettleDelay is the fixed wait between the last apply stage and
	// verification. Zero skips the wait.
	SettleDelay Duration `yaml:"settleDelay" env:"LMSCTL_SETTLE_DELAY"`

	// ProbeTimeout bounds the single health probe request.
	ProbeTimeout Duration `yaml:"probeTimeout" env:"LMSCTL_PROBE_TIMEOUT"`

	// ApplyQPS and ApplyBurst pace write calls against the API server.
	ApplyQPS   float64 `yaml:"applyQPS" env:"LMSCTL_APPLY_QPS"`
	ApplyBurst int     `yaml:"applyBurst" env:"LMSCTL_APPLY_BURST"`

	// LogLevel applies to both the console and the run log file.
	LogLevel string `yaml:"logLevel" env:"LMSCTL_LOG_LEVEL"`

	// LogDir is where run log files are written.
	LogDir string `yaml:"logDir" env:"LMSCTL_LOG_DIR"`

	// NoLogFile disables the per-run log artifact.
	NoLogFile bool `yaml:"noLogFile" env:"LMSCTL_NO_LOG_FILE"`

	// Format is the verification report format: table, json, or yaml.
	Format string `yaml:"format" env:"LMSCTL_FORMAT"`

	// Sets overrides the per-set manifest paths.
	Sets SetPaths `yaml:"sets"`
}

// SetPaths overrides where each resource set loads its manifests from,
// relative to ManifestDir unless absolute. Empty fields keep the default
// layout.
type SetPaths struct {
	Namespace     string `yaml:"namespace" env:"LMSCTL_SET_NAMESPACE"`
	Storage       string `yaml:"storage" env:"LMSCTL_SET_STORAGE"`
	Config        string `yaml:"config" env:"LMSCTL_SET_CONFIG"`
	LMSDeployment string `yaml:"lmsDeployment" env:"LMSCTL_SET_LMS_DEPLOYMENT"`
	LMSService    string `yaml:"lmsService" env:"LMSCTL_SET_LMS_SERVICE"`
	CMSDeployment string `yaml:"cmsDeployment" env:"LMSCTL_SET_CMS_DEPLOYMENT"`
	CMSService    string `yaml:"cmsService" env:"LMSCTL_SET_CMS_SERVICE"`
	HPA           string `yaml:"hpa" env:"LMSCTL_SET_HPA"`
	Ingress       string `yaml:"ingress" env:"LMSCTL_SET_INGRESS"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Namespace:    defaults.Namespace,
		ManifestDir:  defaults.ManifestDir,
		SettleDelay:  Duration(defaults.SettleDelay),
		ProbeTimeout: Duration(defaults.ProbeTimeout),
		ApplyQPS:     defaults.ApplyQPS,
		ApplyBurst:   defaults.ApplyBurst,
		LogLevel:     defaults.LogLevel,
		LogDir:       ".",
		Format:       string(serializer.FormatTable),
	}
}

// Load builds the configuration from defaults, the YAML file, a .env
// side-load, and LMSCTL_* environment variables, in that order. An explicit
// path must exist; the default path is optional. Flag overrides and
// validation are the caller's job.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = defaults.ConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("failed to parse configuration file %s", path), uerr)
		}
		slog.Debug("configuration file loaded", "path", path)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("no configuration file, using defaults", "path", path)
	default:
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to read configuration file %s", path), err)
	}

	// Exported variables win over the .env file.
	if err := godotenv.Load(defaults.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid,
			"failed to parse environment variables", err)
	}

	return cfg, nil
}

// Validate rejects configurations no run could execute with.
func (c *Config) Validate() error {
	if msgs := validation.IsDNS1123Label(c.Namespace); len(msgs) > 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"invalid namespace %q: %s", c.Namespace, strings.Join(msgs, "; "))
	}
	if c.ManifestDir == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "manifest directory must be set")
	}
	if c.SettleDelay < 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"settle delay must not be negative, got %s", c.SettleDelay)
	}
	if c.ProbeTimeout <= 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.ApplyQPS <= 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"apply QPS must be positive, got %v", c.ApplyQPS)
	}
	if c.ApplyBurst <= 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"apply burst must be positive, got %d", c.ApplyBurst)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid log level %q", c.LogLevel), err)
	}
	if serializer.Format(c.Format).IsUnknown() {
		return apperrors.Newf(apperrors.ErrCodeConfigInvalid,
			"unknown output format %q, supported: %s",
			c.Format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return nil
}

// SetPath resolves one resource set location: the override when given, the
// conventional location otherwise, both relative to ManifestDir unless
// absolute.
func (c *Config) SetPath(override, conventional string) string {
	path := override
	if path == "" {
		path = conventional
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ManifestDir, path)
}
