// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating it.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/fte"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for fte-report.
type Configuration struct {
	Data    DataConfig    `yaml:"data"`
	Policy  PolicyConfig  `yaml:"policy"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// baseDir is the directory of the loaded file; relative data paths are
	// resolved against it.
	baseDir string
}

// DataConfig locates the input tables. Sections may be left empty when the
// section file is supplied per run or per upload.
type DataConfig struct {
	Sections     string `yaml:"sections,omitempty" mapstructure:"sections"`
	ContactHours string `yaml:"contactHours" mapstructure:"contactHours" validate:"required"`
	Tiers        string `yaml:"tiers" mapstructure:"tiers" validate:"required"`
}

// PolicyConfig holds the funding policy parameters.
type PolicyConfig struct {
	SupportConstant float64 `yaml:"supportConstant" mapstructure:"supportConstant" validate:"gte=0"`
	CourseTierKey   string  `yaml:"courseTierKey" mapstructure:"courseTierKey" validate:"oneof=course prefix"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `yaml:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format    string `yaml:"format,omitempty" mapstructure:"format" validate:"oneof=pretty csv"`
	Directory string `yaml:"directory,omitempty" mapstructure:"directory"` // workbook export directory
}

// newViper returns an isolated viper instance with defaults and environment
// overrides (FTE_POLICY_SUPPORTCONSTANT and so on) registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	v.SetDefault("data.sections", "")
	v.SetDefault("data.contactHours", "")
	v.SetDefault("data.tiers", "")
	v.SetDefault("policy.supportConstant", constants.BaseSupportConstant)
	v.SetDefault("policy.courseTierKey", constants.TierKeyCourse)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.directory", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	configuration.baseDir = filepath.Dir(configPath)
	return configuration, nil
}

// LoadConfigurationFromReader loads YAML configuration from r. Relative
// paths are resolved against the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// Default returns the configuration used when no file is given, with
// environment overrides applied.
func Default() (*Configuration, error) {
	return decode(newViper())
}

// ResolvePath resolves a data path relative to the configuration file.
func (c *Configuration) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

// KeyMode returns the tier key granularity for the course report.
func (c *Configuration) KeyMode() fte.KeyMode {
	mode, _ := fte.ParseKeyMode(c.Policy.CourseTierKey)
	return mode
}

// Validate checks the configuration for values that make it unusable.
func (c *Configuration) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, formatValidationError(fe))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Policy.SupportConstant != constants.BaseSupportConstant {
		warnings = append(warnings, fmt.Sprintf("support constant %.2f overrides the standard %.0f; generated FTE will not match published figures",
			c.Policy.SupportConstant, constants.BaseSupportConstant))
	}

	for _, f := range []struct{ name, path string }{
		{"contact hours table", c.Data.ContactHours},
		{"tier table", c.Data.Tiers},
		{"sections file", c.Data.Sections},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(c.ResolvePath(f.path)); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s is not readable: %v", f.name, f.path, err))
		}
	}

	if dir := c.Output.Directory; dir != "" {
		if info, err := os.Stat(c.ResolvePath(dir)); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("output directory %s does not exist; exports will fail", dir))
		}
	}

	return warnings
}
