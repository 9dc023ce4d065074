package pyigen

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// ConfigFile is the project file name looked up by FindConfig.
const ConfigFile = "thriftpyi.toml"

var (
	validate       = validator.New()
	overrideParser = newOverrideDecoder()
)

func newOverrideDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("toml")
	d.IgnoreUnknownKeys(false)
	return d
}

// Config holds the configuration for stub generation.
type Config struct {
	// Interfaces is the directory scanned for .thrift files.
	// e.g. "./interfaces"
	Interfaces string `toml:"interfaces" validate:"required_without=Files"`

	// Files lists .thrift files to generate stubs for. When set,
	// Interfaces is not scanned.
	Files []string `toml:"files" validate:"dive,required"`

	// OutDir is where <module>.pyi files are written.
	OutDir string `toml:"output"`

	// IncludeDirs are searched for include paths that do not resolve
	// relative to the including file.
	IncludeDirs []string `toml:"include_dirs" validate:"dive,required"`

	// Async emits service methods as "async def".
	Async bool `toml:"async"`

	// NoInit omits __init__ signatures from struct and exception classes.
	NoInit bool `toml:"no_init"`

	// Frontmatter is copied into every stub below the generated header.
	Frontmatter string `toml:"frontmatter"`

	// IndentSize is the number of spaces per indent level.
	// Default: 4
	IndentSize int `toml:"indent" validate:"omitempty,min=1,max=8"`

	// Jobs limits how many files are processed concurrently.
	// Default: 0 (one per CPU)
	Jobs int `toml:"jobs" validate:"gte=0"`

	// Logger receives progress records. Default: slog.Default().
	Logger *slog.Logger `toml:"-" validate:"-"`
}

// LoadConfig reads a thriftpyi.toml file. Relative paths in the file are
// resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	cfg.Interfaces = resolvePath(base, cfg.Interfaces)
	cfg.OutDir = resolvePath(base, cfg.OutDir)
	for i := range cfg.Files {
		cfg.Files[i] = resolvePath(base, cfg.Files[i])
	}
	for i := range cfg.IncludeDirs {
		cfg.IncludeDirs[i] = resolvePath(base, cfg.IncludeDirs[i])
	}
	return &cfg, nil
}

// FindConfig looks for thriftpyi.toml in dir and its parents.
// It returns "" when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ProjectConfig builds the configuration for a command run from dir. It reads
// the file at path, or when path is empty the nearest thriftpyi.toml above
// dir, then applies "key=value" overrides. With noFile set no file is read.
func ProjectConfig(dir, path string, noFile bool, overrides []string) (*Config, error) {
	cfg := &Config{}
	if !noFile {
		if path == "" {
			found, err := FindConfig(dir)
			if err != nil {
				return nil, err
			}
			path = found
		}
		if path != "" {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	values, err := ParseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(values); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ParseOverrides turns "key=value" arguments into override values.
// Repeated keys accumulate, which fills list settings.
func ParseOverrides(args []string) (url.Values, error) {
	values := make(url.Values)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", arg)
		}
		values.Add(strings.TrimSpace(key), value)
	}
	return values, nil
}

// ApplyOverrides decodes override values into cfg. Keys use the same names
// as thriftpyi.toml.
func (c *Config) ApplyOverrides(values url.Values) error {
	if len(values) == 0 {
		return nil
	}
	if err := overrideParser.Decode(c, values); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}
	return nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	cerr := &ConfigError{Details: make(map[string]string)}
	for _, ve := range valErrs {
		cerr.Details[ve.Field()] = formatValidationError(ve)
		cerr.fields = append(cerr.fields, ve.Field())
	}
	return cerr
}

// ConfigError reports invalid configuration values.
type ConfigError struct {
	// Details maps field names to messages.
	Details map[string]string

	fields []string
}

func (e *ConfigError) Error() string {
	msgs := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		msgs = append(msgs, f+": "+e.Details[f])
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// formatValidationError converts a validator.FieldError to a readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_without":
		return fmt.Sprintf("required when %s is empty", ve.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// applyConfigDefaults returns a copy of cfg with defaults filled in.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	if result.IndentSize == 0 {
		result.IndentSize = 4
	}
	if result.Jobs == 0 {
		result.Jobs = runtime.GOMAXPROCS(0)
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	return &result
}
