// Package config loads the site's load-time configuration: brand details,
// the form relay endpoint, navigation, content paths and deploy settings.
// Values come from flags, CCS_* environment variables (a .env file is read
// first when present), an optional site.yaml, then the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"calebs/ccsWebsite/internal/models"
)

const (
	EnvPrefix         = "CCS"
	DefaultConfigFile = "site.yaml"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// RequiredSections must appear in the navigation.
var RequiredSections = []string{"home", "services", "about", "pricing", "testimonials", "contact"}

type Config struct {
	Brand  models.Brand     `mapstructure:"brand"`
	Forms  FormsConfig      `mapstructure:"forms"`
	Nav    []models.NavItem `mapstructure:"nav"`
	Data   DataConfig       `mapstructure:"data"`
	Paths  PathsConfig      `mapstructure:"paths"`
	Server ServerConfig     `mapstructure:"server"`
	Deploy DeployConfig     `mapstructure:"deploy"`
}

type FormsConfig struct {
	// Endpoint is the third-party form relay. Empty means every submission
	// goes straight to the mailto fallback.
	Endpoint string `mapstructure:"endpoint"`
	// Relay makes the generated page post to this binary's /api endpoints
	// (see `serve`) instead of Endpoint.
	Relay bool `mapstructure:"relay"`
}

type DataConfig struct {
	Reviews string `mapstructure:"reviews"`
}

type PathsConfig struct {
	Templates string `mapstructure:"templates"`
	Static    string `mapstructure:"static"`
	Assets    string `mapstructure:"assets"`
	Output    string `mapstructure:"output"`
	CSS       string `mapstructure:"css"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DeployConfig struct {
	Bucket string `mapstructure:"bucket"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("brand.name", "Caleb's Computer Solutions")
	v.SetDefault("brand.tagline", "Fast, friendly tech that just works.")
	v.SetDefault("brand.primary", "#0ea5e9")
	v.SetDefault("brand.dark", "#0b1220")
	v.SetDefault("brand.light", "#e6f6ff")
	v.SetDefault("brand.phone", "0434 249 453")
	v.SetDefault("brand.email", "caleb.kelly1234@gmail.com")
	v.SetDefault("brand.address", "5 Illawong Place, Orange NSW")
	v.SetDefault("brand.logo", "")

	v.SetDefault("forms.endpoint", "https://formspree.io/f/xgvlrgzb")
	v.SetDefault("forms.relay", false)

	v.SetDefault("nav", []map[string]string{
		{"id": "home", "label": "Home"},
		{"id": "services", "label": "Services"},
		{"id": "about", "label": "About"},
		{"id": "pricing", "label": "Pricing"},
		{"id": "testimonials", "label": "Reviews"},
		{"id": "contact", "label": "Contact"},
	})

	v.SetDefault("data.reviews", "data/reviews.yaml")

	v.SetDefault("paths.templates", "templates")
	v.SetDefault("paths.static", "static")
	v.SetDefault("paths.assets", "assets")
	v.SetDefault("paths.output", "public")
	v.SetDefault("paths.css", "static/css/style.css")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("deploy.bucket", "")
}

// Load reads the configuration. path may be empty, in which case site.yaml
// is used if it exists. flags, when non-nil, override everything else for
// the keys they are bound to (see flagKeys).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// CCS_FORMS_ENDPOINT= disables the relay.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps config keys to the command-line flags that may override them.
var flagKeys = map[string]string{
	"forms.endpoint": "endpoint",
	"forms.relay":    "relay",
	"paths.output":   "out",
	"server.addr":    "addr",
	"deploy.bucket":  "bucket",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the values the page relies on.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Brand.Name) == "" {
		problems = append(problems, "brand.name is empty")
	}
	if !strings.Contains(c.Brand.Email, "@") {
		problems = append(problems, fmt.Sprintf("brand.email %q is not an email address", c.Brand.Email))
	}
	for key, color := range map[string]string{
		"brand.primary": c.Brand.Primary,
		"brand.dark":    c.Brand.Dark,
		"brand.light":   c.Brand.Light,
	} {
		if !hexColor.MatchString(color) {
			problems = append(problems, fmt.Sprintf("%s %q is not a #rrggbb color", key, color))
		}
	}

	seen := make(map[string]bool, len(c.Nav))
	for _, n := range c.Nav {
		if n.ID == "" {
			problems = append(problems, "nav item with empty id")
			continue
		}
		if seen[n.ID] {
			problems = append(problems, fmt.Sprintf("duplicate nav id %q", n.ID))
		}
		seen[n.ID] = true
	}
	for _, id := range RequiredSections {
		if !seen[id] {
			problems = append(problems, fmt.Sprintf("missing nav id %q", id))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// FormAction returns where the page's forms post: the relay endpoint, or
// the local relay route when Relay is set.
func (c *Config) FormAction(form string) string {
	if c.Forms.Relay {
		return "/api/" + form
	}
	return c.Forms.Endpoint
}
