// Package config loads runtime configuration from file, environment and
// flags, and converts upstream profile payloads into scorer inputs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"jobhunter/internal/types"
)

const envPrefix = "JOBHUNTER"

// DefaultLocations is the priority-ordered city list used when the caller
// supplies none. Order matters: the first city carries the highest location
// bonus and wins dedup ties.
var DefaultLocations = []string{
	"Adelaide, Australia",
	"Sydney, Australia",
	"Melbourne, Australia",
}

// DefaultRoles are the search terms used when the caller supplies none.
var DefaultRoles = []string{
	"Full Stack Developer",
	"Full Stack Engineer",
	"Frontend Developer React",
	"Software Engineer",
	"Web Developer",
	"AI Engineer",
}

// knownCities maps short city names to their resolved location form.
var knownCities = map[string]string{
	"adelaide":   "Adelaide, Australia",
	"sydney":     "Sydney, Australia",
	"melbourne":  "Melbourne, Australia",
	"brisbane":   "Brisbane, Australia",
	"perth":      "Perth, Australia",
	"canberra":   "Canberra, Australia",
	"gold coast": "Gold Coast, Australia",
	"hobart":     "Hobart, Australia",
}

// SMTP carries digest delivery settings.
type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"` // comma-separated recipients
}

// Callback carries downstream result-delivery settings.
type Callback struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

// Server carries the worker API settings.
type Server struct {
	Addr   string `mapstructure:"addr"`
	Secret string `mapstructure:"secret"`
}

// Config is the full runtime configuration.
type Config struct {
	Locations   []string `mapstructure:"locations"`
	Roles       []string `mapstructure:"roles"`
	RemotePass  bool     `mapstructure:"remote-pass"`
	CityFilter  bool     `mapstructure:"city-filter"`
	ProfileFile string   `mapstructure:"profile-file"`
	OutputDir   string   `mapstructure:"output-dir"`
	MinScore    float64  `mapstructure:"min-score"`

	ChromeBinary string   `mapstructure:"chrome-binary"`
	SMTP         SMTP     `mapstructure:"smtp"`
	Callback     Callback `mapstructure:"callback"`
	Server       Server   `mapstructure:"server"`

	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

// Load applies environment overrides and defaults to the viper state
// populated by the command layer and unmarshals the configuration.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("remote-pass", true)
	v.SetDefault("city-filter", true)
	v.SetDefault("output-dir", ".")
	v.SetDefault("min-score", 40.0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("smtp.port", 465)

	// AutomaticEnv only surfaces keys viper already knows about during
	// Unmarshal, so env-only keys need registering too.
	for _, key := range []string{
		"profile-file", "chrome-binary",
		"smtp.host", "smtp.username", "smtp.password", "smtp.from", "smtp.to",
		"callback.url", "callback.secret",
		"server.secret",
	} {
		v.SetDefault(key, "")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Locations = ResolveLocations(cfg.Locations)
	if len(cfg.Roles) == 0 {
		cfg.Roles = append([]string(nil), DefaultRoles...)
	}

	return &cfg, nil
}

// ResolveLocations maps short city names to their "City, Australia" form,
// passes unknown strings through unchanged, and falls back to the default
// city list on empty input.
func ResolveLocations(locations []string) []string {
	if len(locations) == 0 {
		return append([]string(nil), DefaultLocations...)
	}

	out := make([]string, 0, len(locations))
	for _, loc := range locations {
		trimmed := strings.TrimSpace(loc)
		if trimmed == "" {
			continue
		}
		if resolved, ok := knownCities[strings.ToLower(trimmed)]; ok {
			out = append(out, resolved)
			continue
		}
		if strings.EqualFold(trimmed, "remote") {
			out = append(out, "Australia")
			continue
		}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return append([]string(nil), DefaultLocations...)
	}
	return out
}

var validate = validator.New()

// LoadProfile reads and validates an upstream profile payload from a JSON
// file.
func LoadProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := validate.Struct(&profile); err != nil {
		return nil, fmt.Errorf("validating profile: %w", err)
	}

	return &profile, nil
}

// skillTierPoints maps profile skill tiers to scorer points. Untiered skills
// count as strong.
var skillTierPoints = map[string]float64{
	types.SkillTierCore:       5,
	types.SkillTierStrong:     3,
	types.SkillTierPeripheral: 1,
}

// ConvertProfile flattens an upstream profile into the scorer's read-only
// form plus its per-skill point table, keyed by lower-cased skill name.
func ConvertProfile(p *types.Profile) (*types.ResumeProfile, map[string]float64) {
	resume := &types.ResumeProfile{
		Titles:   append([]string(nil), p.Titles...),
		Keywords: append([]string(nil), p.Keywords...),
	}

	points := make(map[string]float64, len(p.Skills))
	for _, skill := range p.Skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		resume.Skills = append(resume.Skills, name)

		pts, ok := skillTierPoints[skill.Tier]
		if !ok {
			pts = skillTierPoints[types.SkillTierStrong]
		}
		points[strings.ToLower(name)] = pts
	}

	return resume, points
}
