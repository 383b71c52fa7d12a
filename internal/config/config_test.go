package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhunter/internal/types"
)

func TestResolveLocations(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "short names resolved",
			in:   []string{"adelaide", "Sydney"},
			want: []string{"Adelaide, Australia", "Sydney, Australia"},
		},
		{
			name: "unknown strings pass through",
			in:   []string{"Byron Bay, Australia"},
			want: []string{"Byron Bay, Australia"},
		},
		{
			name: "remote maps to whole country",
			in:   []string{"remote"},
			want: []string{"Australia"},
		},
		{
			name: "empty input falls back to defaults",
			in:   nil,
			want: DefaultLocations,
		},
		{
			name: "blank entries dropped",
			in:   []string{"  ", "melbourne"},
			want: []string{"Melbourne, Australia"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocations(tt.in))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultLocations, cfg.Locations)
	assert.Equal(t, DefaultRoles, cfg.Roles)
	assert.True(t, cfg.RemotePass)
	assert.True(t, cfg.CityFilter)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.InDelta(t, 40.0, cfg.MinScore, 0.001)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("JOBHUNTER_MIN_SCORE", "55")
	t.Setenv("JOBHUNTER_CALLBACK_SECRET", "hunter2")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.InDelta(t, 55.0, cfg.MinScore, 0.001)
	assert.Equal(t, "hunter2", cfg.Callback.Secret)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	payload := `{
	  "skills": [{"name":"Go","tier":"core"},{"name":"React","tier":"strong"}],
	  "titles": ["Full Stack Developer"],
	  "keywords": ["api"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Len(t, profile.Skills, 2)
	assert.Equal(t, []string{"Full Stack Developer"}, profile.Titles)
}

func TestLoadProfileRejectsBadTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	payload := `{"skills":[{"name":"Go","tier":"legendary"}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestConvertProfile(t *testing.T) {
	profile := &types.Profile{
		Skills: []types.Skill{
			{Name: "Go", Tier: types.SkillTierCore},
			{Name: "React", Tier: types.SkillTierStrong},
			{Name: "Figma", Tier: types.SkillTierPeripheral},
			{Name: "TypeScript"},
			{Name: "  "},
		},
		Titles:   []string{"Full Stack Developer"},
		Keywords: []string{"api", "microservices"},
	}

	resume, points := ConvertProfile(profile)

	assert.Equal(t, []string{"Go", "React", "Figma", "TypeScript"}, resume.Skills)
	assert.Equal(t, profile.Titles, resume.Titles)
	assert.Equal(t, profile.Keywords, resume.Keywords)

	assert.InDelta(t, 5, points["go"], 0.001)
	assert.InDelta(t, 3, points["react"], 0.001)
	assert.InDelta(t, 1, points["figma"], 0.001)
	// untiered skills count as strong
	assert.InDelta(t, 3, points["typescript"], 0.001)
}
