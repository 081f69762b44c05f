// config/config.go - League configuration
package config

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// StatCategory is one configured game statistic (e.g. points, assists).
// Key is the stable identifier used in stat vectors and leaderboard queries,
// Name is the display label.
type StatCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type ScoreConfig struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

type GameConfig struct {
	Score            ScoreConfig `json:"score"`
	RequireScorecard bool        `json:"require_scorecard"`
}

type DivisionConfig struct {
	Names      []string `json:"names"`
	MaxNum     int      `json:"max_num"`
	DefaultNum int      `json:"default_num"`
}

type LeaderboardConfig struct {
	MinSeasonAverageGames   int `json:"min_season_average_games"`
	MinLifetimeAverageGames int `json:"min_lifetime_average_games"`
}

// Config is the immutable league configuration, loaded once at startup and
// passed explicitly to every service that needs it. The stat category list
// and team size are fixed for the lifetime of a database: changing them after
// games exist would desynchronize stored stat vectors.
type Config struct {
	LeagueName     string            `json:"league_name"`
	NumTeamPlayers int               `json:"num_team_players"`
	Stats          struct {
		Categories []StatCategory `json:"categories"`
		Highlight  string         `json:"highlight"`
	} `json:"stats"`
	Game        GameConfig        `json:"game"`
	Division    DivisionConfig    `json:"division"`
	Leaderboard LeaderboardConfig `json:"leaderboard"`
}

// Load reads and validates the league configuration JSON file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open league config %s: %w", path, err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("could not decode league config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid league config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads the config from the path in LEAGUE_CONFIG_PATH, falling
// back to config/my_config.json next to the working directory.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("LEAGUE_CONFIG_PATH")
	if path == "" {
		path = filepath.Join("config", "my_config.json")
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.LeagueName == "" {
		c.LeagueName = "Rec League"
	}
	if c.Division.Names == nil {
		c.Division.Names = []string{"East", "West", "South", "North"}
	}
	if c.Division.MaxNum == 0 {
		c.Division.MaxNum = len(c.Division.Names)
	}
	if c.Division.DefaultNum == 0 {
		c.Division.DefaultNum = len(c.Division.Names)
	}
	if c.Leaderboard.MinSeasonAverageGames == 0 {
		c.Leaderboard.MinSeasonAverageGames = 3
	}
	if c.Leaderboard.MinLifetimeAverageGames == 0 {
		c.Leaderboard.MinLifetimeAverageGames = 5
	}
}

func (c *Config) validate() error {
	if c.NumTeamPlayers < 1 {
		return fmt.Errorf("num_team_players must be at least 1, got %d", c.NumTeamPlayers)
	}
	if len(c.Stats.Categories) == 0 {
		return fmt.Errorf("at least one stat category is required")
	}

	seen := make(map[string]bool, len(c.Stats.Categories))
	for _, cat := range c.Stats.Categories {
		if cat.Key == "" {
			return fmt.Errorf("stat category with empty key")
		}
		if seen[cat.Key] {
			return fmt.Errorf("duplicate stat category key %q", cat.Key)
		}
		seen[cat.Key] = true
	}

	if c.Stats.Highlight != "" && !seen[c.Stats.Highlight] {
		return fmt.Errorf("highlight stat %q is not a configured category", c.Stats.Highlight)
	}
	if c.Division.MaxNum > len(c.Division.Names) {
		return fmt.Errorf("division max_num %d exceeds the %d configured names", c.Division.MaxNum, len(c.Division.Names))
	}
	if c.Division.DefaultNum > len(c.Division.Names) {
		return fmt.Errorf("division default_num %d exceeds the %d configured names", c.Division.DefaultNum, len(c.Division.Names))
	}
	if c.Game.Score.Max != nil && *c.Game.Score.Max < c.Game.Score.Min {
		return fmt.Errorf("game score max %d is below min %d", *c.Game.Score.Max, c.Game.Score.Min)
	}

	return nil
}

// NumStats returns the number of configured stat categories.
func (c *Config) NumStats() int {
	return len(c.Stats.Categories)
}

// StatKeys returns the ordered category keys. This order defines the
// positional layout of every stat vector in the database.
func (c *Config) StatKeys() []string {
	keys := make([]string, len(c.Stats.Categories))
	for i, cat := range c.Stats.Categories {
		keys[i] = cat.Key
	}
	return keys
}

// StatNames returns the ordered category display names.
func (c *Config) StatNames() []string {
	names := make([]string, len(c.Stats.Categories))
	for i, cat := range c.Stats.Categories {
		names[i] = cat.Name
	}
	return names
}

// StatIndex returns the position of a category key, or -1 if unknown.
func (c *Config) StatIndex(key string) int {
	for i, cat := range c.Stats.Categories {
		if cat.Key == key {
			return i
		}
	}
	return -1
}

// ScorecardDir returns the scorecard photo directory for a database DSN,
// combining the database basename with a short hash of the full DSN. Two
// databases never share a photo directory even when their basenames collide
// (e.g. site:///test.db vs site:///folder/test.db).
func ScorecardDir(root, dsn string) string {
	base := "league"
	if u, err := url.Parse(dsn); err == nil && u.Path != "" {
		name := filepath.Base(u.Path)
		if ext := filepath.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext)
		}
		if name != "" && name != "." && name != "/" {
			base = name
		}
	}

	sum := sha1.Sum([]byte(dsn))
	hash := base64.URLEncoding.EncodeToString(sum[:10])
	hash = strings.TrimRight(hash, "=")

	return filepath.Join(root, "scorecard_pics", base+"_"+hash)
}
