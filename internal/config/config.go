package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

const (
	ModePvP = "pvp" // two humans at one keyboard
	ModePvC = "pvc" // human against the computer

	// DefaultJWTSecret is public; spectator servers must override it.
	DefaultJWTSecret = "your-secret-key-change-this-in-production"
)

type Config struct {
	Rows        int    `mapstructure:"rows"`
	Columns     int    `mapstructure:"columns"`
	RunLength   int    `mapstructure:"run_length"`
	Mode        string `mapstructure:"mode"`
	Player1Name string `mapstructure:"player1_name"`
	Player2Name string `mapstructure:"player2_name"`
	Seed        int64  `mapstructure:"seed"`

	// spectator server, disabled when WatchAddr is empty
	WatchAddr       string   `mapstructure:"watch_addr"`
	WatchKeyHash    string   `mapstructure:"watch_key_hash"`
	JWTSecret       string   `mapstructure:"jwt_secret"`
	TokenTTLMinutes int      `mapstructure:"token_ttl_minutes"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`

	// event publishing, disabled when RedisURL is empty
	RedisURL      string `mapstructure:"redis_url"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisChannel  string `mapstructure:"redis_channel"`

	// player roster, disabled when DatabaseURL is empty
	DatabaseURL string `mapstructure:"database_url"`

	LogLevel string `mapstructure:"log_level"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// keys understood in the YAML file and their environment variables
var envKeys = map[string]string{
	"rows":              "CONNECT4_ROWS",
	"columns":           "CONNECT4_COLUMNS",
	"run_length":        "CONNECT4_RUN_LENGTH",
	"mode":              "CONNECT4_MODE",
	"player1_name":      "PLAYER1_NAME",
	"player2_name":      "PLAYER2_NAME",
	"seed":              "CONNECT4_SEED",
	"watch_addr":        "WATCH_ADDR",
	"watch_key_hash":    "WATCH_KEY_HASH",
	"jwt_secret":        "JWT_SECRET",
	"token_ttl_minutes": "TOKEN_TTL_MINUTES",
	"allowed_origins":   "ALLOWED_ORIGINS",
	"redis_url":         "REDIS_URL",
	"redis_password":    "REDIS_PASSWORD",
	"redis_channel":     "REDIS_CHANNEL",
	"database_url":      "DATABASE_URL",
	"log_level":         "LOG_LEVEL",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"rows":              6,
		"columns":           7,
		"run_length":        4,
		"mode":              ModePvC,
		"player1_name":      "Player 1",
		"player2_name":      "Player 2",
		"seed":              0,
		"jwt_secret":        DefaultJWTSecret,
		"token_ttl_minutes": 60,
		"allowed_origins":   []string{"http://localhost:5173"},
		"redis_channel":     "connect4:events",
		"log_level":         "info",
	}
}

// LoadConfig layers the defaults, the YAML file named by CONNECT4_CONFIG (if
// any) and the environment, later layers winning.
func LoadConfig() (*Config, error) {
	return Load(GetEnv("CONNECT4_CONFIG", ""))
}

func Load(path string) (*Config, error) {
	raw := defaults()

	if path != "" {
		fileValues, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fileValues {
			raw[k] = v
		}
	}

	for key, env := range envKeys {
		value := os.Getenv(env)
		if value == "" {
			continue
		}
		if key == "allowed_origins" {
			raw[key] = splitList(value)
			continue
		}
		raw[key] = value
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	// yaml.v2 decodes lists as []interface{}; mapstructure copes with that
	return values, nil
}

func (c *Config) validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode != ModePvP && c.Mode != ModePvC {
		return fmt.Errorf("unknown mode %q, want %q or %q", c.Mode, ModePvP, ModePvC)
	}
	if c.Rows < 1 || c.Columns < 1 || c.RunLength < 1 {
		return fmt.Errorf("board %dx%d with run length %d is not playable", c.Rows, c.Columns, c.RunLength)
	}
	if c.TokenTTLMinutes < 1 {
		c.TokenTTLMinutes = 60
	}
	return nil
}

// SpectatorWarnings lists the spectator settings that leave the server open
// to anyone who has read this source.
func (c *Config) SpectatorWarnings() []string {
	var warnings []string
	if c.JWTSecret == DefaultJWTSecret {
		warnings = append(warnings, "JWT_SECRET is the built-in default; anyone can sign spectator tokens")
	}
	if c.WatchKeyHash == "" {
		warnings = append(warnings, "WATCH_KEY_HASH is empty; anyone can request a spectator token")
	}
	return warnings
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
