package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/glabrego/reeder/internal/models"
)

const (
	defaultAPIBaseURL = "https://api.feedbin.com/v2"
	defaultDBPath     = "feedbin.db"
	defaultPageSize   = 50
)

// Config holds runtime settings for the CLI app.
type Config struct {
	Email      string
	Password   string
	APIBaseURL string
	DBPath     string
	Order      models.ArticleOrder
	Filter     models.Filter
	PageSize   int
	// LogPath is where the log file goes; empty disables logging.
	LogPath string
}

// RegisterFlags adds the command line overrides for the FEEDBIN_* settings.
// Credentials are only read from the environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-base-url", defaultAPIBaseURL, "Feedbin API base URL")
	fs.String("db-path", defaultDBPath, "sqlite cache path")
	fs.String("order", "newest", "article order: newest or oldest")
	fs.String("filter", string(models.FilterAll), "article filter: all, unread or starred")
	fs.Int("page-size", defaultPageSize, "entries fetched per page")
	fs.String("log-path", "", "log file path, empty disables logging")
}

func LoadFromEnv() (Config, error) {
	return Load(nil)
}

// Load reads FEEDBIN_* environment variables, overridden by any flag of fs
// that was set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FEEDBIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api-base-url", defaultAPIBaseURL)
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("order", "newest")
	v.SetDefault("filter", string(models.FilterAll))
	v.SetDefault("page-size", defaultPageSize)
	v.SetDefault("log-path", "")

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	order, err := models.ParseArticleOrder(v.GetString("order"))
	if err != nil {
		return Config{}, err
	}
	filter, err := models.ParseFilter(v.GetString("filter"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Email:      v.GetString("email"),
		Password:   v.GetString("password"),
		APIBaseURL: v.GetString("api-base-url"),
		DBPath:     v.GetString("db-path"),
		Order:      order,
		Filter:     filter,
		PageSize:   v.GetInt("page-size"),
		LogPath:    v.GetString("log-path"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Email == "" {
		return errors.New("FEEDBIN_EMAIL is required")
	}
	if c.Password == "" {
		return errors.New("FEEDBIN_PASSWORD is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PageSize must be between 1 and 100: %d", c.PageSize)
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	return nil
}
