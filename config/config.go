package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`
	StorePath    string `json:"store_path"`

	LLMProvider  string `json:"llm_provider"`
	AdvisorModel string `json:"advisor_model"`
	BackendURL   string `json:"backend_url"`

	// Identity of the locally signed-in user. Empty means unauthenticated.
	ActiveUser string `json:"active_user"`

	// Alert feed behavior.
	AlertFeedLimit      int `json:"alert_feed_limit"`
	AlertRefreshSeconds int `json:"alert_refresh_seconds"`
	SessionHistoryLimit int `json:"session_history_limit"`

	// Advisor contact used by the service-agreement mailer.
	AdvisorName  string `json:"advisor_name"`
	AdvisorEmail string `json:"advisor_email"`
	AdvisorPhone string `json:"advisor_phone"`

	// Email gateway.
	EmailEndpoint string `json:"email_endpoint"`
	EmailAPIKey   string `json:"email_api_key"`

	// Market data symbols tracked for market-update alerts.
	WatchSymbols []string `json:"watch_symbols"`

	Debug        bool `json:"debug"`
	CacheEnabled bool `json:"cache_enabled"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	// AI Model API Keys
	DeepSeekAPIKey string `json:"deepseek_api_key"`
	OpenAIAPIKey   string `json:"openai_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)
	cfg.ApplyEnvOverrides()
	return cfg
}

// ApplyEnvOverrides layers .env values and environment variables over the
// config, so environment settings win over the config file.
func (c *Config) ApplyEnvOverrides() {
	_ = godotenv.Load()
	c.loadFromEnv()
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),
		StorePath:    filepath.Join(root, "data", "iadvice.db"),

		LLMProvider:  "deepseek",
		AdvisorModel: "deepseek-chat",
		BackendURL:   "",

		AlertFeedLimit:      20,
		AlertRefreshSeconds: 60,
		SessionHistoryLimit: 50,

		AdvisorName:   "Iadvice Business Consulting",
		AdvisorEmail:  "advisor@iadvice.example",
		EmailEndpoint: "",

		WatchSymbols: []string{"SPY", "QQQ"},

		Debug:        false,
		CacheEnabled: true,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("IADVICE_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("IADVICE_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("IADVICE_STORE_PATH"); val != "" {
		c.StorePath = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("ADVISOR_MODEL"); val != "" {
		c.AdvisorModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("IADVICE_USER"); val != "" {
		c.ActiveUser = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("IADVICE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("ALERT_FEED_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.AlertFeedLimit = v
		}
	}
	if val := os.Getenv("ALERT_REFRESH_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.AlertRefreshSeconds = v
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("ADVISOR_NAME"); val != "" {
		c.AdvisorName = val
	}
	if val := os.Getenv("ADVISOR_EMAIL"); val != "" {
		c.AdvisorEmail = val
	}
	if val := os.Getenv("ADVISOR_PHONE"); val != "" {
		c.AdvisorPhone = val
	}
	if val := os.Getenv("EMAIL_ENDPOINT"); val != "" {
		c.EmailEndpoint = val
	}
	if val := os.Getenv("EMAIL_API_KEY"); val != "" {
		c.EmailAPIKey = val
	}
	if val := os.Getenv("WATCH_SYMBOLS"); val != "" {
		var symbols []string
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
		if len(symbols) > 0 {
			c.WatchSymbols = symbols
		}
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
}

// Validate checks the fields the runtime cannot repair on its own.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path is required")
	}
	switch c.LLMProvider {
	case "deepseek", "openai":
	default:
		return fmt.Errorf("unsupported llm_provider %q", c.LLMProvider)
	}
	if c.AlertFeedLimit <= 0 {
		return fmt.Errorf("alert_feed_limit must be positive")
	}
	if c.AlertRefreshSeconds <= 0 {
		return fmt.Errorf("alert_refresh_seconds must be positive")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.DataCacheDir, filepath.Dir(c.StorePath)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
