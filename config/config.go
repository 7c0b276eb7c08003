package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Image failure policies
const (
	ImageFailureAbort = "abort"
	ImageFailureSkip  = "skip"
)

// Config stores all configuration for a deck run. It is loaded once in main
// and handed to every collaborator that needs it.
type Config struct {
	TargetProducts    int     `mapstructure:"TARGET_PRODUCTS"`
	LinkMultiplier    int     `mapstructure:"LINK_MULTIPLIER"`
	DiscountRate      float64 `mapstructure:"DISCOUNT_RATE"`
	ExclusionKeywords string  `mapstructure:"EXCLUSION_KEYWORDS"`
	PlatformSuffix    string  `mapstructure:"PLATFORM_SUFFIX"`

	FetchTimeoutSeconds  int     `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	RenderTimeoutSeconds int     `mapstructure:"RENDER_TIMEOUT_SECONDS"`
	RequestsPerSecond    float64 `mapstructure:"REQUESTS_PER_SECOND"`
	UserAgent            string  `mapstructure:"USER_AGENT"`

	ImageMainQuality   int    `mapstructure:"IMAGE_MAIN_QUALITY"`
	ImageThumbQuality  int    `mapstructure:"IMAGE_THUMB_QUALITY"`
	ImageThumbWidth    int    `mapstructure:"IMAGE_THUMB_WIDTH"`
	ImageScratchDir    string `mapstructure:"IMAGE_SCRATCH_DIR"`
	ImageFailurePolicy string `mapstructure:"IMAGE_FAILURE_POLICY"`

	OutputDir string `mapstructure:"OUTPUT_DIR"`
	AppName   string `mapstructure:"APP_NAME"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	SenderName     string `mapstructure:"SENDER_NAME"`
	SenderEmail    string `mapstructure:"SENDER_EMAIL"`

	AWSRegion     string `mapstructure:"AWS_REGION"`
	AWSBucketName string `mapstructure:"AWS_BUCKET_NAME"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`

	PushgatewayURL string `mapstructure:"PUSHGATEWAY_URL"`
	ServerPort     string `mapstructure:"SERVER_PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"TARGET_PRODUCTS", "LINK_MULTIPLIER", "DISCOUNT_RATE", "EXCLUSION_KEYWORDS", "PLATFORM_SUFFIX",
	"FETCH_TIMEOUT_SECONDS", "RENDER_TIMEOUT_SECONDS", "REQUESTS_PER_SECOND", "USER_AGENT",
	"IMAGE_MAIN_QUALITY", "IMAGE_THUMB_QUALITY", "IMAGE_THUMB_WIDTH", "IMAGE_SCRATCH_DIR", "IMAGE_FAILURE_POLICY",
	"OUTPUT_DIR", "APP_NAME", "GEMINI_API_KEY", "GEMINI_MODEL", "SENDGRID_API_KEY", "SENDER_NAME", "SENDER_EMAIL",
	"AWS_REGION", "AWS_BUCKET_NAME", "MONGO_URI", "MONGO_DATABASE", "REDIS_ADDR", "CACHE_TTL_HOURS",
	"PUSHGATEWAY_URL", "SERVER_PORT", "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TARGET_PRODUCTS", 5)
	v.SetDefault("LINK_MULTIPLIER", 5)
	v.SetDefault("DISCOUNT_RATE", 0.20)
	v.SetDefault("EXCLUSION_KEYWORDS", "gift,voucher,gift-card,gift-voucher")
	v.SetDefault("PLATFORM_SUFFIX", ".myshopify.com")
	v.SetDefault("FETCH_TIMEOUT_SECONDS", 20)
	v.SetDefault("RENDER_TIMEOUT_SECONDS", 60)
	v.SetDefault("REQUESTS_PER_SECOND", 0)
	v.SetDefault("USER_AGENT", "Mozilla/5.0")
	v.SetDefault("IMAGE_MAIN_QUALITY", 70)
	v.SetDefault("IMAGE_THUMB_QUALITY", 50)
	v.SetDefault("IMAGE_THUMB_WIDTH", 400)
	v.SetDefault("IMAGE_SCRATCH_DIR", "")
	v.SetDefault("IMAGE_FAILURE_POLICY", ImageFailureAbort)
	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("APP_NAME", "Wishlist Plus")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SENDER_NAME", "Wishlist Plus")
	v.SetDefault("SENDER_EMAIL", "")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("AWS_BUCKET_NAME", "")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "storedeck")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL_HOURS", 24)
	v.SetDefault("PUSHGATEWAY_URL", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads configuration from a local .env file (optional) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about during Unmarshal.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set in the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks the business-policy values.
func (c *Config) Validate() error {
	if c.TargetProducts < 5 {
		return fmt.Errorf("TARGET_PRODUCTS must be at least 5, got %d", c.TargetProducts)
	}
	if c.LinkMultiplier < 1 {
		return fmt.Errorf("LINK_MULTIPLIER must be positive, got %d", c.LinkMultiplier)
	}
	if c.DiscountRate < 0 || c.DiscountRate >= 1 {
		return fmt.Errorf("DISCOUNT_RATE must be in [0, 1), got %v", c.DiscountRate)
	}
	for name, q := range map[string]int{"IMAGE_MAIN_QUALITY": c.ImageMainQuality, "IMAGE_THUMB_QUALITY": c.ImageThumbQuality} {
		if q < 1 || q > 100 {
			return fmt.Errorf("%s must be in 1..100, got %d", name, q)
		}
	}
	if c.ImageThumbWidth < 1 {
		return fmt.Errorf("IMAGE_THUMB_WIDTH must be positive, got %d", c.ImageThumbWidth)
	}
	switch c.ImageFailurePolicy {
	case ImageFailureAbort, ImageFailureSkip:
	default:
		return fmt.Errorf("IMAGE_FAILURE_POLICY must be %q or %q, got %q", ImageFailureAbort, ImageFailureSkip, c.ImageFailurePolicy)
	}
	return nil
}

// Keywords returns the exclusion keywords, lower-cased and trimmed.
func (c *Config) Keywords() []string {
	var out []string
	for _, k := range strings.Split(c.ExclusionKeywords, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// LinkCeiling is the number of product links at which discovery stops.
func (c *Config) LinkCeiling() int {
	return c.TargetProducts * c.LinkMultiplier
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}
