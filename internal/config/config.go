package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// SafetyLimits is the single source for every business-risk threshold.
// Both validation phases and the extractor sanity check read from here;
// the ceilings are never duplicated at call sites.
type SafetyLimits struct {
	// MaxTotalUsers is the absolute user-count ceiling. Requests above it
	// are redirected to the manual sales process.
	MaxTotalUsers int
	// MaxQuoteTotalCents is the absolute monetary ceiling for one quote.
	MaxQuoteTotalCents int64
	// PricePerUserMinCents/MaxCents bound the reasonable per-user band.
	PricePerUserMinCents int64
	PricePerUserMaxCents int64
	// MarginFloor is the minimum acceptable (total-cost)/total ratio.
	MarginFloor float64
}

// PricingRates are the configured rates and quantity factors used by the
// pricing calculator. No rate is hard-coded in the calculator itself.
type PricingRates struct {
	LaborRateCents        int64   // per hour
	RepeaterInstallHours  float64 // per repeater unit
	RadioInstallHours     float64 // per radio (programming/provisioning)
	SystemSetupHours      float64 // fixed per system
	LicensingFeeCents     int64   // flat regulatory fee
	TaxRate               float64
	BatterySpareFactor    float64 // battery qty = ceil(users * factor)
	UsersPerCharger       int     // charger qty = ceil(users / n)
	AudioAccessoryFactor  float64 // audio qty = ceil(users * factor)
	UsersPerRepeater      int     // one extra repeater per n users beyond the first
	SingleSiteRepeaterCap int     // repeater cap for single-site trunked systems
}

// ERPConfig 外部定价/库存服务（NetSuite等ERP）配置
type ERPConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	CacheTTL     time.Duration
}

// MQTTConfig 审计记录MQTT发布配置（默认禁用）
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// Config radioquote 服务配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	ERP    ERPConfig
	MQTT   MQTTConfig
	Safety SafetyLimits
	Rates  PricingRates
	// CompatibilityRulesFile optionally overrides the compiled-in rule
	// tables with a YAML file.
	CompatibilityRulesFile string
	AuditStream            string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "radioquote")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// ERP（定价/库存）外部服务：所有外部调用必须有超时上限
	cfg.ERP.BaseURL = getEnv("ERP_BASE_URL", "http://localhost:9090")
	cfg.ERP.APIKey = getEnv("ERP_API_KEY", "")
	cfg.ERP.Timeout = parseDuration(getEnv("ERP_TIMEOUT", "5s"), 5*time.Second)
	cfg.ERP.RetryCount = parseInt(getEnv("ERP_RETRY_COUNT", "2"), 2)
	cfg.ERP.RetryWait = parseDuration(getEnv("ERP_RETRY_WAIT", "500ms"), 500*time.Millisecond)
	cfg.ERP.RetryMaxWait = parseDuration(getEnv("ERP_RETRY_MAX_WAIT", "2s"), 2*time.Second)
	cfg.ERP.CacheTTL = parseDuration(getEnv("ERP_CACHE_TTL", "24h"), 24*time.Hour)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "radioquote-audit")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "radioquote/audit")

	// 安全阈值：单一配置来源（pre-validation 与 post-validation 共用）
	cfg.Safety.MaxTotalUsers = parseInt(getEnv("SAFETY_MAX_TOTAL_USERS", "5000"), 5000)
	cfg.Safety.MaxQuoteTotalCents = parseInt64(getEnv("SAFETY_MAX_QUOTE_TOTAL_CENTS", "200000000"), 200000000)
	cfg.Safety.PricePerUserMinCents = parseInt64(getEnv("SAFETY_PRICE_PER_USER_MIN_CENTS", "15000"), 15000)
	cfg.Safety.PricePerUserMaxCents = parseInt64(getEnv("SAFETY_PRICE_PER_USER_MAX_CENTS", "350000"), 350000)
	cfg.Safety.MarginFloor = parseFloat(getEnv("SAFETY_MARGIN_FLOOR", "0.15"), 0.15)

	cfg.Rates.LaborRateCents = parseInt64(getEnv("RATE_LABOR_CENTS", "12500"), 12500)
	cfg.Rates.RepeaterInstallHours = parseFloat(getEnv("RATE_REPEATER_INSTALL_HOURS", "8"), 8)
	cfg.Rates.RadioInstallHours = parseFloat(getEnv("RATE_RADIO_INSTALL_HOURS", "0.5"), 0.5)
	cfg.Rates.SystemSetupHours = parseFloat(getEnv("RATE_SYSTEM_SETUP_HOURS", "4"), 4)
	cfg.Rates.LicensingFeeCents = parseInt64(getEnv("RATE_LICENSING_FEE_CENTS", "70000"), 70000)
	cfg.Rates.TaxRate = parseFloat(getEnv("RATE_TAX", "0.08"), 0.08)
	cfg.Rates.BatterySpareFactor = parseFloat(getEnv("RATE_BATTERY_SPARE_FACTOR", "1.2"), 1.2)
	cfg.Rates.UsersPerCharger = parseInt(getEnv("RATE_USERS_PER_CHARGER", "6"), 6)
	cfg.Rates.AudioAccessoryFactor = parseFloat(getEnv("RATE_AUDIO_ACCESSORY_FACTOR", "0.3"), 0.3)
	cfg.Rates.UsersPerRepeater = parseInt(getEnv("RATE_USERS_PER_REPEATER", "100"), 100)
	cfg.Rates.SingleSiteRepeaterCap = parseInt(getEnv("RATE_SINGLE_SITE_REPEATER_CAP", "4"), 4)

	cfg.CompatibilityRulesFile = getEnv("COMPATIBILITY_RULES_FILE", "")
	cfg.AuditStream = getEnv("AUDIT_STREAM", "radioquote:audit")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseInt64(s string, def int64) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(s); err == nil {
		return v
	}
	return def
}
