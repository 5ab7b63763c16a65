package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Log      LogConfig
	Sources  SourcesConfig
	Refresh  RefreshConfig
	School   SchoolConfig
	Banners  BannerConfig
	Weather  WeatherConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles Redis-backed response caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AdminConfig holds the shared admin passcode. A bcrypt hash wins over the plain value.
type AdminConfig struct {
	Passcode     string
	PasscodeHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SourcesConfig points at the schedule, substitution and bell timetable inputs.
type SourcesConfig struct {
	Schedule         string
	ScheduleFile     string
	ReplacementsFile string
	BellsFile        string
}

// RefreshConfig controls periodic snapshot reloads.
type RefreshConfig struct {
	AutoRefresh bool
	Interval    time.Duration
	Retries     int
	RetryDelay  time.Duration
}

// SchoolConfig carries display strings and embedded page URLs for the kiosk front-end.
type SchoolConfig struct {
	FullName  string
	ShortName string
	MapURL    string
	NewsURL   string
}

// BannerConfig is exposed read-only to the front-end, which owns the idle carousel.
type BannerConfig struct {
	Enabled        bool
	ImagePaths     []string
	URL            string
	Timeout        time.Duration
	SwitchInterval time.Duration
}

// WeatherConfig configures the weather widget feed.
type WeatherConfig struct {
	Enabled   bool
	City      string
	Latitude  *float64
	Longitude *float64
	CacheTTL  time.Duration
	APIURL    string
	GeoIPURL  string
	Timeout   time.Duration
}

// ExportConfig points the PDF renderer at TrueType fonts with Cyrillic glyphs.
type ExportConfig struct {
	FontPath     string
	BoldFontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 30*time.Minute),
	}

	cfg.Admin = AdminConfig{
		Passcode:     v.GetString("ADMIN_PASSCODE"),
		PasscodeHash: v.GetString("ADMIN_PASSCODE_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"), ",")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	source := strings.ToLower(v.GetString("SCHEDULE_SOURCE"))
	if source != SourcePostgres {
		source = SourceFile
	}
	cfg.Sources = SourcesConfig{
		Schedule:         source,
		ScheduleFile:     v.GetString("SCHEDULE_FILE_PATH"),
		ReplacementsFile: v.GetString("REPLACEMENTS_FILE_PATH"),
		BellsFile:        v.GetString("BELLS_FILE_PATH"),
	}

	cfg.Refresh = RefreshConfig{
		AutoRefresh: v.GetBool("AUTO_REFRESH"),
		Interval:    parseSeconds(v.GetString("REFRESH_INTERVAL"), 300*time.Second),
		Retries:     v.GetInt("REFRESH_RETRIES"),
		RetryDelay:  parseDuration(v.GetString("REFRESH_RETRY_DELAY"), 5*time.Second),
	}

	cfg.School = SchoolConfig{
		FullName:  v.GetString("SCHOOL_FULL_NAME"),
		ShortName: v.GetString("SCHOOL_SHORT_NAME"),
		MapURL:    v.GetString("MAP_URL"),
		NewsURL:   v.GetString("NEWS_URL"),
	}

	cfg.Banners = BannerConfig{
		Enabled:        v.GetBool("ENABLE_BANNERS"),
		ImagePaths:     splitAndTrim(v.GetString("BANNER_IMAGE_PATHS"), ";"),
		URL:            v.GetString("BANNER_URL"),
		Timeout:        parseSeconds(v.GetString("BANNER_TIMEOUT"), 30*time.Second),
		SwitchInterval: parseSeconds(v.GetString("BANNER_SWITCH_INTERVAL"), 5*time.Second),
	}

	cfg.Weather = WeatherConfig{
		Enabled:   v.GetBool("ENABLE_WEATHER"),
		City:      v.GetString("WEATHER_CITY"),
		Latitude:  parseCoordinate(v.GetString("WEATHER_LAT")),
		Longitude: parseCoordinate(v.GetString("WEATHER_LON")),
		CacheTTL:  parseDuration(v.GetString("WEATHER_CACHE_TTL"), 10*time.Minute),
		APIURL:    v.GetString("WEATHER_API_URL"),
		GeoIPURL:  v.GetString("GEOIP_API_URL"),
		Timeout:   parseDuration(v.GetString("WEATHER_TIMEOUT"), 10*time.Second),
	}

	cfg.Export = ExportConfig{
		FontPath:     v.GetString("EXPORT_FONT_PATH"),
		BoldFontPath: v.GetString("EXPORT_BOLD_FONT_PATH"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_kiosk")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "30m")
	v.SetDefault("ADMIN_PASSCODE", "1234")
	v.SetDefault("ADMIN_PASSCODE_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULE_SOURCE", SourceFile)
	v.SetDefault("SCHEDULE_FILE_PATH", "schedule.json")
	v.SetDefault("REPLACEMENTS_FILE_PATH", "replacements.docx")
	v.SetDefault("BELLS_FILE_PATH", "")

	v.SetDefault("AUTO_REFRESH", true)
	v.SetDefault("REFRESH_INTERVAL", "300")
	v.SetDefault("REFRESH_RETRIES", 3)
	v.SetDefault("REFRESH_RETRY_DELAY", "5s")

	v.SetDefault("SCHOOL_FULL_NAME", "Муниципальное общеобразовательное учреждение")
	v.SetDefault("SCHOOL_SHORT_NAME", "МОУ")
	v.SetDefault("MAP_URL", "https://example.com/map")
	v.SetDefault("NEWS_URL", "https://example.com/news")

	v.SetDefault("ENABLE_BANNERS", true)
	v.SetDefault("BANNER_IMAGE_PATHS", "")
	v.SetDefault("BANNER_URL", "")
	v.SetDefault("BANNER_TIMEOUT", "30")
	v.SetDefault("BANNER_SWITCH_INTERVAL", "5")

	v.SetDefault("ENABLE_WEATHER", true)
	v.SetDefault("WEATHER_CITY", "")
	v.SetDefault("WEATHER_LAT", "")
	v.SetDefault("WEATHER_LON", "")
	v.SetDefault("WEATHER_CACHE_TTL", "10m")
	v.SetDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("GEOIP_API_URL", "http://ip-api.com/json/?fields=lat,lon,city")
	v.SetDefault("WEATHER_TIMEOUT", "10s")

	v.SetDefault("EXPORT_FONT_PATH", "")
	v.SetDefault("EXPORT_BOLD_FONT_PATH", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

// parseSeconds accepts either a bare number of seconds or a Go duration string.
func parseSeconds(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return fallback
		}
		return time.Duration(n) * time.Second
	}
	d := parseDuration(raw, fallback)
	if d <= 0 {
		return fallback
	}
	return d
}

func parseCoordinate(raw string) *float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func splitAndTrim(raw, sep string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
