package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/models"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
)

const (
	weatherCacheKey    = "weather:current"
	weatherUserAgent   = "kiosk-api/1.0"
	weatherDefaultCity = "Ваш город"
	weatherNoLocation  = "Не удалось определить местоположение"
	weatherRetryAfter  = time.Minute
)

// WeatherService fetches current conditions for the kiosk header.
type WeatherService struct {
	cfg     config.WeatherConfig
	client  *http.Client
	cache   *CacheService
	metrics *MetricsService
	clock   clock.Clock
	logger  *zap.Logger

	mu     sync.Mutex
	last   *models.WeatherInfo
	failed *models.WeatherInfo
}

// NewWeatherService constructs a WeatherService. A nil client gets one bounded by cfg.Timeout.
func NewWeatherService(cfg config.WeatherConfig, client *http.Client, cache *CacheService, metrics *MetricsService, clk clock.Clock, logger *zap.Logger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System{}
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &WeatherService{cfg: cfg, client: client, cache: cache, metrics: metrics, clock: clk, logger: logger}
}

// Current returns the latest conditions. Failures are reported inside the result, never as an error.
func (s *WeatherService) Current(ctx context.Context) models.WeatherInfo {
	if !s.cfg.Enabled {
		return models.WeatherInfo{Error: "weather disabled"}
	}

	now := s.clock.Now()
	s.mu.Lock()
	if s.last != nil && now.Sub(s.last.FetchedAt) < s.cfg.CacheTTL {
		info := *s.last
		s.mu.Unlock()
		return info
	}
	if s.failed != nil && now.Sub(s.failed.FetchedAt) < s.retryAfter() {
		info := *s.failed
		s.mu.Unlock()
		return info
	}
	s.mu.Unlock()

	var info models.WeatherInfo
	if hit, err := s.cache.Get(ctx, weatherCacheKey, &info); err == nil && hit && info.Loaded {
		s.remember(info)
		return info
	}

	info, err := s.fetch(ctx)
	s.metrics.RecordWeatherFetch(err)
	if err != nil {
		s.logger.Warn("weather fetch failed", zap.Error(err))
		failed := models.WeatherInfo{Error: err.Error(), FetchedAt: now}
		s.mu.Lock()
		s.failed = &failed
		s.mu.Unlock()
		return failed
	}
	info.FetchedAt = now
	s.remember(info)
	_ = s.cache.Set(ctx, weatherCacheKey, info, s.cfg.CacheTTL)
	return info
}

func (s *WeatherService) remember(info models.WeatherInfo) {
	s.mu.Lock()
	s.last = &info
	s.failed = nil
	s.mu.Unlock()
}

// retryAfter bounds how long a failed fetch is served before upstream is tried again.
func (s *WeatherService) retryAfter() time.Duration {
	if s.cfg.CacheTTL < weatherRetryAfter {
		return s.cfg.CacheTTL
	}
	return weatherRetryAfter
}

type geoIPResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city"`
}

type openMeteoResponse struct {
	Current struct {
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		Humidity            int     `json:"relative_humidity_2m"`
	} `json:"current"`
}

func (s *WeatherService) fetch(ctx context.Context) (models.WeatherInfo, error) {
	city := strings.TrimSpace(s.cfg.City)
	var lat, lon float64
	if s.cfg.Latitude != nil && s.cfg.Longitude != nil {
		lat, lon = *s.cfg.Latitude, *s.cfg.Longitude
	} else {
		var geo geoIPResponse
		if err := s.getJSON(ctx, s.cfg.GeoIPURL, &geo); err != nil {
			s.logger.Debug("geoip lookup failed", zap.Error(err))
			return models.WeatherInfo{}, errors.New(weatherNoLocation)
		}
		lat, lon = geo.Lat, geo.Lon
		if city == "" {
			city = geo.City
		}
	}
	if city == "" {
		city = weatherDefaultCity
	}

	endpoint, err := url.Parse(s.cfg.APIURL)
	if err != nil {
		return models.WeatherInfo{}, fmt.Errorf("parse weather api url: %w", err)
	}
	query := endpoint.Query()
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("current", "temperature_2m,apparent_temperature,weather_code,wind_speed_10m,relative_humidity_2m")
	query.Set("wind_speed_unit", "ms")
	query.Set("timezone", "auto")
	endpoint.RawQuery = query.Encode()

	var payload openMeteoResponse
	if err := s.getJSON(ctx, endpoint.String(), &payload); err != nil {
		return models.WeatherInfo{}, err
	}

	code := payload.Current.WeatherCode
	return models.WeatherInfo{
		Temperature: round1(payload.Current.Temperature),
		FeelsLike:   round1(payload.Current.ApparentTemperature),
		WeatherCode: code,
		WindSpeed:   round1(payload.Current.WindSpeed),
		Humidity:    payload.Current.Humidity,
		CityName:    city,
		Emoji:       WeatherEmoji(code),
		Description: WeatherDescription(code),
		Loaded:      true,
	}, nil
}

func (s *WeatherService) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", weatherUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", req.URL.Host, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Host, err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WeatherEmoji maps a WMO weather code to an icon.
func WeatherEmoji(code int) string {
	switch code {
	case 0:
		return "☀️"
	case 1:
		return "🌤️"
	case 2:
		return "⛅"
	case 3:
		return "☁️"
	case 45, 48:
		return "🌫️"
	case 51, 53, 55:
		return "🌦️"
	case 61, 63, 65, 80, 81, 82:
		return "🌧️"
	case 71, 73, 75:
		return "❄️"
	case 77, 85, 86:
		return "🌨️"
	case 95, 96, 99:
		return "⛈️"
	default:
		return "🌡️"
	}
}

var weatherDescriptions = map[int]string{
	0:  "Ясно",
	1:  "Преимущественно ясно",
	2:  "Переменная облачность",
	3:  "Пасмурно",
	45: "Туман",
	48: "Изморозь",
	51: "Лёгкая морось",
	53: "Морось",
	55: "Сильная морось",
	61: "Небольшой дождь",
	63: "Дождь",
	65: "Сильный дождь",
	71: "Небольшой снег",
	73: "Снег",
	75: "Сильный снег",
	77: "Снежные зёрна",
	80: "Небольшой ливень",
	81: "Ливень",
	82: "Сильный ливень",
	85: "Снегопад",
	86: "Сильный снегопад",
	95: "Гроза",
	96: "Гроза с градом",
	99: "Гроза с сильным градом",
}

// WeatherDescription maps a WMO weather code to a Russian label.
func WeatherDescription(code int) string {
	if desc, ok := weatherDescriptions[code]; ok {
		return desc
	}
	return "Неизвестно"
}
