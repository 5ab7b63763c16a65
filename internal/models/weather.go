package models

import "time"

// WeatherInfo holds the current conditions shown on the kiosk header.
type WeatherInfo struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	WeatherCode int       `json:"weather_code"`
	WindSpeed   float64   `json:"wind_speed"`
	Humidity    int       `json:"humidity"`
	CityName    string    `json:"city_name"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Loaded      bool      `json:"loaded"`
	Error       string    `json:"error,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}
