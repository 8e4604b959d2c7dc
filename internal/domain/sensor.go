package domain

import (
	"time"
)

// SensorReading is one sample from the field device.
type SensorReading struct {
	ID           int64     `json:"id"`
	Moisture     float64   `json:"moisture"`
	Temperature  float64   `json:"temperature"`
	PH           float64   `json:"ph"`
	Salinity     float64   `json:"salinity"`
	WaterQuality float64   `json:"waterQuality"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// DeviceState holds the writable device settings.
type DeviceState struct {
	Threshold  float64   `json:"threshold"`
	Irrigation bool      `json:"irrigation"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SeriesPoint is one point of a coarse intra-day time series.
type SeriesPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// DailyWeather is one day of the weekly weather outlook.
type DailyWeather struct {
	Day      string  `json:"day"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Rain     float64 `json:"rain"`
}

// WeatherAlert is a farmer-facing advisory derived from current conditions.
type WeatherAlert struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SoilHealth is the soil health index prediction for the field.
type SoilHealth struct {
	HealthIndex    float64         `json:"health_index"`
	HealthCategory string          `json:"health_category"`
	Issues         map[string]bool `json:"issues"`
	ActiveIssues   []string        `json:"active_issues"`
}

// SensorSnapshot is the full dashboard payload: the latest reading enriched
// with derived series, weather, air quality, alerts and the soil health
// prediction. Every field is always populated; when a source is unavailable
// its fallback value is used instead.
type SensorSnapshot struct {
	Moisture         float64        `json:"moisture"`
	Temperature      float64        `json:"temperature"`
	PH               float64        `json:"ph"`
	Salinity         float64        `json:"salinity"`
	AirQuality       float64        `json:"airQuality"`
	WaterQuality     float64        `json:"waterQuality"`
	Threshold        float64        `json:"threshold"`
	Irrigation       bool           `json:"irrigation"`
	SoilHealth       *SoilHealth    `json:"soilHealth,omitempty"`
	MoistureData     []SeriesPoint  `json:"moistureData"`
	TemperatureData  []SeriesPoint  `json:"temperatureData"`
	PHData           []SeriesPoint  `json:"phData"`
	AirQualityData   []SeriesPoint  `json:"airQualityData"`
	WaterQualityData []SeriesPoint  `json:"waterQualityData"`
	WeeklyWeather    []DailyWeather `json:"weeklyWeatherData"`
	WeatherAlerts    []WeatherAlert `json:"weatherAlerts"`
	LastUpdated      time.Time      `json:"lastUpdated"`
}
