// Package sensor assembles the field dashboard: the latest device sample
// enriched with intra-day series, weather, air quality, alerts and the soil
// health prediction.
package sensor

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/inference"
	"github.com/krishimitra/server/internal/store"
	"github.com/krishimitra/server/internal/weather"
)

// Series buckets: one point every four hours across the day.
var seriesSlots = []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00"}

// Soil lab values the device cannot measure. Typical figures for
// Maharashtra farmland; the model server is trained on the same scale.
const (
	defaultNitrogenPPM    = 1500.0
	defaultPhosphorusPPM  = 15.0
	defaultPotassiumPPM   = 200.0
	defaultOrganicCarbon  = 1.5
	defaultClayPercent    = 25.0
	defaultPotassiumMgKg  = 200.0
	defaultPhosphorusKg   = 15.0
	readingRetention      = 7 * 24 * time.Hour
	maxRecentReadings     = 288 // one day at 5 minute sampling
)

// Service builds sensor snapshots and applies device settings.
type Service struct {
	repo    store.Repository
	weather *weather.Client
	engine  *inference.Engine
	logger  *slog.Logger
}

// NewService creates the sensor service.
func NewService(repo store.Repository, wc *weather.Client, engine *inference.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, weather: wc, engine: engine, logger: logger}
}

// Snapshot returns the full dashboard payload. Weather, air quality and
// soil health sections always fall back to safe values; only a storage
// failure is an error.
func (s *Service) Snapshot(ctx context.Context) (*domain.SensorSnapshot, error) {
	latest, err := s.repo.LatestReading(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		latest = seedReading(time.Now())
	}

	state, err := s.repo.DeviceState(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentReadings(ctx, maxRecentReadings)
	if err != nil {
		return nil, err
	}

	w := s.weather.CurrentWeather(ctx)
	air := s.weather.CurrentAirQuality(ctx)
	airQuality := float64(air.AQI) * 20

	snap := &domain.SensorSnapshot{
		Moisture:     latest.Moisture,
		Temperature:  latest.Temperature,
		PH:           latest.PH,
		Salinity:     latest.Salinity,
		AirQuality:   airQuality,
		WaterQuality: latest.WaterQuality,
		Threshold:    state.Threshold,
		Irrigation:   state.Irrigation,

		MoistureData:     buildSeries(recent, latest.Moisture, func(r *domain.SensorReading) float64 { return r.Moisture }),
		TemperatureData:  buildSeries(recent, latest.Temperature, func(r *domain.SensorReading) float64 { return r.Temperature }),
		PHData:           buildSeries(recent, latest.PH, func(r *domain.SensorReading) float64 { return r.PH }),
		WaterQualityData: buildSeries(recent, latest.WaterQuality, func(r *domain.SensorReading) float64 { return r.WaterQuality }),
		AirQualityData:   airSeries(airQuality),

		WeeklyWeather: weeklyOutlook(w),
		WeatherAlerts: buildAlerts(w, air),
		LastUpdated:   latest.RecordedAt,
	}

	snap.SoilHealth = s.engine.SoilHealth(ctx, s.soilFeatures(latest, w))
	return snap, nil
}

// SoilHealth assesses the current soil condition from the latest sample
// and live weather.
func (s *Service) SoilHealth(ctx context.Context) (*domain.SoilHealth, error) {
	latest, err := s.repo.LatestReading(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		latest = seedReading(time.Now())
	}
	w := s.weather.CurrentWeather(ctx)
	return s.engine.SoilHealth(ctx, s.soilFeatures(latest, w)), nil
}

// soilFeatures maps a device sample plus current weather onto the soil
// model's input columns.
func (s *Service) soilFeatures(r *domain.SensorReading, w weather.Current) inference.SoilFeatures {
	return inference.SoilFeatures{
		PH:                   r.PH,
		NitrogenPPM:          defaultNitrogenPPM,
		PhosphorusPPM:        defaultPhosphorusPPM,
		PotassiumPPM:         defaultPotassiumPPM,
		OrganicCarbonPercent: defaultOrganicCarbon,
		SalinityDSM:          r.Salinity,
		TemperatureC:         w.Temperature,
		RainfallMM:           w.RainfallMM,
		ClayContentPercent:   defaultClayPercent,
		SoilMoisturePercent:  r.Moisture,
	}
}

// CropFeatures maps the current field conditions onto the crop model's
// input columns, reusing the soil lab defaults.
func (s *Service) CropFeatures(ctx context.Context) inference.CropFeatures {
	w := s.weather.CurrentWeather(ctx)
	latest, err := s.repo.LatestReading(ctx)
	if err != nil || latest == nil {
		latest = seedReading(time.Now())
	}
	return inference.CropFeatures{
		N:           defaultNitrogenPPM / 10, // kg/ha scale of the training set
		P:           defaultPhosphorusKg,
		K:           defaultPotassiumMgKg / 2,
		Temperature: w.Temperature,
		Humidity:    w.Humidity,
		PH:          latest.PH,
		Rainfall:    w.RainfallMM / 4, // seasonal share of the annual estimate
	}
}

// SetThreshold stores the irrigation moisture threshold.
func (s *Service) SetThreshold(ctx context.Context, threshold float64) error {
	return s.repo.SetThreshold(ctx, threshold)
}

// SetIrrigation toggles irrigation.
func (s *Service) SetIrrigation(ctx context.Context, on bool) error {
	return s.repo.SetIrrigation(ctx, on)
}

// buildSeries buckets recent readings into the fixed intra-day slots.
// Empty buckets carry the current value so charts never have gaps.
func buildSeries(recent []*domain.SensorReading, current float64, pick func(*domain.SensorReading) float64) []domain.SeriesPoint {
	sums := make([]float64, len(seriesSlots))
	counts := make([]int, len(seriesSlots))
	for _, r := range recent {
		slot := r.RecordedAt.Hour() / 4
		if slot >= len(seriesSlots) {
			slot = len(seriesSlots) - 1
		}
		sums[slot] += pick(r)
		counts[slot]++
	}

	out := make([]domain.SeriesPoint, len(seriesSlots))
	for i, label := range seriesSlots {
		v := current
		if counts[i] > 0 {
			v = sums[i] / float64(counts[i])
		}
		out[i] = domain.SeriesPoint{Time: label, Value: round1(v)}
	}
	return out
}

// airSeries synthesizes a day curve around the current air quality value.
// The pollution API has no intra-day history on the free tier.
func airSeries(current float64) []domain.SeriesPoint {
	out := make([]domain.SeriesPoint, len(seriesSlots))
	for i, label := range seriesSlots {
		// Higher around midday traffic, lower overnight.
		offset := 6 * math.Sin(float64(i)/float64(len(seriesSlots))*2*math.Pi)
		out[i] = domain.SeriesPoint{Time: label, Value: round1(clamp(current+offset, 0, 500))}
	}
	return out
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// weeklyOutlook projects the current conditions across the next seven
// days with a mild day-to-day drift.
func weeklyOutlook(w weather.Current) []domain.DailyWeather {
	now := time.Now()
	rainChance := 10.0
	switch w.Condition {
	case "Rain", "Drizzle", "Thunderstorm":
		rainChance = 70
	case "Clouds":
		rainChance = 30
	}

	out := make([]domain.DailyWeather, 7)
	for i := range out {
		day := now.AddDate(0, 0, i)
		drift := 2 * math.Sin(float64(i)*0.9)
		out[i] = domain.DailyWeather{
			Day:      dayNames[day.Weekday()],
			Temp:     round1(w.Temperature + drift),
			Humidity: round1(clamp(w.Humidity+3*drift, 20, 100)),
			Rain:     round1(clamp(rainChance-8*float64(i)*0.5, 0, 100)),
		}
	}
	return out
}

// buildAlerts derives farmer advisories from current conditions.
func buildAlerts(w weather.Current, air weather.AirQuality) []domain.WeatherAlert {
	var alerts []domain.WeatherAlert

	switch w.Condition {
	case "Rain", "Drizzle", "Thunderstorm":
		alerts = append(alerts, domain.WeatherAlert{
			ID:      "rain",
			Title:   "Rain Alert",
			Message: "Rainfall expected. Consider pausing irrigation and protect harvested produce.",
		})
	case "Snow", "Mist", "Fog":
		alerts = append(alerts, domain.WeatherAlert{
			ID:      "visibility",
			Title:   "Low Visibility",
			Message: "Mist or fog conditions. Delay spraying operations until visibility improves.",
		})
	}

	if w.Temperature > 35 {
		alerts = append(alerts, domain.WeatherAlert{
			ID:      "heat",
			Title:   "Heat Warning",
			Message: "High temperatures forecast. Increase irrigation frequency and provide shade for livestock.",
		})
	}

	if air.AQI >= 4 {
		alerts = append(alerts, domain.WeatherAlert{
			ID:      "air",
			Title:   "Poor Air Quality",
			Message: "Air quality is poor. Limit outdoor field work during peak hours.",
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, domain.WeatherAlert{
			ID:      "none",
			Title:   "No Weather Alerts",
			Message: "Conditions are normal for field operations.",
		})
	}
	return alerts
}

// seedReading provides baseline values before the first sample lands.
func seedReading(at time.Time) *domain.SensorReading {
	return &domain.SensorReading{
		Moisture:     45.0,
		Temperature:  26.0,
		PH:           6.8,
		Salinity:     0.35,
		WaterQuality: 82.0,
		RecordedAt:   at,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
