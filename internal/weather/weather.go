// Package weather wraps the OpenWeatherMap current-weather and air
// pollution endpoints. Every lookup degrades to fixed fallback values when
// the key is missing or the call fails; callers never see an error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Default coordinates: Pune, Maharashtra.
const (
	DefaultLat = 18.5204
	DefaultLon = 73.8567
)

// Current is the current-weather summary used by the dashboard and the
// soil health feature mapping.
type Current struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"weather_condition"`
	Description string  `json:"weather_description"`
	RainfallMM  float64 `json:"rainfall_mm"`
	Timestamp   int64   `json:"timestamp"`
}

// AirQuality is the current air pollution summary. AQI is the 1-5 index
// scale of the upstream API.
type AirQuality struct {
	AQI       int     `json:"aqi"`
	CO        float64 `json:"co"`
	NO2       float64 `json:"no2"`
	O3        float64 `json:"o3"`
	PM25      float64 `json:"pm2_5"`
	PM10      float64 `json:"pm10"`
	Timestamp int64   `json:"timestamp"`
}

// Client calls OpenWeatherMap for one fixed location.
type Client struct {
	apiKey  string
	baseURL string
	lat     float64
	lon     float64
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a weather client. An empty apiKey is allowed; all
// lookups then return fallback values.
func NewClient(apiKey string, lat, lon float64, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if lat == 0 && lon == 0 {
		lat, lon = DefaultLat, DefaultLon
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		lat:     lat,
		lon:     lon,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	DT int64 `json:"dt"`
}

// CurrentWeather returns the current conditions, or fallback values on any
// failure.
func (c *Client) CurrentWeather(ctx context.Context) Current {
	if c.apiKey == "" {
		return fallbackWeather()
	}

	url := fmt.Sprintf("%s/weather?lat=%g&lon=%g&appid=%s&units=metric", c.baseURL, c.lat, c.lon, c.apiKey)
	var parsed currentResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		c.logger.Warn("Weather lookup failed, using fallback values", "error", err)
		return fallbackWeather()
	}

	out := Current{
		Temperature: parsed.Main.Temp,
		Humidity:    parsed.Main.Humidity,
		Pressure:    parsed.Main.Pressure,
		WindSpeed:   parsed.Wind.Speed,
		RainfallMM:  annualRainfallEstimate(parsed.Rain.OneHour),
		Timestamp:   parsed.DT,
	}
	if len(parsed.Weather) > 0 {
		out.Condition = parsed.Weather[0].Main
		out.Description = parsed.Weather[0].Description
	}
	return out
}

type airResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
		} `json:"components"`
		DT int64 `json:"dt"`
	} `json:"list"`
}

// CurrentAirQuality returns current air pollution, or fallback values on
// any failure.
func (c *Client) CurrentAirQuality(ctx context.Context) AirQuality {
	if c.apiKey == "" {
		return fallbackAirQuality()
	}

	url := fmt.Sprintf("%s/air_pollution?lat=%g&lon=%g&appid=%s", c.baseURL, c.lat, c.lon, c.apiKey)
	var parsed airResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		c.logger.Warn("Air quality lookup failed, using fallback values", "error", err)
		return fallbackAirQuality()
	}
	if len(parsed.List) == 0 {
		return fallbackAirQuality()
	}

	entry := parsed.List[0]
	return AirQuality{
		AQI:       entry.Main.AQI,
		CO:        entry.Components.CO,
		NO2:       entry.Components.NO2,
		O3:        entry.Components.O3,
		PM25:      entry.Components.PM25,
		PM10:      entry.Components.PM10,
		Timestamp: entry.DT,
	}
}

// Combined merges current weather and air quality into one map for the
// dashboard weather card.
func (c *Client) Combined(ctx context.Context) map[string]any {
	w := c.CurrentWeather(ctx)
	a := c.CurrentAirQuality(ctx)
	return map[string]any{
		"live":                c.Live(w),
		"temperature":         w.Temperature,
		"humidity":            w.Humidity,
		"pressure":            w.Pressure,
		"wind_speed":          w.WindSpeed,
		"weather_condition":   w.Condition,
		"weather_description": w.Description,
		"rainfall_mm":         w.RainfallMM,
		"aqi":                 a.AQI,
		"co":                  a.CO,
		"no2":                 a.NO2,
		"o3":                  a.O3,
		"pm2_5":               a.PM25,
		"pm10":                a.PM10,
		"timestamp":           w.Timestamp,
	}
}

// Live reports whether real data was retrieved recently; a zero timestamp
// marks fallback values.
func (c *Client) Live(w Current) bool {
	return w.Timestamp > 0
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// annualRainfallEstimate extrapolates 1h rain into a yearly figure. The
// soil model wants an annual scale input, not a forecast.
func annualRainfallEstimate(rain1h float64) float64 {
	if rain1h == 0 {
		return 0
	}
	return rain1h * 24 * 365 / 12
}

func fallbackWeather() Current {
	return Current{
		Temperature: 25.0,
		Humidity:    65,
		Pressure:    1013,
		WindSpeed:   3.5,
		Condition:   "Clear",
		Description: "clear sky",
		RainfallMM:  750, // annual estimate for Maharashtra
		Timestamp:   0,
	}
}

func fallbackAirQuality() AirQuality {
	return AirQuality{
		AQI:       2,
		CO:        400.5,
		NO2:       15.0,
		O3:        40.5,
		PM25:      12.5,
		PM10:      25.0,
		Timestamp: 0,
	}
}
