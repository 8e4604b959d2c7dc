package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCurrentWeatherNoKeyUsesFallback(t *testing.T) {
	c := NewClient("", 0, 0, nil)
	w := c.CurrentWeather(context.Background())

	if w.Condition != "Clear" || w.Temperature != 25.0 {
		t.Errorf("fallback weather = %+v", w)
	}
	if c.Live(w) {
		t.Error("fallback values reported as live")
	}
}

func TestCurrentWeatherParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/weather") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q", got)
		}
		w.Write([]byte(`{
			"main": {"temp": 31.2, "humidity": 74, "pressure": 1008},
			"wind": {"speed": 4.1},
			"weather": [{"main": "Rain", "description": "light rain"}],
			"rain": {"1h": 2.5},
			"dt": 1756450000
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 0, 0, nil)
	c.baseURL = srv.URL

	w := c.CurrentWeather(context.Background())
	if w.Temperature != 31.2 || w.Humidity != 74 {
		t.Errorf("weather = %+v", w)
	}
	if w.Condition != "Rain" || w.Description != "light rain" {
		t.Errorf("condition = %q / %q", w.Condition, w.Description)
	}
	if !c.Live(w) {
		t.Error("parsed response not reported as live")
	}
	// 2.5mm/h extrapolated to an annual figure.
	if w.RainfallMM != 2.5*24*365/12 {
		t.Errorf("rainfall = %v", w.RainfallMM)
	}
}

func TestCurrentWeatherUpstreamErrorUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", 0, 0, nil)
	c.baseURL = srv.URL

	w := c.CurrentWeather(context.Background())
	if w.Timestamp != 0 || w.Condition != "Clear" {
		t.Errorf("expected fallback, got %+v", w)
	}
}

func TestCurrentAirQuality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"list": [{
				"main": {"aqi": 3},
				"components": {"co": 350.1, "no2": 22.4, "o3": 55.0, "pm2_5": 28.6, "pm10": 44.0},
				"dt": 1756450000
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 0, 0, nil)
	c.baseURL = srv.URL

	a := c.CurrentAirQuality(context.Background())
	if a.AQI != 3 || a.PM25 != 28.6 {
		t.Errorf("air quality = %+v", a)
	}
}

func TestCurrentAirQualityEmptyListUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 0, 0, nil)
	c.baseURL = srv.URL

	a := c.CurrentAirQuality(context.Background())
	if a.AQI != 2 || a.Timestamp != 0 {
		t.Errorf("expected fallback, got %+v", a)
	}
}

func TestCombined(t *testing.T) {
	c := NewClient("", 0, 0, nil)
	m := c.Combined(context.Background())

	for _, key := range []string{"live", "temperature", "humidity", "weather_condition", "aqi", "pm2_5"} {
		if _, ok := m[key]; !ok {
			t.Errorf("combined payload missing %q", key)
		}
	}
	if live := m["live"].(bool); live {
		t.Error("fallback payload flagged as live")
	}
}

func TestAnnualRainfallEstimate(t *testing.T) {
	if got := annualRainfallEstimate(0); got != 0 {
		t.Errorf("dry hour estimate = %v, want 0", got)
	}
	if got := annualRainfallEstimate(1); got != 730 {
		t.Errorf("estimate for 1mm/h = %v, want 730", got)
	}
}

func TestDefaultCoordinates(t *testing.T) {
	c := NewClient("k", 0, 0, nil)
	if c.lat != DefaultLat || c.lon != DefaultLon {
		t.Errorf("coords = %v/%v, want Pune defaults", c.lat, c.lon)
	}
	c = NewClient("k", 10, 20, nil)
	if c.lat != 10 || c.lon != 20 {
		t.Errorf("explicit coords not kept: %v/%v", c.lat, c.lon)
	}
}
