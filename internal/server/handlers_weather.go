package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/krishimitra/advisory/internal/i18n"
	"github.com/krishimitra/advisory/internal/weather"
)

// handleWeatherCurrent serves current conditions for a coordinate pair.
func (s *Service) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	s.serveWeather(w, r, "current", func(ctx context.Context, lat, lon float64, lang string) (interface{}, error) {
		return s.weather.Current(ctx, lat, lon, lang)
	})
}

// handleWeatherForecast serves the 5-day forecast.
func (s *Service) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	s.serveWeather(w, r, "forecast", func(ctx context.Context, lat, lon float64, lang string) (interface{}, error) {
		return s.weather.Forecast(ctx, lat, lon, lang)
	})
}

// handleWeatherFull serves current conditions and the forecast in one
// response for the dashboard.
func (s *Service) handleWeatherFull(w http.ResponseWriter, r *http.Request) {
	s.serveWeather(w, r, "full", func(ctx context.Context, lat, lon float64, lang string) (interface{}, error) {
		return s.weather.Full(ctx, lat, lon, lang)
	})
}

// serveWeather validates the coordinates, runs the fetch and maps
// upstream failures to 502 with the provider's message verbatim.
func (s *Service) serveWeather(w http.ResponseWriter, r *http.Request, endpoint string, fetch func(context.Context, float64, float64, string) (interface{}, error)) {
	lat, ok := floatParam(w, r, "lat")
	if !ok {
		return
	}
	lon, ok := floatParam(w, r, "lon")
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang != "" && !i18n.Language(lang).Valid() {
		lang = ""
	}

	s.metrics.countWeatherCall(r.Context(), endpoint)

	data, err := fetch(r.Context(), lat, lon, lang)
	if err != nil {
		var upstream *weather.UpstreamError
		if errors.As(err, &upstream) {
			writeError(w, http.StatusBadGateway, upstream.Message)
			return
		}
		log.Error().Err(err).Str("endpoint", endpoint).Msg("Weather fetch failed")
		writeError(w, http.StatusBadGateway, "Could not reach the weather service.")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func floatParam(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return f, true
}
