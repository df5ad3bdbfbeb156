// Package weather wraps the OpenWeatherMap API for current conditions
// and the 5-day forecast. No caching, no retry: upstream failures are
// surfaced verbatim to the caller.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Condition is one weather descriptor (e.g. "light rain").
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current is the current-conditions response subset the app renders.
type Current struct {
	Name    string      `json:"name"`
	Dt      int64       `json:"dt"`
	Weather []Condition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// ForecastEntry is one 3-hour forecast slot.
type ForecastEntry struct {
	Dt      int64       `json:"dt"`
	DtTxt   string      `json:"dt_txt"`
	Weather []Condition `json:"weather"`
	Main    struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Forecast is the 5-day forecast response subset.
type Forecast struct {
	List []ForecastEntry `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

// Bundle pairs current conditions with the forecast for the dashboard,
// which renders both at once.
type Bundle struct {
	Current  *Current  `json:"current"`
	Forecast *Forecast `json:"forecast"`
}

// UpstreamError is a non-2xx reply from OpenWeatherMap. The message is
// shown to the user verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather api: %s (status %d)", e.Message, e.StatusCode)
}

// Client calls the OpenWeatherMap API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a weather client. baseURL overrides the API root,
// mainly for tests; pass "" for the real endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Current fetches current conditions for the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64, lang string) (*Current, error) {
	var out Current
	if err := c.get(ctx, "/weather", lat, lon, lang, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast fetches the 5-day/3-hour forecast for the coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, lang string) (*Forecast, error) {
	var out Forecast
	if err := c.get(ctx, "/forecast", lat, lon, lang, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Full fetches current conditions and the forecast concurrently.
func (c *Client) Full(ctx context.Context, lat, lon float64, lang string) (*Bundle, error) {
	bundle := &Bundle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		current, err := c.Current(gctx, lat, lon, lang)
		if err != nil {
			return err
		}
		bundle.Current = current
		return nil
	})
	g.Go(func() error {
		forecast, err := c.Forecast(gctx, lat, lon, lang)
		if err != nil {
			return err
		}
		bundle.Forecast = forecast
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, lang string, out interface{}) error {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	if lang != "" {
		params.Set("lang", lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read weather response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		message := string(body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			message = apiErr.Message
		}
		return &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}
