package types

import (
	"encoding/json"
	"time"
)

// CacheEntry is one cached provider response. The key is a
// provider-namespaced query fingerprint (e.g. "news:tokyo-startups").
// An entry is valid iff now <= ExpiresAt; expired entries are deleted
// lazily when a read observes them, not by a background sweeper.
type CacheEntry struct {
	Key       string          `json:"cache_key"`
	Payload   json.RawMessage `json:"data"`
	Source    string          `json:"source"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// ValidAt reports whether the entry is still live at the given instant.
func (e *CacheEntry) ValidAt(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

// RateBudget is the fixed request window for one upstream API. One row
// exists per API name, created lazily on first use and never deleted.
// The requestCount <= maxRequests invariant holds after every successful
// acquire; the window resets atomically with the acquiring request that
// observes it elapsed.
type RateBudget struct {
	APIName        string        `json:"api_name"`
	WindowStart    time.Time     `json:"window_start"`
	WindowDuration time.Duration `json:"window_duration_ms"`
	RequestCount   int           `json:"requests_count"`
	MaxRequests    int           `json:"max_requests"`
}

// WindowEnd returns the instant the current window closes.
func (b *RateBudget) WindowEnd() time.Time {
	return b.WindowStart.Add(b.WindowDuration)
}

// WidgetInstance is one widget placed on the dashboard. X and Y are
// percentage coordinates clamped to [0,90]. ZIndex is monotonically
// increased within an elevation band by bring-to-front.
type WidgetInstance struct {
	ID         string     `json:"id"`
	WidgetType WidgetType `json:"widget_type"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Elevation  Elevation  `json:"elevation"`
	ZIndex     int        `json:"z_index"`
	Visible    bool       `json:"visible"`
	Settings   Settings   `json:"settings"`
	SceneID    *string    `json:"scene_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewsItem is one entry from the news search upstream.
type NewsItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// WeatherReport is the post-processed weather payload served to widgets.
// Icon is always one of the closed icon vocabulary.
type WeatherReport struct {
	Location    string        `json:"location"`
	Temperature int           `json:"temperature"`
	FeelsLike   int           `json:"feelsLike"`
	Condition   string        `json:"condition"`
	Humidity    int           `json:"humidity"`
	WindSpeed   int           `json:"windSpeed"`
	Icon        string        `json:"icon"`
	Forecast    []ForecastDay `json:"forecast"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// ForecastDay is one day of the short outlook attached to a WeatherReport.
type ForecastDay struct {
	Day       string `json:"day"`
	High      int    `json:"high"`
	Low       int    `json:"low"`
	Condition string `json:"condition"`
	Icon      string `json:"icon"`
}

// Photo is one entry from the stock photo upstream, or from the curated
// fallback set.
type Photo struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographerUrl"`
	AvgColor        string `json:"avgColor"`
	Alt             string `json:"alt"`
}

// VoiceSession is the short-lived client credential handed to the
// browser for the peer-to-peer audio transport.
type VoiceSession struct {
	ClientSecret json.RawMessage `json:"client_secret"`
	ExpiresAt    json.RawMessage `json:"expires_at,omitempty"`
}
