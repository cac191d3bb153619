package types

// Mode represents the display state of the dashboard surface.
// Exactly one mode is active at a time. The mode is never persisted;
// every session starts in ModeAmbient.
type Mode string

const (
	// ModeAmbient is the passive, non-interactive display state. Widgets
	// suppress internal animation and polling while ambient.
	ModeAmbient Mode = "ambient"

	// ModeInteraction is the active state entered on any user input.
	// An idle timer returns the display to ambient after 90 seconds
	// without activity.
	ModeInteraction Mode = "interaction"

	// ModeEdit allows widget repositioning. Only reachable via explicit
	// user action, never via the idle timer.
	ModeEdit Mode = "edit"

	// ModeCalibration is the display calibration state. Reachability
	// rules match ModeEdit.
	ModeCalibration Mode = "calibration"
)

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAmbient, ModeInteraction, ModeEdit, ModeCalibration:
		return true
	}
	return false
}

// Elevation is a named stacking tier for widgets. Z-order is scoped per
// elevation band: a widget brought to front within "surface" never
// outranks a "floating" widget.
type Elevation string

const (
	ElevationSurface  Elevation = "surface"
	ElevationRaised1  Elevation = "raised-1"
	ElevationRaised2  Elevation = "raised-2"
	ElevationRaised3  Elevation = "raised-3"
	ElevationRaised4  Elevation = "raised-4"
	ElevationFloating Elevation = "floating"
)

// elevationBaseZ maps each band to the base z-index widgets in that band
// start from. Bands are spaced widely enough that bring-to-front
// increments within one band stay below the next band's base in practice.
var elevationBaseZ = map[Elevation]int{
	ElevationSurface:  1,
	ElevationRaised1:  10,
	ElevationRaised2:  20,
	ElevationRaised3:  30,
	ElevationRaised4:  40,
	ElevationFloating: 100,
}

// BaseZ returns the base z-index for the band. Unknown bands fall back
// to the raised-1 base, matching how unrecognized rows are normalized
// on load.
func (e Elevation) BaseZ() int {
	if z, ok := elevationBaseZ[e]; ok {
		return z
	}
	return elevationBaseZ[ElevationRaised1]
}

// Valid reports whether e is a known elevation band.
func (e Elevation) Valid() bool {
	_, ok := elevationBaseZ[e]
	return ok
}

// WidgetType identifies a widget kind on the dashboard.
type WidgetType string

const (
	WidgetTime          WidgetType = "time"
	WidgetOrb           WidgetType = "orb"
	WidgetWeather       WidgetType = "weather"
	WidgetNews          WidgetType = "news"
	WidgetNotifications WidgetType = "notifications"
	WidgetStatusDots    WidgetType = "status_dots"
	WidgetPhotos        WidgetType = "photos"
)

// Provider identifies an upstream data provider fronted by the feed
// service. The provider name doubles as the rate-budget row key.
type Provider string

const (
	// ProviderSerperNews is the news search API.
	ProviderSerperNews Provider = "serper"

	// ProviderSerperWeather is the web-search-derived weather answer box.
	ProviderSerperWeather Provider = "serper-weather"

	// ProviderPexels is the stock photo search API.
	ProviderPexels Provider = "pexels"
)
