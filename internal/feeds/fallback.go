package feeds

import (
	"encoding/json"
	"time"

	"driftboard/internal/types"
)

// fallbackNews is the static substitute headline list served when no
// news credential is configured.
var fallbackNews = []types.NewsItem{
	{Title: "Technology advances reshape daily life", Link: "#", Snippet: "New innovations continue to transform how we work and live.", Source: "Tech News", Date: "Today"},
	{Title: "Global markets show steady growth", Link: "#", Snippet: "Economic indicators point to continued expansion.", Source: "Finance Daily", Date: "Today"},
	{Title: "Climate initiatives gain momentum", Link: "#", Snippet: "Countries commit to new sustainability goals.", Source: "Environment Watch", Date: "Today"},
	{Title: "Space exploration reaches new milestones", Link: "#", Snippet: "Recent missions expand our understanding of the universe.", Source: "Space Today", Date: "Today"},
	{Title: "Healthcare innovations improve outcomes", Link: "#", Snippet: "Medical breakthroughs offer hope for patients worldwide.", Source: "Health Report", Date: "Today"},
}

// curatedPhotos is the substitute photo set used both when no photo
// credential is configured and when the upstream fails or returns an
// empty result.
var curatedPhotos = []types.Photo{
	{ID: "pexels-1", URL: "https://images.pexels.com/photos/1287145/pexels-photo-1287145.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Eberhard Grossgasteiger", PhotographerURL: "https://www.pexels.com/@eberhardgross", AvgColor: "#5D7182", Alt: "Mountain landscape at sunset"},
	{ID: "pexels-2", URL: "https://images.pexels.com/photos/1166209/pexels-photo-1166209.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Lukas Kloeppel", PhotographerURL: "https://www.pexels.com/@lkloeppel", AvgColor: "#4A6B7C", Alt: "Calm ocean waves at dawn"},
	{ID: "pexels-3", URL: "https://images.pexels.com/photos/1421903/pexels-photo-1421903.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Engin Akyurt", PhotographerURL: "https://www.pexels.com/@enginakyurt", AvgColor: "#2C4A3E", Alt: "Misty forest morning"},
	{ID: "pexels-4", URL: "https://images.pexels.com/photos/1103970/pexels-photo-1103970.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Johannes Plenio", PhotographerURL: "https://www.pexels.com/@jplenio", AvgColor: "#8B6D4A", Alt: "Golden hour in the forest"},
	{ID: "pexels-5", URL: "https://images.pexels.com/photos/1054218/pexels-photo-1054218.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Trace Hudson", PhotographerURL: "https://www.pexels.com/@tracehudson", AvgColor: "#3E5B6E", Alt: "Starry night sky"},
	{ID: "pexels-6", URL: "https://images.pexels.com/photos/1671324/pexels-photo-1671324.jpeg?auto=compress&cs=tinysrgb&w=1920", Photographer: "Engin Akyurt", PhotographerURL: "https://www.pexels.com/@enginakyurt", AvgColor: "#B8A082", Alt: "Desert dunes at sunset"},
}

// dayAbbrevs indexes time.Weekday to the short day names used in
// forecast payloads.
var dayAbbrevs = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// fallbackWeather builds the substitute weather report for a location.
// Apart from the day names and timestamp it is fixed data.
func fallbackWeather(location string, now time.Time) types.WeatherReport {
	today := int(now.Weekday())
	const baseTemp = 72

	return types.WeatherReport{
		Location:    location,
		Temperature: baseTemp,
		FeelsLike:   baseTemp - 2,
		Condition:   "Partly Cloudy",
		Humidity:    45,
		WindSpeed:   8,
		Icon:        "partly-cloudy",
		Forecast: []types.ForecastDay{
			{Day: dayAbbrevs[(today+1)%7], High: 74, Low: 62, Condition: "Sunny", Icon: "sunny"},
			{Day: dayAbbrevs[(today+2)%7], High: 71, Low: 59, Condition: "Cloudy", Icon: "cloudy"},
			{Day: dayAbbrevs[(today+3)%7], High: 68, Low: 56, Condition: "Rainy", Icon: "rainy"},
		},
		LastUpdated: now,
	}
}

// mustMarshal serializes payloads whose shape we fully control. The
// fallback and upstream payload types contain no values json.Marshal
// can reject.
func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
