package feeds

import "testing"

func TestWeatherIcon(t *testing.T) {
	tests := []struct {
		condition string
		want      string
	}{
		{"Sunny", "sunny"},
		{"Clear skies", "sunny"},
		{"Partly cloudy with a chance of rain", "partly-cloudy"},
		{"Partly Cloudy", "partly-cloudy"},
		{"Cloudy", "cloudy"},
		{"Overcast", "cloudy"},
		{"Light rain", "rainy"},
		{"Scattered showers", "rainy"},
		{"Snow flurries", "snowy"},
		{"Heavy thunderstorms", "stormy"},
		{"Storm warning", "stormy"},
		{"Dense fog", "foggy"},
		{"Morning mist", "foggy"},
		{"Windy", "windy"},
		{"", "sunny"},
		{"Volcanic ash", "sunny"},
	}

	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			if got := WeatherIcon(tt.condition); got != tt.want {
				t.Errorf("WeatherIcon(%q) = %q, want %q", tt.condition, got, tt.want)
			}
		})
	}
}
