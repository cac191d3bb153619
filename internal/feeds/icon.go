package feeds

import "strings"

// iconRule maps condition keywords to an icon. Rules are evaluated in
// order; the first match wins.
type iconRule struct {
	keywords []string
	allOf    bool // every keyword must match instead of any
	icon     string
}

// iconRules is the ordered keyword table behind WeatherIcon. The
// partly-cloudy rule precedes the plain cloudy rule so "Partly cloudy"
// strings classify to the more specific icon.
var iconRules = []iconRule{
	{keywords: []string{"sun", "clear"}, icon: "sunny"},
	{keywords: []string{"cloud", "part"}, allOf: true, icon: "partly-cloudy"},
	{keywords: []string{"cloud", "overcast"}, icon: "cloudy"},
	{keywords: []string{"rain", "shower"}, icon: "rainy"},
	{keywords: []string{"snow"}, icon: "snowy"},
	{keywords: []string{"thunder", "storm"}, icon: "stormy"},
	{keywords: []string{"fog", "mist"}, icon: "foggy"},
	{keywords: []string{"wind"}, icon: "windy"},
}

// WeatherIcon classifies a free-text condition string into the closed
// icon vocabulary. The classification is deterministic and total: an
// unmatched condition yields "sunny".
func WeatherIcon(condition string) string {
	lower := strings.ToLower(condition)
	for _, rule := range iconRules {
		if rule.matches(lower) {
			return rule.icon
		}
	}
	return "sunny"
}

func (r iconRule) matches(lower string) bool {
	if r.allOf {
		for _, kw := range r.keywords {
			if !strings.Contains(lower, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
