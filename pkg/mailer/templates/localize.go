package templates

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const humanTimeLayout = "02 January 2006, 15:04 MST"

// Localize fills Location from the requester IP and rewrites ExpiresAtText and Time in
// the requester's timezone. Data is left untouched when the IP cannot be resolved.
func Localize(ctx context.Context, resolver GeoResolver, data map[string]any) {
	ip := strings.TrimSpace(stringValue(data["IP"]))
	if resolver == nil || ip == "" {
		return
	}
	g, err := resolver.Lookup(ctx, ip)
	if err != nil {
		return
	}
	if stringValue(data["Location"]) == "" {
		data["Location"] = FormatGeo(g)
	}
	if strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if t, ok := parseTime(data["ExpiresAt"]); ok {
		data["ExpiresAtText"] = t.In(loc).Format(humanTimeLayout)
	}
	if t, ok := parseTime(data["TimeAt"]); ok {
		data["Time"] = t.In(loc).Format(humanTimeLayout)
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// parseTime accepts time values and the string forms produced by a JSON round trip.
func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05 -0700 MST", "2006-01-02 15:04:05 -0700"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, !t.IsZero()
			}
		}
	}
	return time.Time{}, false
}
