package compass

import (
    "math"
    "strings"
)

// Unknown is returned for tokens that carry no usable direction.
const Unknown = "Unknown"

var labels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var exact = map[string]string{
    "north":     "N",
    "northeast": "NE",
    "east":      "E",
    "southeast": "SE",
    "south":     "S",
    "southwest": "SW",
    "west":      "W",
    "northwest": "NW",
}

// Normalize maps a free-text direction token onto the 8 compass labels.
// Empty input yields "" so callers can keep the field absent; anything
// unrecognizable yields Unknown.
func Normalize(token string) string {
    t := strings.ToLower(strings.TrimSpace(token))
    if t == "" {
        return ""
    }
    if v, ok := exact[t]; ok {
        return v
    }
    switch {
    case strings.HasPrefix(t, "north"):
        if strings.Contains(t, "east") {
            return "NE"
        }
        if strings.Contains(t, "west") {
            return "NW"
        }
        return "N"
    case strings.HasPrefix(t, "south"):
        if strings.Contains(t, "east") {
            return "SE"
        }
        if strings.Contains(t, "west") {
            return "SW"
        }
        return "S"
    case strings.HasPrefix(t, "east"):
        return "E"
    case strings.HasPrefix(t, "west"):
        return "W"
    }
    return Unknown
}

// FromBearing buckets a bearing in degrees into the 8 compass labels.
// 0 -> N, 45 -> NE, ... 315 -> NW, with wrap-around at 360.
func FromBearing(deg float64) string {
    idx := int(math.Round(deg/45)) % 8
    if idx < 0 {
        idx += 8
    }
    return labels[idx]
}
