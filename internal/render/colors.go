package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const darkenFactor = 0.8

// Darken scales every channel of a #rgb or #rrggbb colour by factor.
// Values that do not parse are returned unchanged.
func Darken(hex string, factor float64) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}
	scale := func(channel uint8) uint8 {
		return uint8(math.Round(math.Min(255, math.Max(0, float64(channel)*factor))))
	}
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}

func parseHex(value string) (uint8, uint8, uint8, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) != 6 {
		return 0, 0, 0, false
	}
	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(parsed >> 16), uint8(parsed >> 8), uint8(parsed), true
}
