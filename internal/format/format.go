// Package format renders engine values for display.
package format

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Decimal formats x with the given number of decimal places, or none when x is whole
func Decimal(x float64, places int) string {
	if x == math.Trunc(x) && !math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 0, 64)
	}
	return strconv.FormatFloat(x, 'f', places, 64)
}

// Production formats a per-second rate as "+0.13/s" or "-2/s". Zero renders empty.
func Production(perSecond float64) string {
	switch {
	case perSecond > 0:
		return "+" + Decimal(perSecond, 2) + "/s"
	case perSecond < 0:
		return "-" + Decimal(-perSecond, 2) + "/s"
	}
	return ""
}

// RatioAsPercentage formats a multiplier as a change: 1.2 is "+20%", 0.5 is "-50%", 1 is empty
func RatioAsPercentage(ratio float64) string {
	change := math.Round(ratio*100 - 100)
	switch {
	case change > 0:
		return "+" + strconv.FormatFloat(change, 'f', 0, 64) + "%"
	case change < 0:
		return "-" + strconv.FormatFloat(-change, 'f', 0, 64) + "%"
	}
	return ""
}

// TimeLeft formats seconds as "1d 2h 3m 4s". Zero d/h/m units are left out; seconds always show.
// Under ten seconds the seconds keep one decimal. Infinite or NaN input renders empty.
func TimeLeft(seconds float64) string {
	if math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return ""
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 10 {
		return Decimal(math.Floor(seconds*10)/10, 1) + "s"
	}

	total := int64(seconds)
	d := total / 86400
	h := total % 86400 / 3600
	m := total % 3600 / 60
	s := total % 60

	var parts []string
	if d != 0 {
		parts = append(parts, strconv.FormatInt(d, 10)+"d")
	}
	if h != 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
	}
	if m != 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
	}
	parts = append(parts, strconv.FormatInt(s, 10)+"s")
	return strings.Join(parts, " ")
}

// Price formats a cost as "11.50 Grain, 2 Wood", sorted by resource name
func Price(price map[string]float64) string {
	if len(price) == 0 {
		return "free"
	}
	names := make([]string, 0, len(price))
	for name := range price {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, Decimal(price[name], 2)+" "+name)
	}
	return strings.Join(parts, ", ")
}
