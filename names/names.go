// Package names resolves display names for materials. Lookup is a pure
// function over built-in per-language dictionaries; it is never called
// during parsing but applied as a separate pass over the finished catalog.
package names

import (
	"github.com/cfdkit/matdb"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'matdb.names'.
func tracer() tracing.Trace {
	return tracing.Select("matdb.names")
}

// Lookup maps an English material name to a display name. The boolean is
// false when no display name is known; failures are non-fatal.
type Lookup func(name string) (string, bool)

// The dictionary languages, parallel to dictionaries below. The first tag
// doubles as the matcher default.
var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var dictionaries = []map[string]string{englishNames, chineseNames}

var matcher = language.NewMatcher(supported)

// For selects the lookup for the best-matching requested language, e.g.
// For("zh-CN") or For("en-US").
func For(requested ...string) Lookup {
	_, index := language.MatchStrings(matcher, requested...)
	dict := dictionaries[index]
	tracer().Debugf("display names resolve to %s", supported[index])
	return func(name string) (string, bool) {
		display, ok := dict[name]
		return display, ok
	}
}

// None is a lookup that knows no display names.
func None(name string) (string, bool) {
	return "", false
}

// Apply fills in display names on a finished catalog. Materials without a
// known display name are left untouched.
func Apply(materials []*matdb.Material, lookup Lookup) {
	for _, m := range materials {
		if display, ok := lookup(m.Name); ok {
			m.DisplayName = display
		}
	}
}

var englishNames = map[string]string{
	"air":             "Air",
	"water-liquid":    "Water (Liquid)",
	"water-vapor":     "Water (Vapor)",
	"ch4":             "Methane",
	"o2":              "Oxygen",
	"n2":              "Nitrogen",
	"h2":              "Hydrogen",
	"co2":             "Carbon Dioxide",
	"co":              "Carbon Monoxide",
	"coal-hv":         "Coal (High Volatile)",
	"wood-volatiles":  "Wood Volatiles",
	"aluminum":        "Aluminum",
	"steel":           "Steel",
	"glass":           "Glass",
	"gypsum":          "Gypsum",
	"kerosene-liquid": "Kerosene (Liquid)",
}

var chineseNames = map[string]string{
	"air":             "空气",
	"water-liquid":    "水（液态）",
	"water-vapor":     "水蒸气",
	"ch4":             "甲烷",
	"o2":              "氧气",
	"n2":              "氮气",
	"h2":              "氢气",
	"co2":             "二氧化碳",
	"co":              "一氧化碳",
	"coal-hv":         "高挥发分煤",
	"wood-volatiles":  "木材挥发分",
	"aluminum":        "铝",
	"steel":           "钢",
	"glass":           "玻璃",
	"gypsum":          "石膏",
	"kerosene-liquid": "煤油（液态）",
}
