package types

import (
	"slices"
	"strings"
)

// propertyOrder is the display order of property symbols. Symbols not listed
// sort after these, alphabetically.
var propertyOrder = []string{
	"P", "T",
	"vf", "vfg", "vg",
	"uf", "ufg", "ug",
	"hf", "hfg", "hg",
	"sf", "sfg", "sg",
	"v", "u", "h", "s",
}

// propertyNames maps property symbols to descriptive names.
var propertyNames = map[string]string{
	"vf":  "Sat. liquid specific volume",
	"vfg": "Evaporation specific volume",
	"vg":  "Sat. vapor specific volume",
	"uf":  "Sat. liquid internal energy",
	"ufg": "Evaporation internal energy",
	"ug":  "Sat. vapor internal energy",
	"hf":  "Sat. liquid enthalpy",
	"hfg": "Evaporation enthalpy",
	"hg":  "Sat. vapor enthalpy",
	"sf":  "Sat. liquid entropy",
	"sfg": "Evaporation entropy",
	"sg":  "Sat. vapor entropy",
	"v":   "Specific volume",
	"u":   "Internal energy",
	"h":   "Enthalpy",
	"s":   "Entropy",
	"P":   "Pressure",
	"T":   "Temperature",
}

// PropertyName returns the descriptive name of a property symbol, or the
// symbol itself when it is not a known property.
func PropertyName(symbol string) string {
	if name, ok := propertyNames[symbol]; ok {
		return name
	}
	return symbol
}

// propertyRank returns the position of a symbol in propertyOrder, or
// len(propertyOrder) when it is not listed.
func propertyRank(symbol string) int {
	if i := slices.Index(propertyOrder, symbol); i >= 0 {
		return i
	}
	return len(propertyOrder)
}

// SortProperties returns a sorted copy of properties in display order.
func SortProperties(properties []string) []string {
	out := slices.Clone(properties)
	slices.SortStableFunc(out, func(a, b string) int {
		if ra, rb := propertyRank(a), propertyRank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return out
}
