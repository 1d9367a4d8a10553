package mimic

import "strings"

// stringFilter post-processes a generated string value.
type stringFilter func(value string) string

// definitionFilters returns the filters declared on def in their fixed
// order: lowercase, uppercase, trim.
func definitionFilters(def *PathDefinition) []stringFilter {
	var filters []stringFilter
	if def.Lowercase {
		filters = append(filters, strings.ToLower)
	}
	if def.Uppercase {
		filters = append(filters, strings.ToUpper)
	}
	if def.Trim {
		filters = append(filters, strings.TrimSpace)
	}
	return filters
}

// applyFilters runs the filters of def over value. Non-string values are returned unchanged.
func applyFilters(value any, def *PathDefinition) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	for _, filter := range definitionFilters(def) {
		str = filter(str)
	}
	return str
}
