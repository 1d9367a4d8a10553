package mimic

import (
	"github.com/nieomylnieja/mimic/internal/pathutils"
)

// Document is a generated document. Dotted schema paths are nested, so a
// "detail.main_info" path is stored under the "detail" object.
// Nested objects are plain map[string]any values.
type Document map[string]any

// Get returns the value stored under the dotted path.
func (d Document) Get(path string) (any, bool) {
	segments := pathutils.Split(path)
	if len(segments) == 0 {
		return nil, false
	}
	current := map[string]any(d)
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		if current, ok = asObject(value); !ok {
			return nil, false
		}
	}
	return nil, false
}

// set stores value under the dotted path, creating intermediate objects.
// A non-object value found on the way is replaced by an object.
func (d Document) set(path string, value any) {
	segments := pathutils.Split(path)
	if len(segments) == 0 {
		return
	}
	current := map[string]any(d)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := asObject(current[segment])
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Document:
		return v, true
	default:
		return nil, false
	}
}
