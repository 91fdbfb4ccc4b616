// Package identity extracts canonical identifiers from the heterogeneous
// user/entity references the upstream API returns. A reference may be a bare
// string or number, or an object carrying any subset of _id/id/userId/username.
package identity

import (
	"strconv"
	"strings"
)

// Identity is an opaque stable key for a user or entity. Two identities are
// equal under case-insensitive comparison; use Same, not ==.
type Identity string

// None is the zero Identity, returned when no identifier could be resolved.
const None Identity = ""

// fieldPriority is the order in which object fields are consulted.
var fieldPriority = []string{"_id", "id", "userId", "username"}

// Resolve extracts an Identity from a raw entity reference.
// Returns None when the entity is nil or carries no identifying field.
func Resolve(entity interface{}) Identity {
	if entity == nil {
		return None
	}

	switch v := entity.(type) {
	case string:
		return Identity(v)
	case float64:
		// JSON numbers decode to float64; keep integral ids readable.
		return Identity(formatNumber(v))
	case int:
		return Identity(strconv.Itoa(v))
	case int64:
		return Identity(strconv.FormatInt(v, 10))
	case map[string]interface{}:
		for _, field := range fieldPriority {
			if raw, ok := v[field]; ok {
				if id := fromField(raw); id != None {
					return id
				}
			}
		}
		return None
	}

	return None
}

// fromField coerces a single field value into an Identity.
// Nested objects inside an id field are not followed.
func fromField(raw interface{}) Identity {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return None
		}
		return Identity(v)
	case float64:
		return Identity(formatNumber(v))
	case int:
		return Identity(strconv.Itoa(v))
	case int64:
		return Identity(strconv.FormatInt(v, 10))
	}
	return None
}

// Same reports whether two identities refer to the same entity.
// Both must be non-empty; comparison is case-insensitive.
func Same(a, b Identity) bool {
	if a == None || b == None {
		return false
	}
	return strings.EqualFold(string(a), string(b))
}

// formatNumber renders a JSON number without a trailing ".0" for integral
// values, so numeric ids round-trip the way the upstream sends them.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
