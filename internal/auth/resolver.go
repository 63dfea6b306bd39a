package auth

import (
	"fmt"
	"strings"
)

// Overrides lets a route replace the default method-based derivation.
// Keys are either a named custom action (e.g. "me") or a lower-cased HTTP
// method; values are full permission strings. An empty value means "derive
// nothing": authorization falls through to whatever static check the route
// configured (default deny when there is none).
type Overrides map[string]string

// methodPrefixes maps HTTP methods to permission action prefixes.
var methodPrefixes = map[string]string{
	"GET":    "view",
	"POST":   "add",
	"PUT":    "change",
	"PATCH":  "change",
	"DELETE": "delete",
}

// ResolveRequiredPermission derives the permission a request must hold.
//
// Resolution order: an override for the named action wins, then an override
// for the lower-cased method, then the default derivation
// "<app>.<prefix>_<resource>" from the method prefix and the resource
// registry. The second return value is false when nothing could be derived
// (unknown method or resource, or an explicit empty override); the caller
// must then fall back to its statically configured checks.
//
// Pure function of its inputs; no side effects.
func ResolveRequiredPermission(method string, resource Resource, action string, overrides Overrides) (string, bool) {
	if overrides != nil {
		if action != "" {
			if perm, ok := overrides[action]; ok {
				return perm, perm != ""
			}
		}

		if perm, ok := overrides[strings.ToLower(method)]; ok {
			return perm, perm != ""
		}
	}

	prefix, ok := methodPrefixes[strings.ToUpper(method)]
	if !ok {
		return "", false
	}

	appLabel, ok := AppLabel(resource)
	if !ok {
		return "", false
	}

	return fmt.Sprintf("%s.%s_%s", appLabel, prefix, resource), true
}
