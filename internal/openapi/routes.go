package openapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/conduit-lang/aepdoc/internal/aep"
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// Route is the HTTP binding of a classified operation
type Route struct {
	Method string
	Path   string
	// Params are the path parameter names in order of appearance
	Params []string
}

// Key identifies a route by method and path
func (r Route) Key() string {
	return r.Method + " " + r.Path
}

// RouteFor maps a classified operation onto the AEP HTTP conventions.
// pattern is the full resource pattern and singular its last placeholder.
func RouteFor(kind aep.Kind, action, pattern, singular string) (Route, error) {
	if pattern == "" {
		return Route{}, fmt.Errorf("no resource pattern for %s operation", kind)
	}
	resource := "/" + pattern
	collection := "/" + strings.TrimSuffix(pattern, "/{"+singular+"}")

	var r Route
	switch kind {
	case aep.KindRead:
		r = Route{Method: http.MethodGet, Path: resource}
	case aep.KindList:
		r = Route{Method: http.MethodGet, Path: collection}
	case aep.KindCreate:
		r = Route{Method: http.MethodPost, Path: collection}
	case aep.KindUpdate:
		r = Route{Method: http.MethodPatch, Path: resource}
	case aep.KindDelete:
		r = Route{Method: http.MethodDelete, Path: resource}
	case aep.KindCreateOrReplace:
		r = Route{Method: http.MethodPut, Path: resource}
	case aep.KindCustomAction:
		r = Route{Method: http.MethodPost, Path: resource + ":" + action}
	case aep.KindCollectionAction:
		r = Route{Method: http.MethodPost, Path: collection + ":" + action}
	default:
		return Route{}, fmt.Errorf("no route for operation kind %q", kind)
	}

	r.Params = ustrings.Placeholders(r.Path)
	return r, nil
}
