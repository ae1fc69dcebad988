// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/accord/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux. When spec is
// non-nil, documented routes and group schemas are added to it.
func Register(mux *http.ServeMux, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, spec, "", group)
	}
}

func registerGroup(mux *http.ServeMux, spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	if spec != nil && group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)

		if spec != nil && route.OpenAPI != nil {
			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}
			spec.AddOperation(specPath(fullPrefix+route.Pattern), route.Method, &op)
		}
	}

	for _, child := range group.Children {
		registerGroup(mux, spec, fullPrefix, child)
	}
}

func specPath(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	return path
}
