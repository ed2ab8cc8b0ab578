// Package render shapes every response into the normalized envelope:
// {"data": {...}} for single objects, {"data": [...]} for collections and
// {"data": {"errorName": ..., "errorMessage": ...}} for failures. Attribute
// keys are lowerCamelCase regardless of storage casing. Serializers are
// looked up in an explicit registry populated at process start; there is no
// reflection-based discovery.
package render

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"leagueapi/internal/validate"
)

// SerializeFunc maps a domain object to its resource id and attribute map.
type SerializeFunc func(v any) (id string, attrs map[string]any)

var registry = map[string]SerializeFunc{}

// Register binds an entity kind (the plural resource type, e.g. "users") to
// its serializer. Call during process start, before serving requests.
func Register(kind string, fn SerializeFunc) {
	registry[kind] = fn
}

// Resource is the per-object shape inside the data envelope.
type Resource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

// Envelope is the top-level response wrapper.
type Envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	ErrorName    string `json:"errorName"`
	ErrorMessage any    `json:"errorMessage"`
}

func serialize(kind string, v any) Resource {
	if isNil(v) {
		panic(fmt.Sprintf("render: nil %s given to renderer", kind))
	}
	fn, ok := registry[kind]
	if !ok {
		panic(fmt.Sprintf("render: no serializer registered for %q", kind))
	}
	id, attrs := fn(v)
	return Resource{ID: id, Type: kind, Attributes: attrs}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Object renders a single domain object. Rendering nil is a programmer
// error and panics rather than emitting {"data": null}.
func Object(c echo.Context, status int, kind string, v any) error {
	return c.JSON(status, Envelope{Data: serialize(kind, v)})
}

// Collection renders a homogeneous slice, one Resource per element.
func Collection[T any](c echo.Context, status int, kind string, items []T) error {
	resources := make([]Resource, 0, len(items))
	for _, item := range items {
		resources = append(resources, serialize(kind, item))
	}
	return c.JSON(status, Envelope{Data: resources})
}

// Created renders a freshly persisted object with 201.
func Created(c echo.Context, kind string, v any) error {
	return Object(c, http.StatusCreated, kind, v)
}

// NoContent renders a successful delete: 204, empty body.
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// InvalidRecord renders a 422 with the field -> violations map.
func InvalidRecord(c echo.Context, errs validate.Errors) error {
	return c.JSON(http.StatusUnprocessableEntity, Envelope{Data: errorBody{
		ErrorName:    "invalid_record",
		ErrorMessage: errs,
	}})
}

// NotFound renders a 404 naming the missing resource type.
func NotFound(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, Envelope{Data: errorBody{
		ErrorName:    "record_not_found",
		ErrorMessage: fmt.Sprintf("%s not found", resource),
	}})
}
