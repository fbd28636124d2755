// Package resource provides API response transformers.
//
// A Resource controls exactly what JSON shape an endpoint returns, keeping
// stored fields (password hashes, internal flags) out of responses and
// attaching derived fields (booking cost, end time):
//
//	type UserResource struct{ resource.Base }
//	func (r *UserResource) ToArray(v interface{}) resource.Map {
//	    u := v.(models.User)
//	    return resource.Map{"id": u.ID.Hex(), "name": u.Name, "email": u.Email}
//	}
//
//	c.Success(resource.New(&UserResource{}, user))
package resource

import (
	"encoding/json"
	"reflect"
)

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer converts one model instance into a Map.
type Transformer interface {
	ToArray(v interface{}) Map
}

// Base can be embedded in any Resource to satisfy future extension points.
type Base struct{}

// Resource wraps a single model with its transformer. It marshals to the
// transformed map, so it nests anywhere inside the response envelope.
type Resource struct {
	transformer Transformer
	data        interface{}
}

// New creates a Resource for a single model instance.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// MarshalJSON implements json.Marshaler.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Collection wraps a slice of models with a transformer.
type Collection struct {
	transformer Transformer
	items       interface{}
}

// CollectionOf creates a Collection from a slice (passed as interface{}).
// items should be a []SomeModel.
func CollectionOf(t Transformer, items interface{}) *Collection {
	return &Collection{transformer: t, items: items}
}

// MarshalJSON transforms every element and marshals the resulting array.
// A nil or empty slice marshals as [] rather than null.
func (c *Collection) MarshalJSON() ([]byte, error) {
	rv := reflect.ValueOf(c.items)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return json.Marshal([]Map{})
	}

	result := make([]Map, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		result = append(result, c.transformer.ToArray(rv.Index(i).Interface()))
	}
	return json.Marshal(result)
}
