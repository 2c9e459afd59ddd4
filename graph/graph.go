// Package graph defines the standard graph element types exchanged with a
// Gremlin server: vertices, edges and their properties. They convert to and
// from the generic value tree with strict type-tag checking.
package graph

import (
	"reflect"
	"sort"

	"github.com/gardspirito/greskell/graphson"
)

// Wire type tags of the graph element types.
const (
	TagVertex         = "g:Vertex"
	TagEdge           = "g:Edge"
	TagVertexProperty = "g:VertexProperty"
	TagProperty       = "g:Property"
)

func init() {
	graphson.RegisterType(reflect.TypeOf(Vertex{}), TagVertex)
	graphson.RegisterType(reflect.TypeOf(Edge{}), TagEdge)
	graphson.RegisterType(reflect.TypeOf(VertexProperty{}), TagVertexProperty)
	graphson.RegisterType(reflect.TypeOf(Property{}), TagProperty)
}

// An Element is a graph object identified by the server: a vertex, an edge
// or a vertex property.
type Element interface {
	// ElementID returns the server-assigned identifier of the element.
	// Servers are free to pick the identifier type, so it stays a
	// generic value.
	ElementID() *graphson.GValue
	// ElementLabel returns the label of the element.
	ElementLabel() string
}

var objectBody = graphson.Decoder[*graphson.Object]((*graphson.GValue).Object)

func typedBody(gv *graphson.GValue, tag string) (*graphson.Object, error) {
	return graphson.Typed(tag, objectBody)(gv)
}

// A Vertex is a graph vertex.
type Vertex struct {
	ID         *graphson.GValue
	Label      string
	Properties map[string][]VertexProperty
}

var _ Element = (*Vertex)(nil)
var _ graphson.Unmarshaler = (*Vertex)(nil)
var _ graphson.Marshaler = Vertex{}

func (v *Vertex) ElementID() *graphson.GValue {
	return v.ID
}

func (v *Vertex) ElementLabel() string {
	return v.Label
}

// UnmarshalGraphSON decodes a g:Vertex value.
func (v *Vertex) UnmarshalGraphSON(gv *graphson.GValue) error {
	body, err := typedBody(gv, TagVertex)
	if err != nil {
		return err
	}

	id, err := body.GetByField("id")
	if err != nil {
		return err
	}

	label, err := graphson.FieldOf(body, "label", graphson.Text)
	if err != nil {
		return err
	}

	props, err := graphson.OptionalFieldOf(body, "properties",
		graphson.MapOf(graphson.Text, graphson.List(graphson.DecoderOf[VertexProperty]())))
	if err != nil {
		return err
	}

	v.ID = id
	v.Label = label
	v.Properties = nil
	if props != nil {
		v.Properties = *props
	}

	return nil
}

// MarshalGraphSON encodes the vertex as a g:Vertex value.
func (v Vertex) MarshalGraphSON() (*graphson.GValue, error) {
	ob := graphson.NewObject().
		Add("id", idOrNull(v.ID)).
		Add("label", graphson.NewString(v.Label))

	if len(v.Properties) > 0 {
		po := graphson.NewObject()
		for _, label := range sortedKeys(v.Properties) {
			elems := make([]*graphson.GValue, 0, len(v.Properties[label]))
			for _, p := range v.Properties[label] {
				pv, err := p.MarshalGraphSON()
				if err != nil {
					return nil, err
				}
				elems = append(elems, pv)
			}
			po.Add(label, graphson.NewArray(elems...))
		}
		ob.Add("properties", graphson.NewObjectValue(po))
	}

	return graphson.NewObjectValue(ob).WithTag(TagVertex), nil
}

// An Edge is a graph edge between two vertices.
type Edge struct {
	ID         *graphson.GValue
	Label      string
	InVLabel   string
	OutVLabel  string
	InV        *graphson.GValue
	OutV       *graphson.GValue
	Properties map[string]Property
}

var _ Element = (*Edge)(nil)
var _ graphson.Unmarshaler = (*Edge)(nil)
var _ graphson.Marshaler = Edge{}

func (e *Edge) ElementID() *graphson.GValue {
	return e.ID
}

func (e *Edge) ElementLabel() string {
	return e.Label
}

// UnmarshalGraphSON decodes a g:Edge value.
func (e *Edge) UnmarshalGraphSON(gv *graphson.GValue) error {
	body, err := typedBody(gv, TagEdge)
	if err != nil {
		return err
	}

	id, err := body.GetByField("id")
	if err != nil {
		return err
	}

	label, err := graphson.FieldOf(body, "label", graphson.Text)
	if err != nil {
		return err
	}

	inVLabel, err := graphson.FieldOf(body, "inVLabel", graphson.Text)
	if err != nil {
		return err
	}

	outVLabel, err := graphson.FieldOf(body, "outVLabel", graphson.Text)
	if err != nil {
		return err
	}

	inV, err := body.GetByField("inV")
	if err != nil {
		return err
	}

	outV, err := body.GetByField("outV")
	if err != nil {
		return err
	}

	props, err := graphson.OptionalFieldOf(body, "properties",
		graphson.MapOf(graphson.Text, graphson.DecoderOf[Property]()))
	if err != nil {
		return err
	}

	e.ID = id
	e.Label = label
	e.InVLabel = inVLabel
	e.OutVLabel = outVLabel
	e.InV = inV
	e.OutV = outV
	e.Properties = nil
	if props != nil {
		e.Properties = *props
	}

	return nil
}

// MarshalGraphSON encodes the edge as a g:Edge value.
func (e Edge) MarshalGraphSON() (*graphson.GValue, error) {
	ob := graphson.NewObject().
		Add("id", idOrNull(e.ID)).
		Add("label", graphson.NewString(e.Label)).
		Add("inVLabel", graphson.NewString(e.InVLabel)).
		Add("outVLabel", graphson.NewString(e.OutVLabel)).
		Add("inV", idOrNull(e.InV)).
		Add("outV", idOrNull(e.OutV))

	if len(e.Properties) > 0 {
		po := graphson.NewObject()
		for _, key := range sortedKeys(e.Properties) {
			pv, err := e.Properties[key].MarshalGraphSON()
			if err != nil {
				return nil, err
			}
			po.Add(key, pv)
		}
		ob.Add("properties", graphson.NewObjectValue(po))
	}

	return graphson.NewObjectValue(ob).WithTag(TagEdge), nil
}

// A VertexProperty is a property of a vertex. Unlike a plain Property it is
// an element of the graph in its own right.
type VertexProperty struct {
	ID    *graphson.GValue
	Label string
	Value *graphson.GValue
}

var _ Element = (*VertexProperty)(nil)
var _ graphson.Unmarshaler = (*VertexProperty)(nil)
var _ graphson.Marshaler = VertexProperty{}

func (p *VertexProperty) ElementID() *graphson.GValue {
	return p.ID
}

func (p *VertexProperty) ElementLabel() string {
	return p.Label
}

// UnmarshalGraphSON decodes a g:VertexProperty value.
func (p *VertexProperty) UnmarshalGraphSON(gv *graphson.GValue) error {
	body, err := typedBody(gv, TagVertexProperty)
	if err != nil {
		return err
	}

	id, err := body.GetByField("id")
	if err != nil {
		return err
	}

	label, err := graphson.FieldOf(body, "label", graphson.Text)
	if err != nil {
		return err
	}

	value, err := body.GetByField("value")
	if err != nil {
		return err
	}

	p.ID = id
	p.Label = label
	p.Value = value
	return nil
}

// MarshalGraphSON encodes the property as a g:VertexProperty value.
func (p VertexProperty) MarshalGraphSON() (*graphson.GValue, error) {
	ob := graphson.NewObject().
		Add("id", idOrNull(p.ID)).
		Add("value", idOrNull(p.Value)).
		Add("label", graphson.NewString(p.Label))

	return graphson.NewObjectValue(ob).WithTag(TagVertexProperty), nil
}

// A Property is a key/value property of an edge.
type Property struct {
	Key   string
	Value *graphson.GValue
}

var _ graphson.Unmarshaler = (*Property)(nil)
var _ graphson.Marshaler = Property{}

// UnmarshalGraphSON decodes a g:Property value.
func (p *Property) UnmarshalGraphSON(gv *graphson.GValue) error {
	body, err := typedBody(gv, TagProperty)
	if err != nil {
		return err
	}

	key, err := graphson.FieldOf(body, "key", graphson.Text)
	if err != nil {
		return err
	}

	value, err := body.GetByField("value")
	if err != nil {
		return err
	}

	p.Key = key
	p.Value = value
	return nil
}

// MarshalGraphSON encodes the property as a g:Property value.
func (p Property) MarshalGraphSON() (*graphson.GValue, error) {
	ob := graphson.NewObject().
		Add("key", graphson.NewString(p.Key)).
		Add("value", idOrNull(p.Value))

	return graphson.NewObjectValue(ob).WithTag(TagProperty), nil
}

func idOrNull(v *graphson.GValue) *graphson.GValue {
	if v == nil {
		return graphson.NewNull()
	}

	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
