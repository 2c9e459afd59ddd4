package graph_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gardspirito/greskell/graph"
	"github.com/gardspirito/greskell/graphson"
	"github.com/stretchr/testify/require"
)

const markoVertex = `{
	"@type": "g:Vertex",
	"@value": {
		"id": {"@type": "g:Int64", "@value": 1},
		"label": "person",
		"properties": {
			"name": [
				{
					"@type": "g:VertexProperty",
					"@value": {
						"id": {"@type": "g:Int64", "@value": 0},
						"value": "marko",
						"label": "name"
					}
				}
			]
		}
	}
}`

const knowsEdge = `{
	"@type": "g:Edge",
	"@value": {
		"id": {"@type": "g:Int32", "@value": 13},
		"label": "develops",
		"inVLabel": "software",
		"outVLabel": "person",
		"inV": {"@type": "g:Int32", "@value": 10},
		"outV": {"@type": "g:Int32", "@value": 1},
		"properties": {
			"since": {
				"@type": "g:Property",
				"@value": {
					"key": "since",
					"value": {"@type": "g:Int32", "@value": 2009}
				}
			}
		}
	}
}`

func mustParse(t *testing.T, data string) *graphson.GValue {
	t.Helper()

	v, err := graphson.Parse([]byte(data))
	require.NoError(t, err)
	return v
}

func TestVertexDecode(t *testing.T) {
	v, err := graphson.As[graph.Vertex](mustParse(t, markoVertex))
	require.NoError(t, err)

	require.Equal(t, "person", v.Label)

	id, err := graphson.Int64(v.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.Len(t, v.Properties["name"], 1)
	p := v.Properties["name"][0]
	require.Equal(t, "name", p.Label)

	name, err := graphson.Text(p.Value)
	require.NoError(t, err)
	require.Equal(t, "marko", name)
}

func TestVertexDecodeStrict(t *testing.T) {
	t.Run("untyped rejected", func(t *testing.T) {
		_, err := graphson.As[graph.Vertex](mustParse(t, `{"id": 1, "label": "person"}`))
		require.True(t, errors.Is(err, graphson.ErrNotTagged))
	})

	t.Run("edge rejected", func(t *testing.T) {
		_, err := graphson.As[graph.Vertex](mustParse(t, knowsEdge))
		var tagErr *graphson.TagMismatchError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, graph.TagVertex, tagErr.Expected)
		require.Equal(t, graph.TagEdge, tagErr.Actual)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := graphson.As[graph.Vertex](mustParse(t, `{"@type": "g:Vertex", "@value": {"id": 1}}`))
		require.True(t, graphson.IsFieldNotFound(err))
	})
}

func TestVertexRoundTrip(t *testing.T) {
	v, err := graphson.As[graph.Vertex](mustParse(t, markoVertex))
	require.NoError(t, err)

	gv, err := v.MarshalGraphSON()
	require.NoError(t, err)

	data, err := gv.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, markoVertex, string(data))
}

func TestEdgeDecode(t *testing.T) {
	e, err := graphson.As[graph.Edge](mustParse(t, knowsEdge))
	require.NoError(t, err)

	require.Equal(t, "develops", e.Label)
	require.Equal(t, "software", e.InVLabel)
	require.Equal(t, "person", e.OutVLabel)

	inV, err := graphson.Int32(e.InV)
	require.NoError(t, err)
	require.Equal(t, int32(10), inV)

	since, ok := e.Properties["since"]
	require.True(t, ok)
	require.Equal(t, "since", since.Key)

	year, err := graphson.Int32(since.Value)
	require.NoError(t, err)
	require.Equal(t, int32(2009), year)
}

func TestEdgeRoundTrip(t *testing.T) {
	e, err := graphson.As[graph.Edge](mustParse(t, knowsEdge))
	require.NoError(t, err)

	gv, err := e.MarshalGraphSON()
	require.NoError(t, err)

	data, err := gv.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, knowsEdge, string(data))
}

func TestVertexThroughEncoder(t *testing.T) {
	v, err := graphson.As[graph.Vertex](mustParse(t, markoVertex))
	require.NoError(t, err)

	t.Run("v3 keeps the tagged form", func(t *testing.T) {
		enc := graphson.Encoder{Version: graphson.Version3}
		data, err := enc.Marshal(v)
		require.NoError(t, err)
		require.JSONEq(t, markoVertex, string(data))
	})

	t.Run("v1 strips every tag", func(t *testing.T) {
		enc := graphson.Encoder{Version: graphson.Version1}
		data, err := enc.Marshal(v)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"id": 1,
			"label": "person",
			"properties": {"name": [{"id": 0, "value": "marko", "label": "name"}]}
		}`, string(data))
	})
}

func TestListOfVertices(t *testing.T) {
	data := `[` + markoVertex + `,` + markoVertex + `]`

	vs, err := graphson.List(graphson.DecoderOf[graph.Vertex]())(mustParse(t, data))
	require.NoError(t, err)
	require.Len(t, vs, 2)
	require.Equal(t, "person", vs[0].Label)
}

func TestElementInterface(t *testing.T) {
	v, err := graphson.As[graph.Vertex](mustParse(t, markoVertex))
	require.NoError(t, err)

	var el graph.Element = &v
	require.Equal(t, "person", el.ElementLabel())
	require.NotNil(t, el.ElementID())
}

func TestRegisteredTags(t *testing.T) {
	tag, ok := graphson.TagFor[graph.Vertex]()
	require.True(t, ok)
	require.Equal(t, graph.TagVertex, tag)

	tag, ok = graphson.TagFor[graph.Edge]()
	require.True(t, ok)
	require.Equal(t, graph.TagEdge, tag)
}
