package graphson_test

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gardspirito/greskell/graphson"
	"github.com/stretchr/testify/require"
)

func TestGraphSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		g    graphson.GraphSON[int]
		want string
	}{
		{"untyped", graphson.Bare(1000), `1000`},
		{"typed", graphson.Wrap("g:Int32", 1000), `{"@type":"g:Int32","@value":1000}`},
		{"typed negative", graphson.Wrap("g:Int64", -42), `{"@type":"g:Int64","@value":-42}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := json.Marshal(test.g)
			require.NoError(t, err)
			require.JSONEq(t, test.want, string(data))

			var got graphson.GraphSON[int]
			err = json.Unmarshal(data, &got)
			require.NoError(t, err)
			require.Equal(t, test.g, got)
		})
	}
}

func TestGraphSONStringPayload(t *testing.T) {
	g := graphson.Wrap("g:T", `quo"ted`)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var got graphson.GraphSON[string]
	err = json.Unmarshal(data, &got)
	require.NoError(t, err)
	require.Equal(t, g, got)
}

func TestGraphSONNullPayload(t *testing.T) {
	var got graphson.GraphSON[*int]
	err := json.Unmarshal([]byte(`{"@type":"g:T","@value":null}`), &got)
	require.NoError(t, err)
	require.Equal(t, "g:T", got.TypeTag)
	require.Nil(t, got.Value)
}

func TestGraphSONAmbiguity(t *testing.T) {
	t.Run("extra key reads as plain object", func(t *testing.T) {
		var got graphson.GraphSON[map[string]int]
		err := json.Unmarshal([]byte(`{"@type": "x", "@value": 1, "extra": 2}`), &got)
		require.NoError(t, err)
		require.Equal(t, "", got.TypeTag)
		require.Equal(t, map[string]int{"@value": 1, "extra": 2}, got.Value)
	})

	t.Run("non-string type key reads as plain object", func(t *testing.T) {
		var got graphson.GraphSON[map[string]int]
		err := json.Unmarshal([]byte(`{"@type": 1, "@value": 2}`), &got)
		require.NoError(t, err)
		require.Equal(t, "", got.TypeTag)
		require.Equal(t, map[string]int{"@type": 1, "@value": 2}, got.Value)
	})

	t.Run("exact two keys always read as typed", func(t *testing.T) {
		var got graphson.GraphSON[int]
		err := json.Unmarshal([]byte(`{"@type": "x", "@value": 1}`), &got)
		require.NoError(t, err)
		require.Equal(t, "x", got.TypeTag)
		require.Equal(t, 1, got.Value)
	})
}

func TestUnmarshalTyped(t *testing.T) {
	t.Run("matching tag", func(t *testing.T) {
		g, err := graphson.UnmarshalTyped[int32]([]byte(`{"@type": "g:Int32", "@value": 1000}`), "g:Int32")
		require.NoError(t, err)
		require.Equal(t, int32(1000), g.Value)
	})

	t.Run("wrong tag", func(t *testing.T) {
		_, err := graphson.UnmarshalTyped[int32]([]byte(`{"@type": "g:Int32", "@value": 1000}`), "g:Int64")
		var tagErr *graphson.TagMismatchError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "g:Int64", tagErr.Expected)
		require.Equal(t, "g:Int32", tagErr.Actual)
	})

	t.Run("untyped", func(t *testing.T) {
		_, err := graphson.UnmarshalTyped[int32]([]byte(`1000`), "g:Int32")
		require.True(t, errors.Is(err, graphson.ErrNotTagged))
	})
}
