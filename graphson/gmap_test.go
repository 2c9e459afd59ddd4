package graphson_test

import (
	"testing"

	"github.com/gardspirito/greskell/graphson"
	"github.com/stretchr/testify/require"
)

func TestEntriesFlattened(t *testing.T) {
	v, err := graphson.Parse([]byte(`["a", 1, "b", 2]`))
	require.NoError(t, err)

	entries, err := graphson.Entries(v)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	k, err := entries[0].Key.Text()
	require.NoError(t, err)
	require.Equal(t, "a", k)
	require.Equal(t, graphson.Number("1"), entries[0].Value.Unwrap())

	k, err = entries[1].Key.Text()
	require.NoError(t, err)
	require.Equal(t, "b", k)
	require.Equal(t, graphson.Number("2"), entries[1].Value.Unwrap())
}

func TestEntriesOddLength(t *testing.T) {
	v, err := graphson.Parse([]byte(`[1, 2, 3]`))
	require.NoError(t, err)

	_, err = graphson.Entries(v)
	var oddErr *graphson.OddLengthError
	require.ErrorAs(t, err, &oddErr)
	require.Equal(t, 3, oddErr.Length)
}

func TestEntriesObject(t *testing.T) {
	v, err := graphson.Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)

	entries, err := graphson.Entries(v)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	k, err := entries[0].Key.Text()
	require.NoError(t, err)
	require.Equal(t, "a", k)
}

func TestEntriesShapeEquivalence(t *testing.T) {
	// The same logical sequence through both physical encodings.
	asObject, err := graphson.Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)
	asArray, err := graphson.Parse([]byte(`["a", 1, "b", 2]`))
	require.NoError(t, err)

	decode := graphson.EntriesOf(graphson.Text, graphson.Int64)

	fromObject, err := decode(asObject)
	require.NoError(t, err)
	fromArray, err := decode(asArray)
	require.NoError(t, err)
	require.Equal(t, fromObject, fromArray)
	require.Equal(t, []graphson.MapEntry[string, int64]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}, fromObject)
}

func TestEntriesWrongShape(t *testing.T) {
	v, err := graphson.Parse([]byte(`"nope"`))
	require.NoError(t, err)

	_, err = graphson.Entries(v)
	require.True(t, graphson.IsShapeMismatch(err))
}

func TestEntriesDuplicateKeys(t *testing.T) {
	v, err := graphson.Parse([]byte(`["a", 1, "a", 2]`))
	require.NoError(t, err)

	// The logical sequence preserves duplicates in order.
	entries, err := graphson.EntriesOf(graphson.Text, graphson.Int64)(v)
	require.NoError(t, err)
	require.Equal(t, []graphson.MapEntry[string, int64]{
		{Key: "a", Value: 1},
		{Key: "a", Value: 2},
	}, entries)

	// Materializing into a map keeps the last entry.
	m, err := graphson.MapOf(graphson.Text, graphson.Int64)(v)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"a": 2}, m)
}
