package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type pair struct {
	A string `json:"a"`
	B int    `json:"b"`
}

func TestSplit(t *testing.T) {
	var p pair
	extra, err := Split([]byte(`{"a":"x","b":2,"c":true,"d":{"e":[1, 2]}}`), &p, "a", "b")
	require.NoError(t, err)
	require.Equal(t, pair{A: "x", B: 2}, p)
	require.Len(t, extra, 2)
	require.JSONEq(t, `true`, string(extra["c"]))
	require.JSONEq(t, `{"e":[1,2]}`, string(extra["d"]))

	extra, err = Split([]byte(`{"a":"x"}`), &p, "a", "b")
	require.NoError(t, err)
	require.Nil(t, extra)

	_, err = Split([]byte(`[1]`), &p, "a")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	data, err := Merge(pair{A: "x", B: 2}, map[string]json.RawMessage{
		"z": json.RawMessage(`{ "k" : 1 }`),
		"c": json.RawMessage(`true`),
	})
	require.NoError(t, err)
	require.Equal(t, `{"a":"x","b":2,"c":true,"z":{"k":1}}`, string(data))

	data, err = Merge(pair{A: "x"}, nil)
	require.NoError(t, err)
	require.Equal(t, `{"a":"x","b":0}`, string(data))

	data, err = Merge(struct{}{}, map[string]json.RawMessage{"c": json.RawMessage(`1`)})
	require.NoError(t, err)
	require.Equal(t, `{"c":1}`, string(data))

	_, err = Merge([]int{1}, map[string]json.RawMessage{"c": json.RawMessage(`1`)})
	require.Error(t, err)
}
