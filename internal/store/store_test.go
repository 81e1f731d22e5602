package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore_RoundTrip(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	type record struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Count int      `json:"count"`
	}

	found, err := st.Get(ctx, "missing", &record{})
	require.NoError(t, err) // a missing key is not an error
	require.False(t, found)

	in := record{Name: "demo", Tags: []string{"b", "a"}, Count: 3}
	require.NoError(t, st.Set(ctx, "rec", in))

	var out record
	found, err = st.Get(ctx, "rec", &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, in, out) // field and slice order preserved

	require.NoError(t, st.Delete(ctx, "rec"))
	found, err = st.Get(ctx, "rec", &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemStore_CorruptPayloadIsAnError(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "rec", map[string]int{"a": 1}))
	st.Corrupt("rec")

	var out map[string]int
	_, err := st.Get(ctx, "rec", &out)
	require.Error(t, err) // callers substitute their default on this

	// overwriting repairs the key
	require.NoError(t, st.Set(ctx, "rec", map[string]int{"a": 2}))
	found, err := st.Get(ctx, "rec", &out)
	require.NoError(t, err)
	require.True(t, found)
}

func TestMemStore_ClearAll(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "a", 1))
	require.NoError(t, st.Set(ctx, "b", 2))
	require.NoError(t, st.ClearAll(ctx))

	var n int
	for _, key := range []string{"a", "b"} {
		found, err := st.Get(ctx, key, &n)
		require.NoError(t, err)
		require.False(t, found)
	}
}
