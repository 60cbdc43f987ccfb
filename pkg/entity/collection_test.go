package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

func thingID(t *thing) ID { return t.ID }

func TestCollectionStructuralSharing(t *testing.T) {
	a := &thing{ID: "a", Name: "A"}
	b := &thing{ID: "b", Name: "B"}
	c := NewCollection(thingID, a, b)

	t.Run("set with same pointer returns receiver", func(t *testing.T) {
		assert.Same(t, c, c.Set("a", a))
	})

	t.Run("set with new pointer copies and shares untouched values", func(t *testing.T) {
		a2 := &thing{ID: "a", Name: "A2"}
		next := c.Set("a", a2)
		require.NotSame(t, c, next)

		got, _ := next.Get("a")
		assert.Same(t, a2, got)
		gotB, _ := next.Get("b")
		assert.Same(t, b, gotB)

		orig, _ := c.Get("a")
		assert.Same(t, a, orig, "receiver must not change")
	})

	t.Run("update absent id returns receiver", func(t *testing.T) {
		assert.Same(t, c, c.Update("zzz", func(t *thing) *thing { return t }))
	})

	t.Run("delete", func(t *testing.T) {
		next := c.Delete("a", "zzz")
		assert.Equal(t, 1, next.Len())
		assert.False(t, next.Has("a"))
		assert.True(t, c.Has("a"))
		assert.Same(t, c, c.Delete("zzz"))
	})
}

func TestNilCollection(t *testing.T) {
	var c *Collection[thing]

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("a"))
	assert.Nil(t, c.IDs())
	assert.Nil(t, c.Delete("a"))

	next := c.Set("a", &thing{ID: "a"})
	assert.Equal(t, 1, next.Len())
}

func TestCollectionJSON(t *testing.T) {
	c := NewCollection(thingID, &thing{ID: "b", Name: "B"}, &thing{ID: "a", Name: "A"})

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"id":"a","name":"A"},"b":{"id":"b","name":"B"}}`, string(data))

	var decoded Collection[thing]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []ID{"a", "b"}, decoded.IDs())

	got := decoded.Select([]ID{"b", "missing", "a"})
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, string(a), 36)
}
