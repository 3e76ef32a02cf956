package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceItemsWrappedObject(t *testing.T) {
	body := []byte(`{"items":[{"name":"a","hit_rate":92.5,"trade":100,"plan":"Big trend","score":1}]}`)
	items := CoerceItems(body)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Name)
	require.NotNil(t, items[0].HitRate)
	assert.InDelta(t, 92.5, *items[0].HitRate, 1e-9)
	require.NotNil(t, items[0].Trade)
	assert.InDelta(t, 100, *items[0].Trade, 1e-9)
	assert.Equal(t, "Big trend", items[0].Plan)
}

func TestCoerceItemsBareArray(t *testing.T) {
	items := CoerceItems([]byte(`[{"name":"x","plan":"small dip"}]`))
	require.Len(t, items, 1)
	assert.Nil(t, items[0].HitRate)
	assert.Nil(t, items[0].Trade)
}

func TestCoerceItemsTolerantFields(t *testing.T) {
	// 字符串数字、null、错误类型一律按宽松规则兜底。
	body := []byte(`[{"name":7,"hit_rate":"88","trade":null,"plan":["not","a","string"]}]`)
	items := CoerceItems(body)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].HitRate)
	assert.InDelta(t, 88, *items[0].HitRate, 1e-9)
	assert.Nil(t, items[0].Trade)
}

func TestCoerceItemsGarbage(t *testing.T) {
	assert.Empty(t, CoerceItems([]byte(`not json at all`)))
	assert.Empty(t, CoerceItems(nil))
	assert.Empty(t, CoerceItems([]byte(`{"items":"nope"}`)))
	assert.Empty(t, CoerceItems([]byte(`{}`)))
}

func TestCoerceThenDecide(t *testing.T) {
	items := CoerceItems([]byte(`garbage`))
	out := Decide(items)
	assert.Nil(t, out.Decision)
	assert.Zero(t, out.Confidence)
	assert.Empty(t, out.Reasons)
}
