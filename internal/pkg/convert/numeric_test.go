package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	assert.Equal(t, 3.5, ToFloat64(3.5))
	assert.Equal(t, 7.0, ToFloat64(7))
	assert.Equal(t, 7.0, ToFloat64(int64(7)))
	assert.Equal(t, 88.0, ToFloat64(" 88 "))
	assert.Zero(t, ToFloat64(nil))
	assert.Zero(t, ToFloat64("abc"))
	assert.Zero(t, ToFloat64(true))
}

func TestParseToken(t *testing.T) {
	v, ok := ParseToken("1,204")
	assert.True(t, ok)
	assert.Equal(t, 1204.0, v)

	v, ok = ParseToken(" 92.5 ")
	assert.True(t, ok)
	assert.Equal(t, 92.5, v)

	_, ok = ParseToken("")
	assert.False(t, ok)
	_, ok = ParseToken("??")
	assert.False(t, ok)
}
