package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidGrade(t *testing.T) {
	for _, g := range []int{-1, 0, 6, 42} {
		assert.False(t, ValidGrade(g), "grade %d", g)
	}
	for g := MinGrade; g <= MaxGrade; g++ {
		assert.True(t, ValidGrade(g), "grade %d", g)
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.Grades())
	require.Len(t, c.Classes(2), 11)
	assert.Equal(t, "2a LO-p", c.Classes(2)[0])
	assert.Equal(t, "5LA Tech-p", c.Classes(5)[4])
	assert.True(t, c.Contains("3TI Tech-p"))
	assert.False(t, c.Contains("3TI"))
	assert.Nil(t, c.Classes(6))
}

func TestClasses_ReturnsCopy(t *testing.T) {
	c := New(map[int][]string{1: {"1a", "1b"}})

	labels := c.Classes(1)
	labels[0] = "changed"

	assert.Equal(t, []string{"1a", "1b"}, c.Classes(1))
}
