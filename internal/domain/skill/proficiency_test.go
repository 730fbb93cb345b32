package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		label Label
		want  int
	}{
		{Beginner, 3},
		{Intermediate, 5},
		{Advanced, 7},
		{Expert, 9},
		{"ADVANCED ", 7},
		{"", 5},
		{"guru", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.label), "label %q", tt.label)
	}
}

func TestLabelOf(t *testing.T) {
	assert.Equal(t, Beginner, LabelOf(0))
	assert.Equal(t, Beginner, LabelOf(4))
	assert.Equal(t, Intermediate, LabelOf(5))
	assert.Equal(t, Advanced, LabelOf(8))
	assert.Equal(t, Expert, LabelOf(9))
	assert.Equal(t, Expert, LabelOf(42))

	for _, l := range []Label{Beginner, Intermediate, Advanced, Expert} {
		assert.Equal(t, l, LabelOf(LevelOf(l)))
	}
}

func TestPossessionNumericLevel(t *testing.T) {
	over := 12
	under := -3
	exact := 6

	assert.Equal(t, 7, Possession{Proficiency: Advanced}.NumericLevel())
	assert.Equal(t, 10, Possession{Proficiency: Beginner, Level: &over}.NumericLevel())
	assert.Equal(t, 0, Possession{Level: &under}.NumericLevel())
	assert.Equal(t, 6, Possession{Proficiency: Expert, Level: &exact}.NumericLevel())
}

func TestParseRelationType(t *testing.T) {
	rt, ok := ParseRelationType(" related_to")
	assert.True(t, ok)
	assert.Equal(t, RelationRelatedTo, rt)

	_, ok = ParseRelationType("KNOWS")
	assert.False(t, ok)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.35, Clamp01(0.35))
}
