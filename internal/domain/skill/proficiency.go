package skill

import "strings"

type Label string

const (
	Beginner     Label = "beginner"
	Intermediate Label = "intermediate"
	Advanced     Label = "advanced"
	Expert       Label = "expert"
)

const (
	MinLevel = 0
	MaxLevel = 10
)

var levels = map[Label]int{
	Beginner:     3,
	Intermediate: 5,
	Advanced:     7,
	Expert:       9,
}

// ParseLabel normalizes a free-form label. Unknown or empty input yields Intermediate.
func ParseLabel(s string) Label {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[l]; ok {
		return l
	}
	return Intermediate
}

// LevelOf maps a label to the numeric scale. Unknown labels count as intermediate.
func LevelOf(l Label) int {
	return levels[ParseLabel(string(l))]
}

// LabelOf returns the highest label whose level does not exceed the given level.
// Levels below beginner still map to Beginner.
func LabelOf(level int) Label {
	level = ClampLevel(level)
	switch {
	case level >= levels[Expert]:
		return Expert
	case level >= levels[Advanced]:
		return Advanced
	case level >= levels[Intermediate]:
		return Intermediate
	default:
		return Beginner
	}
}

func ClampLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}
