package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Weights
	}{
		{"already normalized", Weights{0.5, 0.3, 0.2}},
		{"unnormalized", Weights{3, 1, 1}},
		{"single", Weights{0, 7, 0}},
		{"tiny", Weights{1e-9, 2e-9, 3e-9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.in.Normalize(DefaultWeights)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, w.Sum(), 1e-9)
		})
	}
}

func TestWeightsNormalize_AllZeroUsesDefaults(t *testing.T) {
	w, err := Weights{}.Normalize(DefaultWeights)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, w.Skills, 1e-12)
	assert.InDelta(t, 0.15, w.Location, 1e-12)
	assert.InDelta(t, 0.10, w.Semantic, 1e-12)
}

func TestWeightsNormalize_Negative(t *testing.T) {
	_, err := Weights{Skills: 1, Location: -0.1}.Normalize(DefaultWeights)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWeights))

	var iw *InvalidWeightsError
	require.ErrorAs(t, err, &iw)
	assert.Contains(t, iw.Reason, "location")
}

func TestWeightsWithoutSemantic(t *testing.T) {
	w := Weights{Skills: 0.6, Location: 0.2, Semantic: 0.2}.withoutSemantic()
	assert.InDelta(t, 0.75, w.Skills, 1e-12)
	assert.InDelta(t, 0.25, w.Location, 1e-12)
	assert.Zero(t, w.Semantic)

	assert.Equal(t, Weights{}, Weights{Semantic: 1}.withoutSemantic())
}
