package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "defaults", weights: DefaultWeights()},
		{name: "all on skills", weights: Weights{SkillMatch: 1}},
		{name: "float noise tolerated", weights: Weights{SkillMatch: 0.1 + 0.2, Experience: 0.7}},
		{name: "negative", weights: Weights{SkillMatch: 1.2, Experience: -0.2}, wantErr: true},
		{name: "sum below one", weights: Weights{SkillMatch: 0.5, Experience: 0.4}, wantErr: true},
		{name: "zero", weights: Weights{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var contractErr *ContractError
			assert.ErrorAs(t, err, &contractErr)
		})
	}
}

func TestNewEngine_RejectsInvalidWeights(t *testing.T) {
	engine, err := NewEngine(Options{Weights: &Weights{SkillMatch: 0.5}})
	assert.Nil(t, engine)

	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, err.Error(), "invalid weights")
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
	assert.Equal(t, 0.40, w.SkillMatch)
}
