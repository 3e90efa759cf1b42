package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"QuantMarketLab/internal/model"
)

func TestLongestStreaks(t *testing.T) {
	tests := []struct {
		name                    string
		directions              []model.Direction
		wantUp, wantDown, wantBE int
	}{
		{
			name:       "alternating",
			directions: []model.Direction{model.DirectionUp, model.DirectionDown, model.DirectionUp},
			wantUp:     1, wantDown: 1, wantBE: 0,
		},
		{
			name: "runs of each category",
			directions: []model.Direction{
				model.DirectionUp, model.DirectionUp, model.DirectionUp,
				model.DirectionBreakEven, model.DirectionBreakEven,
				model.DirectionDown,
				model.DirectionUp, model.DirectionUp,
			},
			wantUp: 3, wantDown: 1, wantBE: 2,
		},
		{
			name:       "single bar counts as streak of one",
			directions: []model.Direction{model.DirectionDown},
			wantUp:     0, wantDown: 1, wantBE: 0,
		},
		{
			name:       "empty",
			directions: nil,
			wantUp:     0, wantDown: 0, wantBE: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, down, be := LongestStreaks(Enrich(weekOfBars(tt.directions...), 10))
			assert.Equal(t, tt.wantUp, up)
			assert.Equal(t, tt.wantDown, down)
			assert.Equal(t, tt.wantBE, be)
		})
	}
}

func TestLongestStreaks_LaterRunOvertakesEarlier(t *testing.T) {
	bars := Enrich(weekOfBars(
		model.DirectionUp,
		model.DirectionDown,
		model.DirectionUp, model.DirectionUp, model.DirectionUp,
	), 10)
	up, down, be := LongestStreaks(bars)
	assert.Equal(t, 3, up)
	assert.Equal(t, 1, down)
	assert.Zero(t, be)
}
