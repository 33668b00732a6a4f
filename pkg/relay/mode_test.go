package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		name         string
		individual   bool
		delaySeconds int
		want         DeliveryMode
	}{
		{"defaults to bcc", false, 0, ModeBCC},
		{"individual flag", true, 0, ModeIndividual},
		{"delay forces delayed", false, 5, ModeIndividualDelayed},
		{"delay wins over individual flag", true, 3, ModeIndividualDelayed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMode(tt.individual, tt.delaySeconds))
		})
	}
}

func TestDeliveryModeString(t *testing.T) {
	assert.Equal(t, "bcc", ModeBCC.String())
	assert.Equal(t, "individual", ModeIndividual.String())
	assert.Equal(t, "individual_delayed", ModeIndividualDelayed.String())
}

func TestDeliveryModeIndividual(t *testing.T) {
	assert.False(t, ModeBCC.Individual())
	assert.True(t, ModeIndividual.Individual())
	assert.True(t, ModeIndividualDelayed.Individual())
}
