package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
)

func TestStepName(t *testing.T) {
	tests := []struct {
		mode domain.FlowMode
		step int
		want string
	}{
		{domain.FlowThree, 1, StepIdentification},
		{domain.FlowThree, 2, StepDelivery},
		{domain.FlowThree, 3, StepPayment},
		{domain.FlowThree, 4, ""},
		{domain.FlowThree, 0, ""},
		{domain.FlowSingle, 1, StepCheckout},
		{domain.FlowAutomaticAPI, 1, StepPayment},
		{domain.FlowMode("bogus"), 1, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StepName(tt.mode, tt.step), "mode=%s step=%d", tt.mode, tt.step)
	}
}

func TestCompleted(t *testing.T) {
	assert.False(t, Completed(domain.FlowThree, 3))
	assert.True(t, Completed(domain.FlowThree, 4))
	assert.True(t, Completed(domain.FlowSingle, 2))
	assert.False(t, Completed(domain.FlowMode("bogus"), 10))
}

func TestStepsReturnsCopy(t *testing.T) {
	steps := Steps(domain.FlowThree)
	steps[0] = "mutated"
	assert.Equal(t, StepIdentification, StepName(domain.FlowThree, 1))
	assert.Nil(t, Steps(domain.FlowMode("bogus")))
}
