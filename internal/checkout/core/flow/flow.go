// Package flow names the checkout steps each flow mode renders.
//
// The engine keeps the step as a free counter; nothing here constrains it.
// Hosts use StepName to pick the screen for the current step and treat an
// empty name as "outside the flow".
package flow

import "github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"

const (
	StepIdentification = "identification"
	StepDelivery       = "delivery"
	StepPayment        = "payment"
	StepCheckout       = "checkout"
)

var sequences = map[domain.FlowMode][]string{
	domain.FlowThree:        {StepIdentification, StepDelivery, StepPayment},
	domain.FlowSingle:       {StepCheckout},
	domain.FlowAutomaticAPI: {StepPayment},
}

// Steps returns the ordered step names for mode, or nil for an unknown mode.
func Steps(mode domain.FlowMode) []string {
	seq, ok := sequences[mode]
	if !ok {
		return nil
	}
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}

// StepName returns the name of the 1-based step within mode, or "" when step
// falls outside the sequence.
func StepName(mode domain.FlowMode, step int) string {
	seq := sequences[mode]
	if step < 1 || step > len(seq) {
		return ""
	}
	return seq[step-1]
}

// Completed reports whether step has moved past the last step of mode.
func Completed(mode domain.FlowMode, step int) bool {
	seq := sequences[mode]
	return len(seq) > 0 && step > len(seq)
}
