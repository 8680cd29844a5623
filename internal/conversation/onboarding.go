// Package conversation owns per-session conversation state: the
// onboarding state machine that collects a user profile, and the
// controller facade that sequences user input through onboarding or the
// transport router and persists every mutation.
package conversation

import (
	"strings"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/i18n"
)

// advanceOnboarding feeds one user input to the onboarding machine. It
// mutates state's step and profile in place and returns the assistant
// reply plus whether onboarding completed on this exact input.
//
// The step only ever moves forward. Invalid input (an email without '@')
// re-emits the current prompt; no error reaches the user. The caller
// guarantees input is non-empty and trimmed.
func advanceOnboarding(state *chat.State, input string) (reply string, completed bool) {
	switch state.Step {
	case chat.StepAwaitingName:
		state.Profile.Name = input
		state.Step = chat.StepAwaitingEmail
		return i18n.Bilingual("onboarding.ask_email", state.Profile.Name), false

	case chat.StepAwaitingEmail:
		if !strings.Contains(input, "@") {
			// Silent retry: same prompt, no state change.
			return i18n.Bilingual("onboarding.ask_email", state.Profile.Name), false
		}
		state.Profile.Email = input
		state.Step = chat.StepAwaitingInterest
		return i18n.Bilingual("onboarding.ask_interest"), false

	case chat.StepAwaitingInterest:
		state.Profile.Interest = input
		state.Step = chat.StepComplete
		return i18n.Bilingual("onboarding.complete", state.Profile.Name), true

	default:
		// StepComplete is terminal; the controller never routes here.
		return "", false
	}
}

// greeting returns the initial onboarding prompt that seeds a fresh
// conversation.
func greeting() string {
	return i18n.Bilingual("onboarding.greeting")
}
