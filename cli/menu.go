package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const requiresAuthentication = "Requires authentication"

// choose prompts until an enabled choice is picked.
func choose(p Prompter, out io.Writer, label string, choices []Choice) (int, error) {
	for {
		idx, err := p.Select(label, choices)
		if err != nil {
			return -1, err
		}
		if idx < 0 || idx >= len(choices) {
			return -1, fmt.Errorf("selection %d out of range", idx)
		}
		if reason := choices[idx].Disabled; reason != "" {
			displayWarning(out, "%s is unavailable: %s", choices[idx].Label, reason)
			continue
		}
		return idx, nil
	}
}

func menuChoices(actions []Action, authenticated bool) []Choice {
	choices := make([]Choice, len(actions))
	for i, a := range actions {
		choices[i] = Choice{Label: a.Label}
		if a.RequiresAuth && !authenticated {
			choices[i].Disabled = requiresAuthentication
		}
	}
	return choices
}

// RunInteractive shows the main menu until the user exits or interrupts. An
// action error is reported and the menu comes back.
func RunInteractive(ctx context.Context, s *Session, p Prompter) int {
	actions := Actions()
	displayWelcome(s.out, s.Config.APIBaseURL)

	for {
		if ctx.Err() != nil {
			Interrupted(s.out)
			return 0
		}

		idx, err := choose(p, s.out, "What would you like to do?", menuChoices(actions, s.IsAuthenticated()))
		if errors.Is(err, ErrInterrupted) {
			Interrupted(s.out)
			return 0
		}
		if err != nil {
			displayFailure(s.out, "Error", err)
			return 1
		}

		action := actions[idx]
		if action.Key == exitKey {
			displayGoodbye(s.out)
			return 0
		}
		if err := s.handle(ctx, action, p); errors.Is(err, ErrInterrupted) {
			Interrupted(s.out)
			return 0
		}
	}
}

// Interrupted prints the farewell shown when the session is cut short.
func Interrupted(w io.Writer) {
	fmt.Fprintln(w, "\n\nInterrupted by user.")
	displayGoodbye(w)
}

// handle runs one action and reports its outcome. Only an interrupt is
// passed back to the loop.
func (s *Session) handle(ctx context.Context, action Action, p Prompter) error {
	displayActionHeader(s.out, action.Title)

	err := action.Run(ctx, s, p)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInterrupted) {
		return err
	}

	displayFailure(s.out, action.Title+" failed", err)
	if s.Config.Verbose {
		displayResponseBody(s.out, err)
	}
	fmt.Fprintln(s.out, "\nReturning to main menu...")
	return nil
}
