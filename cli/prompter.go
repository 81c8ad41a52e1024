package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrInterrupted is returned by a Prompter when the user hits Ctrl+C or
// closes stdin.
var ErrInterrupted = errors.New("interrupted by user")

// Choice is one entry of a selection list. A non-empty Disabled holds the
// reason the entry cannot be picked right now.
type Choice struct {
	Label    string
	Disabled string
}

// Prompter reads user decisions. Select returns the index of the picked choice.
type Prompter interface {
	Select(label string, choices []Choice) (int, error)
	Confirm(label string) (bool, error)
	Pause(label string) error
}

// PromptUI is the terminal Prompter. Nil streams mean stdin and stdout.
type PromptUI struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (p PromptUI) Select(label string, choices []Choice) (int, error) {
	items := make([]string, len(choices))
	for i, c := range choices {
		items[i] = c.Label
		if c.Disabled != "" {
			items[i] = fmt.Sprintf("%s (%s)", c.Label, c.Disabled)
		}
	}

	sel := promptui.Select{
		Label:        label,
		Items:        items,
		Size:         len(items),
		HideSelected: true,
		Stdin:        p.Stdin,
		Stdout:       p.Stdout,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return -1, promptError(err)
	}
	return idx, nil
}

func (p PromptUI) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "y",
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}
	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	}
	return false, promptError(err)
}

func (p PromptUI) Pause(label string) error {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	if _, err := prompt.Run(); err != nil {
		return promptError(err)
	}
	return nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
		return ErrInterrupted
	}
	return fmt.Errorf("prompt failed: %w", err)
}
