// Package ui holds the interactive prompt helpers and the styles used
// for progress narration. Prompting is line- or keystroke-based depending
// on what the terminal supports; survey handles that per platform, so
// callers see a single Input/Select/Confirm API.
package ui

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"abgraph/internal/apperr"
)

// AskOne is a seam for tests.
var AskOne = survey.AskOne

// Input prompts for a single line of text. An empty answer is allowed;
// callers that need a value reprompt.
func Input(message, def string) (string, error) {
	var answer string
	err := AskOne(&survey.Input{Message: message, Default: def}, &answer)
	if err != nil {
		return "", mapAbort(err)
	}
	return answer, nil
}

// Confirm prompts for a yes/no answer.
func Confirm(message string, def bool) (bool, error) {
	answer := def
	err := AskOne(&survey.Confirm{Message: message, Default: def}, &answer)
	if err != nil {
		return false, mapAbort(err)
	}
	return answer, nil
}

// Select prompts for one choice out of options.
func Select(message string, options []string) (string, error) {
	var answer string
	err := AskOne(&survey.Select{Message: message, Options: options}, &answer)
	if err != nil {
		return "", mapAbort(err)
	}
	return answer, nil
}

// mapAbort converts survey's interrupt into the benign user-abort error.
func mapAbort(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return apperr.ErrAborted
	}
	return err
}
