// Package prompt asks the user to pick a schema version in a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoChoices is returned when there is nothing to pick from.
	ErrNoChoices = errors.New("prompt: no choices available")
)

// SelectConfig configures a single-select prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// Selector abstracts the terminal implementation so callers can be tested
// without a real terminal.
type Selector interface {
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// SurveySelector prompts through survey.
type SurveySelector struct {
	Opts []survey.AskOpt
}

// NewSurveySelector returns a selector bound to the process terminal.
func NewSurveySelector(opts ...survey.AskOpt) *SurveySelector {
	return &SurveySelector{Opts: opts}
}

func (s *SurveySelector) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := survey.AskOne(prompt, &out, s.Opts...); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(cfg.Options, out), nil
}

// ChooseVersion asks sel to pick one of versions, defaulting to the first.
func ChooseVersion(ctx context.Context, sel Selector, versions []string) (string, error) {
	if len(versions) == 0 {
		return "", ErrNoChoices
	}
	idx, err := sel.Select(ctx, SelectConfig{
		Message:  "Schema version",
		Options:  versions,
		Help:     "Versions with a schema file in the schema directory.",
		PageSize: 10,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(versions) {
		return "", fmt.Errorf("prompt: selection %d out of range", idx)
	}
	return versions[idx], nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
