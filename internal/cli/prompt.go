package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/p-n-ai/pai-academy/internal/assessment"
)

// Prompter asks the learner questions. The terminal implementation uses
// huh forms; tests script the answers.
type Prompter interface {
	Select(title string, opts []assessment.Option) (string, error)
	MultiSelect(title string, opts []assessment.Option) ([]string, error)
	Input(title, placeholder string) (string, error)
	Confirm(title string) (bool, error)
}

type huhPrompter struct{}

func academyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(ColorDim)
	return t
}

func huhOptions(opts []assessment.Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

func runField(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithTheme(academyHuhTheme()).
		WithShowHelp(false).
		Run()
}

func (huhPrompter) Select(title string, opts []assessment.Option) (string, error) {
	var v string
	err := runField(huh.NewSelect[string]().Title(title).Options(huhOptions(opts)...).Value(&v))
	return v, err
}

func (huhPrompter) MultiSelect(title string, opts []assessment.Option) ([]string, error) {
	var v []string
	err := runField(huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions(opts)...).
		Validate(func(s []string) error {
			if len(s) == 0 {
				return errors.New("하나 이상 골라 주세요")
			}
			return nil
		}).
		Value(&v))
	return v, err
}

func (huhPrompter) Input(title, placeholder string) (string, error) {
	var v string
	err := runField(huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("내용을 입력해 주세요")
			}
			return nil
		}).
		Value(&v))
	return v, err
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var v bool
	err := runField(huh.NewConfirm().Title(title).Affirmative("예").Negative("아니요").Value(&v))
	return v, err
}
