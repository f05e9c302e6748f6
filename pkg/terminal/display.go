package terminal

import (
	"errors"

	"github.com/manifoldco/promptui"
)

type PromptContent struct {
	ErrorMsg string
	Label    string
	Default  string
	Mask     bool
}

// PromptGetInput asks for a single non-empty value. Masked prompts echo '*'.
func PromptGetInput(pc PromptContent) (string, error) {
	validate := func(input string) error {
		if len(input) == 0 {
			return errors.New(pc.ErrorMsg)
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | green }} ",
		Invalid: "{{ . | yellow }} ",
		Success: "{{ . | bold }} ",
	}

	prompt := promptui.Prompt{
		Label:     pc.Label,
		Templates: templates,
		Validate:  validate,
		Default:   pc.Default,
		AllowEdit: true,
	}
	if pc.Mask {
		prompt.Mask = '*'
	}

	result, err := prompt.Run()
	if err != nil {
		return "", err //nolint:wrapcheck // caller wraps
	}
	return result, nil
}
