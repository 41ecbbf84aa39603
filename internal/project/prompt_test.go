package project

import (
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/require"
)

func TestSurveyPrompt(t *testing.T) {
	original := askOne
	t.Cleanup(func() { askOne = original })

	t.Run("returns the answer", func(t *testing.T) {
		askOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
			input, ok := p.(*survey.Input)
			require.True(t, ok)
			require.Equal(t, "/tmp/repo", input.Default)
			*(response.(*string)) = "/src/project"
			return nil
		}

		path, err := surveyPrompt("Path to git repository:", "/tmp/repo")
		require.NoError(t, err)
		require.Equal(t, "/src/project", path)
	})

	t.Run("keeps the interrupt", func(t *testing.T) {
		askOne = func(survey.Prompt, interface{}, ...survey.AskOpt) error {
			return terminal.InterruptErr
		}

		_, err := surveyPrompt("Path to git repository:", "")
		require.ErrorIs(t, err, terminal.InterruptErr)
		require.Contains(t, err.Error(), "canceled")
	})
}
