package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
	assert.Equal(t, "show", settingsShowCmd.Use)
	assert.Equal(t, "embedding", settingsEmbeddingCmd.Use)
	assert.Equal(t, "llm", settingsLLMCmd.Use)
}

func TestSettingsShowCmd_PrintsSections(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[Retrieval]")
	assert.Contains(t, buf.String(), "[Persona Defaults]")
	assert.Contains(t, buf.String(), "[Embedding]")
	assert.Contains(t, buf.String(), "[LLM]")
	assert.Contains(t, buf.String(), "Configuration is valid.")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("7", 3, 1))
	assert.Equal(t, 1, parseChoice("junk", 3, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefgh-wxyz"))
}
