package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Token(t *testing.T) {
	c := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	t.Run("missing file is not an error", func(t *testing.T) {
		require.NoError(t, c.LoadToken())
		assert.Empty(t, c.Token)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, c.SaveToken("sess_abc"))

		loaded := &Config{TokenFile: c.TokenFile}
		require.NoError(t, loaded.LoadToken())
		assert.Equal(t, "sess_abc", loaded.Token)
	})

	t.Run("explicit token wins over file", func(t *testing.T) {
		explicit := &Config{Token: "flag", TokenFile: c.TokenFile}
		require.NoError(t, explicit.LoadToken())
		assert.Equal(t, "flag", explicit.Token)
	})

	t.Run("clear removes file", func(t *testing.T) {
		require.NoError(t, c.ClearToken())
		assert.Empty(t, c.Token)
		_, err := os.Stat(c.TokenFile)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine
		require.NoError(t, c.ClearToken())
	})
}

func TestDefaultConfig_Env(t *testing.T) {
	t.Setenv("TTT_SERVER", "http://example.test:9000")
	t.Setenv("TTT_TOKEN", "sess_env")

	c := DefaultConfig()
	assert.Equal(t, "http://example.test:9000", c.ServerURL)
	assert.Equal(t, "sess_env", c.Token)
	assert.Equal(t, "text", c.Output)
}
