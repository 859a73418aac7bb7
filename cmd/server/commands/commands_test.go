package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"customer"},
		{"admin"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestServeFlags(t *testing.T) {
	for _, cmd := range []string{"customer", "admin"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)

		migrateFlag := c.Flags().Lookup("migrate")
		require.NotNil(t, migrateFlag)
		assert.Equal(t, "true", migrateFlag.DefValue)
		assert.NotNil(t, c.Flags().Lookup("port"))
	}
}
