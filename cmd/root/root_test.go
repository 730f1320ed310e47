package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "pankki-csv", Cmd.Use)
	assert.NotNil(t, Cmd.PersistentPreRunE, "configuration bootstrap must be wired")
	assert.NotNil(t, Cmd.Run)
}
