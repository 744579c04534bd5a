package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectName(t *testing.T) {
	assert.Equal(t, "parts", projectName("parts.csv"))
	assert.Equal(t, "order-42", projectName("/tmp/exports/order-42.xlsx"))
	assert.Equal(t, "bracket", projectName("bracket"))
}

func TestProfilesList_IncludesBuiltin(t *testing.T) {
	var buf bytes.Buffer
	cmd := newProfilesCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"list", "--dir", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Generic")
	assert.Contains(t, buf.String(), "built-in")
}

func TestPackCmd_MissingFile(t *testing.T) {
	cmd := newPackCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"does-not-exist.csv"})

	assert.Error(t, cmd.Execute())
}
