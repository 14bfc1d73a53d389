package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matte/internal/matte/intent"
)

func TestRulesCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"rules"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	rules := intent.DefaultRules()
	require.Len(t, lines, len(rules))
	assert.Contains(t, lines[0], " 1. ACCEPTED_NO_INVOICE")
	assert.Contains(t, out.String(), "keywords=earnings")
	assert.NotContains(t, out.String(), `\b`)
}

func TestRulesCmd_Patterns(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdRules(&out, true))

	for _, r := range intent.DefaultRules() {
		for _, p := range r.Patterns {
			assert.Contains(t, out.String(), p.String())
		}
	}
}

func TestRulesCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"rules", "extra"})
	assert.Error(t, cmd.Execute())
}
