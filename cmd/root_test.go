package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range RootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"plan", "apply", "export", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	flags := RootCmd.PersistentFlags()

	cfg := flags.Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "athenadef.yaml", cfg.DefValue)
	assert.Equal(t, "c", cfg.Shorthand)

	tgt := flags.Lookup("target")
	require.NotNil(t, tgt)
	assert.Equal(t, "t", tgt.Shorthand)

	require.NotNil(t, flags.Lookup("debug"))
}

func TestSubcommandFlags(t *testing.T) {
	plan, _, err := RootCmd.Find([]string{"plan"})
	require.NoError(t, err)
	require.NotNil(t, plan.Flags().Lookup("format"))
	require.NotNil(t, plan.Flags().Lookup("show-unchanged"))

	apply, _, err := RootCmd.Find([]string{"apply"})
	require.NoError(t, err)
	require.NotNil(t, apply.Flags().Lookup("auto-approve"))
	require.NotNil(t, apply.Flags().Lookup("dry-run"))

	export, _, err := RootCmd.Find([]string{"export"})
	require.NoError(t, err)
	require.NotNil(t, export.Flags().Lookup("overwrite"))
}
