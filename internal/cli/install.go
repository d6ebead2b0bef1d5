package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"monollogs/internal/installer"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Register the plugin with Claude Code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd)
		},
	}
}

func (a *app) runInstall(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	inst, err := a.installer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n📦 Installing %s Claude Code plugin...\n\n", installer.PluginName)
	if err := inst.Install(); err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}
	fmt.Fprintf(out, "✅ Updated %s\n", inst.Paths.Settings)
	fmt.Fprintf(out, "✅ Updated %s\n", inst.Paths.Registry)
	fmt.Fprintf(out, "\n🎉 %s installed successfully!\n\n%s\n\nRestart Claude Code to activate the plugin.\n", installer.PluginName, pluginCommands)
	return nil
}
