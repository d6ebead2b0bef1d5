package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check installation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *app) runStatus(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	inst, err := a.installer()
	if err != nil {
		return err
	}
	st, err := inst.Status()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !st.SettingsFound {
		fmt.Fprintln(out, "❌ Claude Code settings not found")
		return nil
	}
	fmt.Fprintf(out, "\nmonol-logs status:\n  Marketplace registered: %s\n  Plugin enabled: %s\n  Package location: %s\n",
		mark(st.MarketplaceRegistered), mark(st.PluginEnabled), st.PackageDir)
	return nil
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
