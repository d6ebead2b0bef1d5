package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"monollogs/internal/installer"
)

const pluginCommands = `Inside Claude Code:
  /branch          Session branching with git worktree
  /sessions        List archived sessions
  /roadmap         Extract TODOs from sessions
  /summary         Generate AI summaries
  /save            Manual session save`

// Options lets callers and tests pin the environment the commands see.
type Options struct {
	Version    string
	Home       string
	PackageDir string
}

type app struct {
	opts       Options
	packageDir string
	status     bool
	reinstall  bool
}

// NewRootCmd builds the monol-logs command tree.
func NewRootCmd(opts Options) *cobra.Command {
	a := &app{opts: opts}
	root := &cobra.Command{
		Use:     "monol-logs",
		Short:   "Claude Code plugin for session management",
		Long:    "monol-logs v" + opts.Version + "\nClaude Code plugin for session management\n\n" + pluginCommands,
		Version: opts.Version,
		// Stray words land here, so they fail with an unknown command error
		// followed by usage.
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			switch {
			case a.status:
				return a.runStatus(cmd)
			case a.reinstall:
				return a.runInstall(cmd)
			default:
				return cmd.Help()
			}
		},
		SilenceErrors: true,
	}
	root.SetVersionTemplate("monol-logs v{{.Version}}\n")
	root.Flags().BoolVar(&a.status, "status", false, "check installation status")
	root.Flags().BoolVar(&a.reinstall, "reinstall", false, "reinstall the plugin")
	root.PersistentFlags().StringVar(&a.packageDir, "package-dir", "", "plugin package location (default: parent of the executable's directory)")

	root.AddCommand(newInstallCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newSeedCmd())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(Options{Version: version})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) installer() (*installer.Installer, error) {
	home := a.opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}
	pkg, err := a.resolvePackageDir()
	if err != nil {
		return nil, err
	}
	return installer.New(home, pkg), nil
}

func (a *app) resolvePackageDir() (string, error) {
	if a.packageDir != "" {
		return filepath.Abs(a.packageDir)
	}
	if a.opts.PackageDir != "" {
		return a.opts.PackageDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
