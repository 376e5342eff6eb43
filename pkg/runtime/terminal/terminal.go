package terminal

import (
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/de-tools/fleximart/pkg/runtime/terminal/commands"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output       io.Writer
	ProfilesPath string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ProfilesPath == "" {
		opts.ProfilesPath = defaultProfilesPath()
	}

	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd(opts)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleximart",
		Short:         "Batch cleaning and loading of customer, product and sales extracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(opts.Output)

	cmd.AddCommand(commands.NewRunCmd(opts.ProfilesPath))
	cmd.AddCommand(commands.NewProfilesCmd(opts.ProfilesPath))

	return cmd
}

func defaultProfilesPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".fleximartcfg"
	}
	return filepath.Join(usr.HomeDir, ".fleximartcfg")
}
