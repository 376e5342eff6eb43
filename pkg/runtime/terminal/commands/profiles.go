package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/fleximart/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	profilesPath string
}

func NewProfilesCmd(defaultProfilesPath string) *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List destination profiles",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.profilesPath, "profiles-file", defaultProfilesPath, "Path to the destination profiles file")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	profiles, err := config.NewProfiles(pc.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to read profiles file %s: %w", pc.profilesPath, err)
	}

	names, err := profiles.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No destination profiles found in %s\n", pc.profilesPath)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Destination profiles:\n%s\n", strings.Join(names, "\n"))
	return nil
}
