package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag  string
		profileFlag string
		jsonFlag    bool
	)
	cc := newCommandContext(&configFlag, &profileFlag, &jsonFlag)

	root := &cobra.Command{
		Use:   "stingray",
		Short: "Headless Jellyfin client",
		Long: `stingray - headless Jellyfin client

Syncs the libraries of a Jellyfin server, looks titles up and searches
them, reconstructs seasons, and reports playback progress.

Log in once with 'stingray profile login'; later commands reuse the token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return cc.Close()
		},
	}
	root.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: discovered)")
	root.PersistentFlags().StringVar(&profileFlag, "profile", "", "Stored profile to use")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output as JSON")

	root.Version = version
	root.SetVersionTemplate("stingray {{.Version}}\n")

	root.AddCommand(
		newSyncCommand(cc),
		newLookupCommand(cc),
		newSearchCommand(cc),
		newSeasonsCommand(cc),
		newPlayCommand(cc),
		newProfileCommand(cc),
		newConfigCommand(cc),
	)
	return root
}
