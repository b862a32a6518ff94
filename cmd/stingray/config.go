package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/config"
)

func newConfigCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(cc))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigValidateCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a configuration file",
		Long:  "Validates syntax, required fields and environment variable substitution.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *cc.configFlag
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				discovered, err := config.Discover()
				if err != nil {
					return err
				}
				path = discovered
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating %s...\n\n", path)
			cfg, err := config.Load(path)
			if err != nil {
				var cerr *config.ConfigError
				if errors.As(err, &cerr) {
					printConfigErrors(out, cerr)
					return errors.New("configuration invalid")
				}
				return fmt.Errorf("failed to load config: %w", err)
			}
			printConfigSummary(out, cfg)
			fmt.Fprintln(out, "\nConfiguration valid!")
			return nil
		},
	}
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:    %s (device %s)\n", cfg.Server.URL, cfg.Server.DeviceName)
	auth := "default profile"
	switch {
	case cfg.Auth.UserID != "":
		auth = "token for user " + cfg.Auth.UserID
	case cfg.Auth.Profile != "":
		auth = "profile " + cfg.Auth.Profile
	}
	fmt.Fprintf(w, "  Auth:      %s\n", auth)
	fmt.Fprintf(w, "  Sync:      %d libraries at a time, %d per page\n", cfg.Sync.Concurrency, cfg.Sync.PageSize)
	fmt.Fprintf(w, "  Playback:  report every %s\n", cfg.Playback.ReportInterval)
	fmt.Fprintf(w, "  Database:  %s\n", cfg.Database.Path)
	logDest := "stderr"
	if cfg.Log.File != "" {
		logDest = cfg.Log.File
	}
	fmt.Fprintf(w, "  Log:       %s %s to %s\n", cfg.Log.Level, cfg.Log.Format, logDest)
	if cfg.Metrics.Listen != "" {
		fmt.Fprintf(w, "  Metrics:   %s/metrics\n", cfg.Metrics.Listen)
	}
}
