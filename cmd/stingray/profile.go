package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/profile"
)

type profileView struct {
	Name      string `json:"name"`
	Server    string `json:"server"`
	User      string `json:"user"`
	UserID    string `json:"user_id"`
	Default   bool   `json:"default"`
	CreatedAt string `json:"created_at"`
}

func newProfileView(p *profile.Profile) profileView {
	return profileView{
		Name:      p.Name,
		Server:    p.ServerURL,
		User:      p.UserName,
		UserID:    p.UserID,
		Default:   p.Default,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func newProfileCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored logins",
	}
	cmd.AddCommand(
		newProfileLoginCommand(cc),
		newProfileListCommand(cc),
		newProfileUseCommand(cc),
		newProfileRemoveCommand(cc),
	)
	return cmd
}

func newProfileLoginCommand(cc *commandContext) *cobra.Command {
	var (
		name     string
		server   string
		username string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a server and store the token",
		Long: `Log in with a username and password and store the access token.

The password is read from stdin. The first stored profile becomes the default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			if server == "" {
				server = cfg.Server.URL
			}
			if server == "" {
				return errors.New("no server: pass --server or set server.url")
			}

			in := bufio.NewReader(cmd.InOrStdin())
			var out io.Writer = io.Discard
			if isTerminal(cmd.InOrStdin()) {
				out = cmd.ErrOrStderr()
			}
			if username == "" {
				username = prompt(in, out, "Username")
			}
			password := prompt(in, out, "Password")

			client, err := cc.jellyfinClient(server)
			if err != nil {
				return err
			}
			auth, err := client.Authenticate(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed:\n  %s", describeError(err))
			}

			store, err := cc.ensureStore(ctx)
			if err != nil {
				return err
			}
			if name == "" {
				name = auth.UserName
			}
			p := &profile.Profile{
				Name:      name,
				ServerURL: server,
				ServerID:  auth.ServerID,
				UserID:    auth.UserID,
				UserName:  auth.UserName,
				Token:     auth.Token,
				DeviceID:  cfg.Server.DeviceID,
			}
			if err := store.Save(ctx, p); err != nil {
				return err
			}
			all, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 1 {
				if err := store.SetDefault(ctx, p.Name); err != nil {
					return err
				}
			}

			if cc.json() {
				return printJSON(out, newProfileView(p))
			}
			fmt.Fprintf(out, "Logged in as %s; saved profile %q\n", auth.UserName, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Profile name (default: the user name)")
	cmd.Flags().StringVar(&server, "server", "", "Server URL (default: server.url)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "User name (prompted when empty)")
	return cmd
}

func newProfileListCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cc.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]profileView, 0, len(all))
			for _, p := range all {
				views = append(views, newProfileView(p))
			}

			out := cmd.OutOrStdout()
			if cc.json() {
				return printJSON(out, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No profiles")
				return nil
			}
			fmt.Fprintf(out, "  %-1s %-16s %-16s %s\n", "", "NAME", "USER", "SERVER")
			fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
			for _, v := range views {
				marker := " "
				if v.Default {
					marker = "*"
				}
				fmt.Fprintf(out, "  %-1s %-16s %-16s %s\n", marker, truncate(v.Name, 16), truncate(v.User, 16), v.Server)
			}
			return nil
		},
	}
}

func newProfileUseCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cc.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.SetDefault(cmd.Context(), args[0]); err != nil {
				return err
			}
			if !cc.json() {
				fmt.Fprintf(cmd.OutOrStdout(), "Default profile is now %q\n", args[0])
			}
			return nil
		},
	}
}

func newProfileRemoveCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cc.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if !cc.json() {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", args[0])
			}
			return nil
		},
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
