package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persistent session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, cleanup := buildSession()
		defer cleanup()

		manager.Logout(cmd.Context(), false)
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session's user",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, cleanup := buildSession()
		defer cleanup()

		snap := manager.Snapshot()
		if !snap.IsAuthenticated {
			fmt.Println("Not logged in")
			return nil
		}
		return json.NewEncoder(os.Stdout).Encode(snap.User)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a token refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, cleanup := buildSession()
		defer cleanup()

		pair, err := manager.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Refreshed; access token valid for %s\n", (time.Duration(pair.ExpiresIn) * time.Second).String())
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the current access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, cleanup := buildSession()
		defer cleanup()

		token := manager.AccessToken()
		if token == "" {
			return fmt.Errorf("no session; run `inspectl login`")
		}
		fmt.Println(token)
		return nil
	},
}

var inspectionsCmd = &cobra.Command{
	Use:   "inspections",
	Short: "List inspections through the authorized pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, cleanup := buildSession()
		defer cleanup()

		var out map[string]any
		if err := api.Get(cmd.Context(), "/inspections", &out); err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd, whoamiCmd, refreshCmd, tokenCmd, inspectionsCmd)
}
