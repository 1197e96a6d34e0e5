package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"inspecthub/internal/auth/models"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and establish a persistent session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, cleanup := buildSession()
		defer cleanup()

		reader := bufio.NewReader(os.Stdin)
		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}

		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			password = strings.TrimSpace(line)
		}

		result, err := manager.Login(cmd.Context(), models.LoginRequest{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", result.User.FullName, result.User.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
