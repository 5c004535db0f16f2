package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/vehicles-auth-client/api"
	"github.com/spf13/cobra"
)

// LoginCommand exchanges credentials for a token pair
func LoginCommand(app appLoader) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session tokens",
		Example: `  vehiclectl login -u alice -p secret
  echo secret | vehiclectl login -u alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readLine(cmd); err != nil {
					return err
				}
			}
			a, err := app(cmd)
			if err != nil {
				return err
			}
			if err := a.Session.Login(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, read from stdin when omitted")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// RegisterCommand creates an account and logs in with it
func RegisterCommand(app appLoader) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.ConfirmPassword == "" {
				req.ConfirmPassword = req.Password
			}
			a, err := app(cmd)
			if err != nil {
				return err
			}
			if err := a.Session.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", req.Username)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Username, "username", "u", "", "username (at least 3 characters)")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVarP(&req.Password, "password", "p", "", "password (at least 6 characters)")
	flags.StringVar(&req.ConfirmPassword, "confirm-password", "", "password confirmation, defaults to --password")
	flags.StringVar(&req.FirstName, "first-name", "", "first name")
	flags.StringVar(&req.LastName, "last-name", "", "last name")
	return cmd
}

// LogoutCommand forgets the stored session. The refresh token is not revoked server side.
func LogoutCommand(app appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}
			if err := a.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("read password: empty")
	}
	return line, nil
}
