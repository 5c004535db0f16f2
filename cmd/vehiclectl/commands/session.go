package commands

import (
	"errors"
	"fmt"
	"time"

	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/jrsteele09/vehicles-auth-client/session"
	"github.com/spf13/cobra"
)

func WhoamiCommand(app appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the username of the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}
			name, ok := a.Session.Username(cmd.Context())
			if !ok {
				return ierrors.ErrNotAuthenticated
			}
			if !a.Session.IsLoggedIn(cmd.Context()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (access token expired)\n", name)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func StatusCommand(app appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			state := a.Session.State(cmd.Context())

			fmt.Fprintf(out, "api:           %s\n", a.Config.GetAPIURL())
			fmt.Fprintf(out, "store:         %s\n", a.Config.GetStoreType())
			fmt.Fprintf(out, "authenticated: %t\n", state.Authenticated)
			if state.Authenticated {
				fmt.Fprintf(out, "username:      %s\n", state.Username)
			}

			claims, err := a.Session.Claims(cmd.Context())
			switch {
			case errors.Is(err, ierrors.ErrNotAuthenticated):
				return nil
			case err != nil:
				fmt.Fprintf(out, "access token:  unreadable (%s)\n", err)
				return nil
			}
			if claims.ExpiresAt != nil {
				fmt.Fprintf(out, "expires:       %s (%s)\n", claims.ExpiresAt.Time.Format(time.RFC3339), expiresIn(claims))
			}
			_, refresh, err := a.Session.RefreshCredential(cmd.Context())
			if err == nil {
				fmt.Fprintf(out, "refreshable:   %t\n", refresh != "")
			}
			return nil
		},
	}
}

func expiresIn(claims *session.Claims) string {
	d := claims.ExpiresAt.Time.Sub(session.NowTimeFunc()).Round(time.Second)
	if d <= 0 {
		return "expired " + (-d).String() + " ago"
	}
	return "in " + d.String()
}
