package commands

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/vehicles-auth-client/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCMD command entry
func NewRootCMD(newApp AppFactory) *cobra.Command {
	cfg := config.New()
	cmd := &cobra.Command{
		Use:   "vehiclectl",
		Short: "Command line client for the vehicles catalog API",
		Long: fmt.Sprintf(`Command line client for the vehicles catalog API.
Tokens are kept between invocations and refreshed automatically.
API: %s`, cfg.GetAPIURL()),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(cmd.OutOrStdout(), cfg.GetAppName())
			return cmd.Help()
		},
	}

	// The App is only built for the subcommand that actually runs
	app := func(cmd *cobra.Command) (*App, error) {
		return newApp(cfg, cmd.ErrOrStderr())
	}

	cmd.AddCommand(
		LoginCommand(app),
		RegisterCommand(app),
		LogoutCommand(app),
		WhoamiCommand(app),
		StatusCommand(app),
		GetCommand(app),
	)
	return cmd
}

type appLoader func(cmd *cobra.Command) (*App, error)

func displayAppname(out io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(out, myFigure.String())
}
