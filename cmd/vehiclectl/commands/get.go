package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// GetCommand fetches any API path through the authorizing transport and prints the JSON
func GetCommand(app appLoader) *cobra.Command {
	var query map[string]string
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET an API path with the stored session",
		Example: `  vehiclectl get /cars/
  vehiclectl get /search/ -q q=toyota -q type=cars`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			values := url.Values{}
			for k, v := range query {
				values.Set(k, v)
			}
			var raw json.RawMessage
			if err := a.Catalog.GetJSON(cmd.Context(), args[0], values, &raw); err != nil {
				return err
			}
			if len(raw) == 0 {
				return nil
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return fmt.Errorf("format response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "query parameter as key=value, repeatable")
	return cmd
}
