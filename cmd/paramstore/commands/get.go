package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewGetCommand(opts *Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Get a single parameter value",
		Long: `Fetch one parameter and print its decrypted value to stdout.

By default only the raw value is printed, making it suitable for
scripting. Use --json for the full record.

Examples:
  # Get a single value
  paramstore get /app/db/password

  # Use in scripts
  export DB_PASSWORD=$(paramstore get /app/db/password)

  # Full record with metadata
  paramstore get /app/db/password --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			p, err := client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]interface{}{
					"name":          p.Name,
					"value":         p.Value,
					"type":          p.Kind,
					"tier":          p.Tier,
					"key_id":        p.KeyID,
					"version":       p.Version,
					"last_modified": p.LastModified,
				})
			}

			fmt.Fprint(cmd.OutOrStdout(), p.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full record as JSON")

	return cmd
}
