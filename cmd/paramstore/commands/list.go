package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/paramstore/internal/csvio"
	"github.com/systmms/paramstore/internal/store"
)

func NewListCommand(opts *Options) *cobra.Command {
	var (
		filter     string
		outputFile string
		noDecrypt  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all parameters",
		Long: `Scan every parameter visible to the session and print a table, or
export the scan to CSV with --output.

SecureString values are decrypted unless --no-decrypt is given. A
parameter whose value cannot be fetched is listed with N/A instead of
failing the whole scan.

Examples:
  # Table on stdout
  paramstore list

  # Only parameters under /app/db
  paramstore list --filter /app/db

  # Full export
  paramstore list --output backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			params, err := client.ListAll(cmd.Context(), !noDecrypt)
			if err != nil {
				return err
			}

			if filter != "" {
				needle := strings.ToLower(filter)
				kept := params[:0]
				for _, p := range params {
					if strings.Contains(strings.ToLower(p.Name), needle) {
						kept = append(kept, p)
					}
				}
				params = kept
			}

			if outputFile != "" {
				if err := csvio.WriteFile(outputFile, params); err != nil {
					return err
				}
				opts.logger().Info("Exported %d parameters to %s", len(params), outputFile)
				return nil
			}

			printTable(cmd, params)
			opts.logger().Info("%d parameters", len(params))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list parameters whose name contains this substring")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Export the listing to a CSV file instead of printing")
	cmd.Flags().BoolVar(&noDecrypt, "no-decrypt", false, "List SecureString parameters without decrypting values")

	return cmd
}

func printTable(cmd *cobra.Command, params []store.Parameter) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tTIER\tVERSION\tVALUE")
	for _, p := range params {
		value := p.Value
		if p.Kind == store.KindSecureString && value != store.ValueUnavailable {
			value = truncate(value, 40)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.Name, p.Kind, p.Tier, p.Version, value)
	}
	w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
