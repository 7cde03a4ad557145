package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/paramstore/internal/csvio"
	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/store"
)

func NewUploadCommand(opts *Options) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "upload <csv-file>",
		Short: "Upload parameters from a CSV file",
		Long: `Read a CSV manifest and reconcile it against Parameter Store.

The manifest needs key, value and type columns; tier and kms are
optional. New parameters are created directly. When a parameter already
exists you are asked whether to replace it, unless --overwrite replaces
everything or --non-interactive skips every conflict.

Examples:
  # Upload, prompting on conflicts
  paramstore upload parameters.csv

  # Replace existing parameters without asking
  paramstore upload parameters.csv --overwrite

  # Scripted upload that never touches existing parameters
  paramstore upload parameters.csv --non-interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger()

			logger.Info("Reading parameters from %s", args[0])
			params, err := csvio.NewReader(logger).ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(params) == 0 {
				return pserrors.UserError{
					Message:    "No valid parameters found in CSV file",
					Suggestion: "Check that rows have both a key and a value",
				}
			}
			logger.Info("Found %d parameters", len(params))

			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			var decide store.ConflictFunc
			if !opts.NonInteractive {
				decide = promptConflict(cmd)
			}

			res, err := client.ReconcileUpload(cmd.Context(), params, overwrite, decide)
			if err != nil {
				return err
			}

			logger.Info("Upload complete: %d uploaded, %d skipped, %d failed",
				res.Uploaded, res.Skipped, res.Failed)
			if res.Aborted {
				logger.Warn("Upload aborted before all parameters were processed")
			}
			if res.Failed > 0 {
				return pserrors.UserError{
					Message:    fmt.Sprintf("%d parameters failed to upload", res.Failed),
					Suggestion: "Re-run with --debug to see the individual failures",
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing parameters without prompting")

	return cmd
}

// promptConflict asks per conflicting parameter. q aborts the rest of
// the upload.
func promptConflict(cmd *cobra.Command) store.ConflictFunc {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	return func(desired, existing store.Parameter) store.Decision {
		fmt.Fprintf(out, "Parameter '%s' already exists (%s, version %d).\n",
			existing.Name, existing.Kind, existing.Version)
		fmt.Fprint(out, "Replace it? (y)es / (n)o / (q)uit: ")

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return store.Abort
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return store.Replace
		case "q", "quit":
			return store.Abort
		default:
			return store.Skip
		}
	}
}
