package commands

import (
	"github.com/spf13/cobra"
	pserrors "github.com/systmms/paramstore/internal/errors"
)

func NewDeleteCommand(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a parameter",
		Long: `Delete one parameter from the store.

Deleting asks for confirmation unless --force is given. Deleting a
parameter that does not exist is an error, not a no-op.

Examples:
  paramstore delete /app/old/setting
  paramstore delete /app/old/setting --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !force {
				if opts.NonInteractive {
					return pserrors.UserError{
						Message:    "Refusing to delete without confirmation in non-interactive mode",
						Suggestion: "Re-run with --force to delete without a prompt",
					}
				}
				if !confirm(cmd, "Delete parameter '%s'?", name) {
					opts.logger().Info("Delete cancelled")
					return nil
				}
			}

			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Delete(cmd.Context(), name); err != nil {
				return err
			}

			opts.logger().Info("Deleted %s", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking for confirmation")

	return cmd
}
