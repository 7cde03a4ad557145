package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/paramstore/cmd/paramstore/commands"
	"github.com/systmms/paramstore/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &commands.Options{}

	rootCmd := &cobra.Command{
		Use:   "paramstore",
		Short: "Manage AWS SSM Parameter Store with flexible credentials",
		Long: `paramstore uploads, lists and deletes SSM parameters using whichever
AWS credential source fits: static keys, shared profiles, SSO, role
assumption, environment variables or the default chain.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.Logger = logging.New(opts.Debug, opts.NoColor)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Config file path (default paramstore.yaml if present)")
	flags.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.NonInteractive, "non-interactive", false, "Never prompt; skip conflicts and refuse unconfirmed deletes")

	flags.StringVar(&opts.Region, "region", "", "AWS region (default us-east-1)")
	flags.StringVar(&opts.KMSKey, "kms-key", "", "KMS key for SecureString writes (default alias/aws/ssm)")

	flags.StringVar(&opts.AuthMethod, "auth-method", "", "Credential source: access-key, profile, sso, role, environment or default")
	flags.StringVar(&opts.AccessKey, "access-key", "", "AWS access key ID (auth-method=access-key)")
	flags.StringVar(&opts.SecretKey, "secret-key", "", "AWS secret access key (auth-method=access-key)")
	flags.StringVar(&opts.SessionToken, "session-token", "", "AWS session token (auth-method=access-key)")
	flags.StringVar(&opts.Profile, "profile", "", "Shared config profile name (auth-method=profile)")
	flags.StringVar(&opts.SSOStartURL, "sso-start-url", "", "SSO start URL (auth-method=sso)")
	flags.StringVar(&opts.SSORegion, "sso-region", "", "SSO region (auth-method=sso)")
	flags.StringVar(&opts.SSOAccountID, "sso-account-id", "", "SSO account ID (auth-method=sso)")
	flags.StringVar(&opts.SSORoleName, "sso-role-name", "", "SSO role name (auth-method=sso)")
	flags.StringVar(&opts.RoleARN, "role-arn", "", "IAM role to assume (auth-method=role)")
	flags.StringVar(&opts.RoleSessionName, "role-session-name", "", "Session name for role assumption")
	flags.StringVar(&opts.ExternalID, "external-id", "", "External ID for role assumption")
	flags.StringVar(&opts.MFASerial, "mfa-serial", "", "MFA device serial for role assumption")
	flags.StringVar(&opts.MFAToken, "mfa-token", "", "Current MFA token code")

	rootCmd.AddCommand(
		commands.NewUploadCommand(opts),
		commands.NewListCommand(opts),
		commands.NewGetCommand(opts),
		commands.NewDeleteCommand(opts),
		commands.NewListProfilesCommand(opts),
		commands.NewCompletionCommand(opts),
	)

	return rootCmd.Execute()
}
