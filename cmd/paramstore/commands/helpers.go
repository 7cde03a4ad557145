// Package commands wires the CLI verbs to the auth resolver and the
// parameter store client.
package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/systmms/paramstore/internal/auth"
	"github.com/systmms/paramstore/internal/config"
	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/logging"
	"github.com/systmms/paramstore/internal/store"
)

// Options carries the persistent flag values shared by every command.
// The logger is populated by the root command before any RunE fires.
type Options struct {
	ConfigFile     string
	Debug          bool
	NoColor        bool
	NonInteractive bool

	Region string
	KMSKey string

	AuthMethod   string
	AccessKey    string
	SecretKey    string
	SessionToken string

	Profile string

	SSOStartURL  string
	SSORegion    string
	SSOAccountID string
	SSORoleName  string

	RoleARN         string
	RoleSessionName string
	ExternalID      string
	MFASerial       string
	MFAToken        string

	Logger *logging.Logger

	// Test seams; nil in production.
	resolverOpts []auth.Option
	clientOpts   []store.ClientOption
}

func (o *Options) logger() *logging.Logger {
	if o.Logger == nil {
		o.Logger = logging.New(o.Debug, o.NoColor)
	}
	return o.Logger
}

// methodFromFlags builds a credential method purely from flag values.
func (o *Options) methodFromFlags() (auth.Method, error) {
	switch o.AuthMethod {
	case "default":
		return auth.DefaultChain{}, nil
	case "environment":
		return auth.Environment{}, nil
	case "access-key":
		return auth.AccessKey{
			KeyID:        o.AccessKey,
			Secret:       o.SecretKey,
			SessionToken: o.SessionToken,
		}, nil
	case "profile":
		return auth.Profile{Name: o.Profile}, nil
	case "sso":
		return auth.SSO{
			StartURL:  o.SSOStartURL,
			Region:    o.SSORegion,
			AccountID: o.SSOAccountID,
			RoleName:  o.SSORoleName,
		}, nil
	case "role":
		return auth.AssumeRole{
			RoleARN:     o.RoleARN,
			SessionName: o.RoleSessionName,
			ExternalID:  o.ExternalID,
			MFASerial:   o.MFASerial,
			MFAToken:    o.MFAToken,
		}, nil
	default:
		return nil, pserrors.ConfigError{
			Field:      "auth-method",
			Value:      o.AuthMethod,
			Message:    "unknown authentication method",
			Suggestion: "Use one of: access-key, profile, sso, role, environment, default",
		}
	}
}

// resolver builds a configured auth resolver from the config file and
// flags, flags winning. It performs no network calls.
func (o *Options) resolver() (*auth.Resolver, error) {
	file, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}

	var method auth.Method
	if o.AuthMethod != "" {
		method, err = o.methodFromFlags()
	} else {
		method, err = file.ToMethod()
	}
	if err != nil {
		return nil, err
	}

	region := firstNonEmpty(o.Region, file.Region, auth.DefaultRegion)
	kmsKey := firstNonEmpty(o.KMSKey, file.KMSKey, auth.DefaultKMSKeyAlias)

	opts := append([]auth.Option{auth.WithLogger(o.logger())}, o.resolverOpts...)
	r := auth.NewResolver(opts...)
	r.SetMethod(method)
	r.SetRegion(region)
	r.SetKMSKeyAlias(kmsKey)

	if !r.IsConfigured() {
		return nil, pserrors.AuthError{
			Method:     method.String(),
			Message:    "required credential fields are missing",
			Suggestion: authSuggestion(method),
		}
	}

	return r, nil
}

// connect materializes a session, verifies it with one cheap read-only
// call, and returns a store client bound to it.
func (o *Options) connect(ctx context.Context) (*store.Client, error) {
	r, err := o.resolver()
	if err != nil {
		return nil, err
	}

	cfg, err := r.Session(ctx)
	if err != nil {
		return nil, err
	}

	if !r.ConnectionCheck(ctx, cfg) {
		return nil, pserrors.UserError{
			Message:    "Connected credentials cannot reach Parameter Store",
			Suggestion: "Check the region and that your IAM policy allows ssm:DescribeParameters",
		}
	}

	if o.Debug {
		info := r.AuthInfo()
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.logger().Debug("auth %s=%s", k, info[k])
		}
	}

	clientOpts := append([]store.ClientOption{
		store.WithClientLogger(o.logger()),
		store.WithKMSKeyAlias(r.KMSKeyAlias()),
	}, o.clientOpts...)

	return store.NewClient(cfg, clientOpts...), nil
}

func authSuggestion(m auth.Method) string {
	switch m.(type) {
	case auth.AccessKey:
		return "Provide both --access-key and --secret-key"
	case auth.Profile:
		return "Provide --profile, or run 'paramstore list-profiles' to see configured profiles"
	case auth.SSO:
		return "Provide --sso-start-url, --sso-region, --sso-account-id and --sso-role-name"
	case auth.AssumeRole:
		return "Provide --role-arn"
	default:
		return "Check AWS_* environment variables and shared config files"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// confirm prompts on the command's input stream and accepts y/yes.
func confirm(cmd *cobra.Command, format string, args ...interface{}) bool {
	fmt.Fprintf(cmd.OutOrStdout(), format+" (y/n): ", args...)

	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
		return false
	}
	switch answer {
	case "y", "Y", "yes", "Yes":
		return true
	}
	return false
}
