package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/logging"
)

// Defaults applied by NewResolver.
const (
	DefaultRegion      = "us-east-1"
	DefaultKMSKeyAlias = "alias/aws/ssm"
)

// STSAPI is the subset of the STS client used for role assumption.
// This allows for mocking in tests.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// SSOAPI is the subset of the SSO client used for the token exchange.
type SSOAPI interface {
	GetRoleCredentials(ctx context.Context, params *sso.GetRoleCredentialsInput, optFns ...func(*sso.Options)) (*sso.GetRoleCredentialsOutput, error)
}

// ProbeAPI is the subset of the SSM client used by ConnectionCheck.
type ProbeAPI interface {
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
}

// Resolver holds the active credential strategy and lazily materializes
// an aws.Config from it. The materialized session is memoized until the
// method or region changes; it is never refreshed on expiry.
type Resolver struct {
	method      Method
	region      string
	kmsKeyAlias string
	logger      *logging.Logger

	cached *aws.Config

	newSTS       func(aws.Config) STSAPI
	newSSO       func(aws.Config) SSOAPI
	newProbe     func(aws.Config) ProbeAPI
	ssoCachePath string
}

// Option is a functional option for configuring a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithSTSClientFactory sets a custom STS client factory (for testing).
func WithSTSClientFactory(f func(aws.Config) STSAPI) Option {
	return func(r *Resolver) { r.newSTS = f }
}

// WithSSOClientFactory sets a custom SSO client factory (for testing).
func WithSSOClientFactory(f func(aws.Config) SSOAPI) Option {
	return func(r *Resolver) { r.newSSO = f }
}

// WithProbeFactory sets a custom connection-check client factory (for testing).
func WithProbeFactory(f func(aws.Config) ProbeAPI) Option {
	return func(r *Resolver) { r.newProbe = f }
}

// WithSSOCachePath overrides the AWS CLI SSO token cache directory.
func WithSSOCachePath(path string) Option {
	return func(r *Resolver) { r.ssoCachePath = path }
}

// NewResolver creates a resolver using the default credential chain in
// us-east-1 until reconfigured.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		method:      DefaultChain{},
		region:      DefaultRegion,
		kmsKeyAlias: DefaultKMSKeyAlias,
		logger:      logging.New(false, false),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.newSTS == nil {
		r.newSTS = func(cfg aws.Config) STSAPI { return sts.NewFromConfig(cfg) }
	}
	if r.newSSO == nil {
		r.newSSO = func(cfg aws.Config) SSOAPI { return sso.NewFromConfig(cfg) }
	}
	if r.newProbe == nil {
		r.newProbe = func(cfg aws.Config) ProbeAPI { return ssm.NewFromConfig(cfg) }
	}

	return r
}

// SetMethod switches the active credential strategy and invalidates any
// memoized session.
func (r *Resolver) SetMethod(m Method) {
	r.method = m
	r.cached = nil
}

// SetRegion changes the target region and invalidates any memoized session.
func (r *Resolver) SetRegion(region string) {
	if region == "" {
		region = DefaultRegion
	}
	r.region = region
	r.cached = nil
}

// SetKMSKeyAlias sets the default encryption key reference attached to
// SecureString writes that don't specify their own.
func (r *Resolver) SetKMSKeyAlias(alias string) {
	r.kmsKeyAlias = alias
}

// Method returns the active credential strategy.
func (r *Resolver) Method() Method { return r.method }

// Region returns the target region.
func (r *Resolver) Region() string { return r.region }

// KMSKeyAlias returns the default encryption key reference.
func (r *Resolver) KMSKeyAlias() string { return r.kmsKeyAlias }

// IsConfigured reports whether the fields required by the active method
// are present. It performs no network validation.
func (r *Resolver) IsConfigured() bool {
	return r.method.configured()
}

// Session returns the memoized session if one exists, otherwise derives
// one from the active method. On failure the memo is cleared and an
// AuthError is returned.
func (r *Resolver) Session(ctx context.Context) (aws.Config, error) {
	if r.cached != nil {
		return *r.cached, nil
	}

	cfg, err := r.buildSession(ctx)
	if err != nil {
		r.cached = nil
		return aws.Config{}, err
	}

	r.cached = &cfg
	return cfg, nil
}

func (r *Resolver) buildSession(ctx context.Context) (aws.Config, error) {
	r.logger.Debug("Building session using %s method in %s", r.method, r.region)

	switch m := r.method.(type) {
	case AccessKey:
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(r.region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(m.KeyID, m.Secret, m.SessionToken),
			),
		)
		if err != nil {
			return aws.Config{}, pserrors.AuthError{
				Method:  m.String(),
				Message: "failed to build session from static credentials",
				Err:     err,
			}
		}
		return cfg, nil

	case Profile:
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(r.region),
			awsconfig.WithSharedConfigProfile(m.Name),
		)
		if err != nil {
			return aws.Config{}, pserrors.AuthError{
				Method:     m.String(),
				Message:    fmt.Sprintf("failed to resolve profile '%s'", m.Name),
				Suggestion: "Run 'paramstore list-profiles' to see configured profiles",
				Err:        err,
			}
		}
		return cfg, nil

	case SSO:
		return r.ssoSession(ctx, m)

	case AssumeRole:
		return r.assumeRoleSession(ctx, m)

	case Environment, DefaultChain:
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r.region))
		if err != nil {
			return aws.Config{}, pserrors.AuthError{
				Method:     r.method.String(),
				Message:    "failed to load AWS configuration",
				Suggestion: "Check AWS_* environment variables and shared config files",
				Err:        err,
			}
		}
		return cfg, nil

	default:
		return aws.Config{}, pserrors.AuthError{
			Method:  r.method.String(),
			Message: "unsupported authentication method",
		}
	}
}

// assumeRoleSession assumes the configured role eagerly and builds a
// session from the returned temporary credentials.
func (r *Resolver) assumeRoleSession(ctx context.Context, m AssumeRole) (aws.Config, error) {
	base, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r.region))
	if err != nil {
		return aws.Config{}, pserrors.AuthError{
			Method:  m.String(),
			Message: "failed to load base credentials for role assumption",
			Err:     err,
		}
	}

	sessionName := m.SessionName
	if sessionName == "" {
		sessionName = fmt.Sprintf("paramstore-%d", os.Getpid())
	}

	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(m.RoleARN),
		RoleSessionName: aws.String(sessionName),
	}
	if m.ExternalID != "" {
		input.ExternalId = aws.String(m.ExternalID)
	}
	if m.MFASerial != "" && m.MFAToken != "" {
		input.SerialNumber = aws.String(m.MFASerial)
		input.TokenCode = aws.String(m.MFAToken)
	}

	r.logger.Debug("Assuming role %s as %s", logging.Secret(m.RoleARN), sessionName)

	result, err := r.newSTS(base).AssumeRole(ctx, input)
	if err != nil {
		return aws.Config{}, pserrors.AuthError{
			Method:     m.String(),
			Message:    "role assumption rejected",
			Suggestion: stsErrorSuggestion(err),
			Err:        err,
		}
	}

	creds := result.Credentials
	cfg := base.Copy()
	cfg.Region = r.region
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		aws.ToString(creds.AccessKeyId),
		aws.ToString(creds.SecretAccessKey),
		aws.ToString(creds.SessionToken),
	)
	return cfg, nil
}

// ConnectionCheck issues one cheap read-only call to confirm the session
// is usable. Any failure reports false, never an error.
func (r *Resolver) ConnectionCheck(ctx context.Context, cfg aws.Config) bool {
	_, err := r.newProbe(cfg).DescribeParameters(ctx, &ssm.DescribeParametersInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		r.logger.Debug("Connection check failed: %v", err)
		return false
	}
	return true
}

// AuthInfo returns a redacted summary of the active configuration,
// suitable for printing after a successful connection.
func (r *Resolver) AuthInfo() map[string]string {
	info := map[string]string{
		"method": r.method.String(),
		"region": r.region,
	}

	switch m := r.method.(type) {
	case AccessKey:
		if len(m.KeyID) > 8 {
			info["access_key_id"] = m.KeyID[:8] + "..."
		} else {
			info["access_key_id"] = m.KeyID
		}
		info["has_session_token"] = fmt.Sprintf("%t", m.SessionToken != "")
	case Profile:
		info["profile"] = m.Name
	case SSO:
		info["sso_start_url"] = m.StartURL
		info["sso_account_id"] = m.AccountID
		info["sso_role_name"] = m.RoleName
	case AssumeRole:
		info["role_arn"] = m.RoleARN
		if m.SessionName != "" {
			info["role_session_name"] = m.SessionName
		}
	}

	return info
}

// stsErrorSuggestion provides helpful suggestions based on STS errors
func stsErrorSuggestion(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "AccessDenied"):
		return "Check that you have permission to assume the role and the trust policy allows your principal"
	case strings.Contains(errStr, "InvalidParameterValue"):
		return "Check the role ARN format and external ID if provided"
	case strings.Contains(errStr, "TokenRefreshRequired"), strings.Contains(errStr, "invalid MFA"):
		return "MFA token has expired or is invalid. Provide a new token code"
	case strings.Contains(errStr, "RegionDisabled"):
		return "The specified region is disabled for your account"
	default:
		return "Check AWS credentials, role ARN, and IAM permissions"
	}
}
