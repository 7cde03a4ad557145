// Package auth resolves AWS sessions from one of several mutually
// exclusive credential strategies.
package auth

// Method selects how credentials are obtained. Exactly one method is
// active on a Resolver at a time, and each variant carries only the
// fields that matter for it, so invalid combinations cannot be built.
type Method interface {
	// String returns the CLI-facing method name, e.g. "profile".
	String() string

	// configured reports whether the fields this method requires are
	// non-empty. Environment and DefaultChain have nothing to check;
	// their validity is deferred to session creation.
	configured() bool
}

// AccessKey authenticates with static credentials supplied directly.
type AccessKey struct {
	KeyID        string
	Secret       string
	SessionToken string
}

func (AccessKey) String() string { return "access-key" }

func (m AccessKey) configured() bool { return m.KeyID != "" && m.Secret != "" }

// Profile resolves credentials from a named shared-config profile.
type Profile struct {
	Name string
}

func (Profile) String() string { return "profile" }

func (m Profile) configured() bool { return m.Name != "" }

// SSO exchanges a cached IAM Identity Center token for role credentials.
// The user must already be logged in via 'aws sso login'; no device or
// browser flow is performed here.
type SSO struct {
	StartURL  string
	Region    string
	AccountID string
	RoleName  string
}

func (SSO) String() string { return "sso" }

func (m SSO) configured() bool {
	return m.StartURL != "" && m.Region != "" && m.AccountID != "" && m.RoleName != ""
}

// AssumeRole obtains base credentials from the default chain and assumes
// the given role, optionally with an external ID and MFA.
type AssumeRole struct {
	RoleARN     string
	SessionName string
	ExternalID  string
	MFASerial   string
	MFAToken    string
}

func (AssumeRole) String() string { return "role" }

func (m AssumeRole) configured() bool { return m.RoleARN != "" }

// Environment relies on AWS_* environment variables.
type Environment struct{}

func (Environment) String() string { return "environment" }

func (Environment) configured() bool { return true }

// DefaultChain relies on the full default credential discovery chain
// (env vars, shared config, instance/task metadata).
type DefaultChain struct{}

func (DefaultChain) String() string { return "default" }

func (DefaultChain) configured() bool { return true }
