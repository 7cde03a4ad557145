// Package config loads the optional paramstore.yaml file that seeds
// authentication and store defaults before flags are applied.
package config

import (
	"os"

	"github.com/systmms/paramstore/internal/auth"
	pserrors "github.com/systmms/paramstore/internal/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "paramstore.yaml"

// File is the paramstore.yaml structure. Every field is optional;
// flags override anything set here.
type File struct {
	Region     string `yaml:"region"`
	KMSKey     string `yaml:"kms_key"`
	AuthMethod string `yaml:"auth_method"`

	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`

	Profile string `yaml:"profile"`

	SSOStartURL  string `yaml:"sso_start_url"`
	SSORegion    string `yaml:"sso_region"`
	SSOAccountID string `yaml:"sso_account_id"`
	SSORoleName  string `yaml:"sso_role_name"`

	RoleARN         string `yaml:"role_arn"`
	RoleSessionName string `yaml:"role_session_name"`
	ExternalID      string `yaml:"external_id"`
	MFASerial       string `yaml:"mfa_serial"`
}

// Load reads the file at path. A missing file is not an error when the
// path is the default; an explicitly requested file must exist.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return &File{}, nil
			}
			return nil, pserrors.ConfigError{
				Field:      "config",
				Value:      path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config path, or omit it to run on flags alone",
			}
		}
		return nil, pserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, pserrors.ConfigError{
			Field:      "config",
			Value:      path,
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	return &f, nil
}

// ToMethod maps the file's auth settings to a credential method. An
// empty auth_method falls through to the default chain. Unknown values
// are a configuration error.
func (f *File) ToMethod() (auth.Method, error) {
	switch f.AuthMethod {
	case "", "default":
		return auth.DefaultChain{}, nil
	case "environment":
		return auth.Environment{}, nil
	case "access-key":
		return auth.AccessKey{
			KeyID:        f.AccessKeyID,
			Secret:       f.SecretAccessKey,
			SessionToken: f.SessionToken,
		}, nil
	case "profile":
		return auth.Profile{Name: f.Profile}, nil
	case "sso":
		return auth.SSO{
			StartURL:  f.SSOStartURL,
			Region:    f.SSORegion,
			AccountID: f.SSOAccountID,
			RoleName:  f.SSORoleName,
		}, nil
	case "role":
		return auth.AssumeRole{
			RoleARN:     f.RoleARN,
			SessionName: f.RoleSessionName,
			ExternalID:  f.ExternalID,
			MFASerial:   f.MFASerial,
		}, nil
	default:
		return nil, pserrors.ConfigError{
			Field:      "auth_method",
			Value:      f.AuthMethod,
			Message:    "unknown authentication method",
			Suggestion: "Use one of: access-key, profile, sso, role, environment, default",
		}
	}
}
