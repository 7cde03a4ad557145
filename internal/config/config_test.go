package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/paramstore/internal/auth"
	"github.com/systmms/paramstore/internal/config"
	pserrors "github.com/systmms/paramstore/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paramstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMissingDefaultIsEmpty(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })

	f, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, &config.File{}, f)
}

func TestLoadMissingExplicitFails(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var cfgErr pserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config", cfgErr.Field)
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "region: [unclosed\n")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestLoadAndToMethod(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
region: eu-central-1
kms_key: alias/team-key
auth_method: role
role_arn: arn:aws:iam::123456789012:role/deployer
external_id: corp-1234
`)

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", f.Region)
	assert.Equal(t, "alias/team-key", f.KMSKey)

	m, err := f.ToMethod()
	require.NoError(t, err)
	role, ok := m.(auth.AssumeRole)
	require.True(t, ok)
	assert.Equal(t, "arn:aws:iam::123456789012:role/deployer", role.RoleARN)
	assert.Equal(t, "corp-1234", role.ExternalID)
}

func TestToMethodVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file config.File
		want auth.Method
	}{
		{"empty defaults to chain", config.File{}, auth.DefaultChain{}},
		{"default", config.File{AuthMethod: "default"}, auth.DefaultChain{}},
		{"environment", config.File{AuthMethod: "environment"}, auth.Environment{}},
		{
			"access-key",
			config.File{AuthMethod: "access-key", AccessKeyID: "AKIA", SecretAccessKey: "s3cret"},
			auth.AccessKey{KeyID: "AKIA", Secret: "s3cret"},
		},
		{
			"profile",
			config.File{AuthMethod: "profile", Profile: "staging"},
			auth.Profile{Name: "staging"},
		},
		{
			"sso",
			config.File{
				AuthMethod: "sso", SSOStartURL: "https://corp.awsapps.com/start",
				SSORegion: "us-west-2", SSOAccountID: "123456789012", SSORoleName: "Admin",
			},
			auth.SSO{
				StartURL: "https://corp.awsapps.com/start", Region: "us-west-2",
				AccountID: "123456789012", RoleName: "Admin",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := tt.file.ToMethod()
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestToMethodUnknown(t *testing.T) {
	t.Parallel()

	f := config.File{AuthMethod: "kerberos"}
	_, err := f.ToMethod()
	require.Error(t, err)

	var cfgErr pserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "auth_method", cfgErr.Field)
}
