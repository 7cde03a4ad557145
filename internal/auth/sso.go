package auth

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	pserrors "github.com/systmms/paramstore/internal/errors"
)

// ssoToken mirrors the AWS CLI token cache entry written by 'aws sso login'.
type ssoToken struct {
	StartURL    string    `json:"startUrl"`
	Region      string    `json:"region"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ssoSession exchanges a cached SSO access token for role credentials.
// This does not perform a login flow: when no valid token exists the user
// must run 'aws sso login' first.
func (r *Resolver) ssoSession(ctx context.Context, m SSO) (aws.Config, error) {
	token, err := r.loadCachedSSOToken(m.StartURL)
	if err != nil {
		return aws.Config{}, pserrors.AuthError{
			Method:     m.String(),
			Message:    "no cached SSO session found",
			Suggestion: "Run 'aws sso login' to authenticate, then retry",
			Err:        err,
		}
	}
	if time.Now().After(token.ExpiresAt) {
		return aws.Config{}, pserrors.AuthError{
			Method:     m.String(),
			Message:    fmt.Sprintf("SSO session expired at %s", token.ExpiresAt.Format(time.RFC3339)),
			Suggestion: "Run 'aws sso login' to re-authenticate",
		}
	}

	// The token exchange happens against the SSO region, which may differ
	// from the region parameters live in.
	base, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(m.Region))
	if err != nil {
		return aws.Config{}, pserrors.AuthError{
			Method:  m.String(),
			Message: "failed to load AWS configuration for SSO",
			Err:     err,
		}
	}

	result, err := r.newSSO(base).GetRoleCredentials(ctx, &sso.GetRoleCredentialsInput{
		AccountId:   aws.String(m.AccountID),
		RoleName:    aws.String(m.RoleName),
		AccessToken: aws.String(token.AccessToken),
	})
	if err != nil {
		return aws.Config{}, pserrors.AuthError{
			Method:     m.String(),
			Message:    "failed to get SSO role credentials",
			Suggestion: "Verify the account ID and role name, and that your SSO session is still valid",
			Err:        err,
		}
	}

	creds := result.RoleCredentials
	cfg := base.Copy()
	cfg.Region = r.region
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		aws.ToString(creds.AccessKeyId),
		aws.ToString(creds.SecretAccessKey),
		aws.ToString(creds.SessionToken),
	)
	return cfg, nil
}

// loadCachedSSOToken reads the AWS CLI token cache. Cache files are named
// by the SHA1 of the start URL.
func (r *Resolver) loadCachedSSOToken(startURL string) (*ssoToken, error) {
	cachePath := r.ssoCachePath
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cachePath = filepath.Join(home, ".aws", "sso", "cache")
	}

	hash := fmt.Sprintf("%x", sha1.Sum([]byte(startURL)))
	data, err := os.ReadFile(filepath.Join(cachePath, hash+".json"))
	if err != nil {
		return nil, err
	}

	var token ssoToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}

	if token.StartURL != "" && token.StartURL != startURL {
		return nil, fmt.Errorf("cached token start URL mismatch")
	}

	return &token, nil
}
