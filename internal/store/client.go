package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/logging"
)

// SSMAPI defines the Parameter Store operations the client depends on.
// This allows for mocking in tests.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
}

const (
	// describePageSize bounds each metadata listing page.
	describePageSize = 50
	// valueBatchSize is the GetParameters per-call limit.
	valueBatchSize = 10
)

// Client wraps a session to perform parameter CRUD and reconciliation.
// It borrows the session and owns an in-memory snapshot of the last
// listing. Not safe for concurrent use; callers run at most one
// operation at a time per client.
type Client struct {
	api         SSMAPI
	logger      *logging.Logger
	kmsKeyAlias string
	cache       map[string]Parameter
	retry       retryPolicy
}

// ClientOption is a functional option for configuring the client.
type ClientOption func(*Client)

// WithSSMClient sets a custom SSM client (for testing).
func WithSSMClient(api SSMAPI) ClientOption {
	return func(c *Client) { c.api = api }
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithKMSKeyAlias sets the default encryption key attached to
// SecureString writes that don't carry their own.
func WithKMSKeyAlias(alias string) ClientOption {
	return func(c *Client) { c.kmsKeyAlias = alias }
}

// NewClient creates a client from an authenticated session.
func NewClient(cfg aws.Config, opts ...ClientOption) *Client {
	c := &Client{
		logger: logging.New(false, false),
		cache:  make(map[string]Parameter),
		retry:  defaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.api == nil {
		c.api = ssm.NewFromConfig(cfg)
	}

	return c
}

// Exists performs a decrypting point read plus a metadata lookup.
// It returns (false, nil, nil) only when the store reports the name as
// not found; any other failure is an error, so callers never conflate
// absence with failure.
func (c *Client) Exists(ctx context.Context, name string) (bool, *Parameter, error) {
	var getOut *ssm.GetParameterOutput
	err := c.retry.do(ctx, func() error {
		var err error
		getOut, err = c.api.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		return err
	})
	if err != nil {
		if pserrors.IsNotFound(err) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to get parameter %s: %w", name, err)
	}

	p := Parameter{
		Name:    aws.ToString(getOut.Parameter.Name),
		Value:   aws.ToString(getOut.Parameter.Value),
		Kind:    Kind(getOut.Parameter.Type),
		Tier:    TierStandard,
		Version: getOut.Parameter.Version,
	}
	if getOut.Parameter.LastModifiedDate != nil {
		p.LastModified = *getOut.Parameter.LastModifiedDate
	}

	descOut, err := c.api.DescribeParameters(ctx, &ssm.DescribeParametersInput{
		ParameterFilters: []types.ParameterStringFilter{
			{
				Key:    aws.String("Name"),
				Values: []string{name},
			},
		},
	})
	if err != nil {
		return false, nil, fmt.Errorf("failed to describe parameter %s: %w", name, err)
	}
	if len(descOut.Parameters) > 0 {
		meta := descOut.Parameters[0]
		if meta.Tier != "" {
			p.Tier = Tier(meta.Tier)
		}
		p.KeyID = aws.ToString(meta.KeyId)
		p.Description = aws.ToString(meta.Description)
		if meta.LastModifiedDate != nil {
			p.LastModified = *meta.LastModifiedDate
		}
	}

	return true, &p, nil
}

// Get returns a single parameter, or ErrParameterNotFound when absent.
func (c *Client) Get(ctx context.Context, name string) (*Parameter, error) {
	found, p, err := c.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("parameter %s: %w", name, pserrors.ErrParameterNotFound)
	}
	return p, nil
}

// Put writes one parameter. For SecureString the configured default key
// alias is attached when the parameter carries none; if neither is set
// the store's account default key applies. With overwrite=false a write
// against an existing name fails with ErrParameterExists.
func (c *Client) Put(ctx context.Context, p Parameter, overwrite bool) error {
	input := &ssm.PutParameterInput{
		Name:      aws.String(p.Name),
		Value:     aws.String(p.Value),
		Type:      types.ParameterType(p.Kind),
		Tier:      types.ParameterTier(p.Tier),
		Overwrite: aws.Bool(overwrite),
	}
	if p.Kind == KindSecureString {
		keyID := p.KeyID
		if keyID == "" {
			keyID = c.kmsKeyAlias
		}
		if keyID != "" {
			input.KeyId = aws.String(keyID)
		}
	}
	if p.Description != "" {
		input.Description = aws.String(p.Description)
	}

	err := c.retry.do(ctx, func() error {
		_, err := c.api.PutParameter(ctx, input)
		return err
	})
	if err != nil {
		if pserrors.IsAlreadyExists(err) {
			return fmt.Errorf("parameter %s: %w", p.Name, pserrors.ErrParameterExists)
		}
		return fmt.Errorf("failed to put parameter %s: %w", p.Name, err)
	}

	delete(c.cache, p.Name)
	return nil
}

// Delete removes one parameter. Deleting a nonexistent name surfaces the
// store's not-found error unchanged.
func (c *Client) Delete(ctx context.Context, name string) error {
	err := c.retry.do(ctx, func() error {
		_, err := c.api.DeleteParameter(ctx, &ssm.DeleteParameterInput{
			Name: aws.String(name),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete parameter %s: %w", name, err)
	}

	delete(c.cache, name)
	return nil
}

// ListAll scans the whole store: metadata pages of up to 50 names, then
// value fetches in batches of at most 10, because listing and value
// retrieval are separate calls. A failed value batch leaves its records
// flagged with ValueUnavailable rather than aborting the scan. The
// result replaces the in-memory snapshot.
func (c *Client) ListAll(ctx context.Context, decrypt bool) ([]Parameter, error) {
	var all []Parameter
	var nextToken *string

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := c.api.DescribeParameters(ctx, &ssm.DescribeParametersInput{
			MaxResults: aws.Int32(describePageSize),
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list parameters: %w", err)
		}

		metas := out.Parameters
		for i := 0; i < len(metas); i += valueBatchSize {
			end := min(i+valueBatchSize, len(metas))
			batch := metas[i:end]

			names := make([]string, 0, len(batch))
			for _, m := range batch {
				names = append(names, aws.ToString(m.Name))
			}

			values := make(map[string]types.Parameter, len(names))
			vout, err := c.api.GetParameters(ctx, &ssm.GetParametersInput{
				Names:          names,
				WithDecryption: aws.Bool(decrypt),
			})
			if err != nil {
				c.logger.Warn("Failed to fetch values for a batch of %d parameters: %v", len(names), err)
			} else {
				for _, v := range vout.Parameters {
					values[aws.ToString(v.Name)] = v
				}
			}

			for _, meta := range batch {
				name := aws.ToString(meta.Name)
				p := Parameter{
					Name:        name,
					Value:       ValueUnavailable,
					Kind:        Kind(meta.Type),
					Tier:        TierStandard,
					KeyID:       aws.ToString(meta.KeyId),
					Description: aws.ToString(meta.Description),
				}
				if meta.Tier != "" {
					p.Tier = Tier(meta.Tier)
				}
				if meta.LastModifiedDate != nil {
					p.LastModified = *meta.LastModifiedDate
				}
				if v, ok := values[name]; ok {
					p.Value = aws.ToString(v.Value)
					p.Version = v.Version
				}
				all = append(all, p)
			}
		}

		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}

	c.cache = make(map[string]Parameter, len(all))
	for _, p := range all {
		c.cache[p.Name] = p
	}

	return all, nil
}

// Cached returns a copy of the snapshot from the last ListAll, keyed by
// name. Writes and deletes through this client evict their entries.
func (c *Client) Cached() map[string]Parameter {
	snapshot := make(map[string]Parameter, len(c.cache))
	for name, p := range c.cache {
		snapshot[name] = p
	}
	return snapshot
}
