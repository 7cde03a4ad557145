package store_test

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

// fakeParam is the remote-side record held by the fake client.
type fakeParam struct {
	value   string
	kind    types.ParameterType
	tier    types.ParameterTier
	keyID   string
	version int64
}

// fakeSSMClient is an in-memory stand-in for the Parameter Store API.
// Func fields allow per-test overrides; call counters support
// interaction assertions.
type fakeSSMClient struct {
	params map[string]*fakeParam
	order  []string

	getCalls      int
	describeCalls int
	batchCalls    int
	putCalls      int
	deleteCalls   int

	putInputs []*ssm.PutParameterInput

	GetParameterFunc  func(params *ssm.GetParameterInput) (*ssm.GetParameterOutput, error)
	GetParametersFunc func(params *ssm.GetParametersInput) (*ssm.GetParametersOutput, error)
	PutParameterFunc  func(params *ssm.PutParameterInput) (*ssm.PutParameterOutput, error)
}

func newFakeSSMClient() *fakeSSMClient {
	return &fakeSSMClient{
		params: make(map[string]*fakeParam),
	}
}

func (f *fakeSSMClient) add(name, value string, kind types.ParameterType) {
	f.params[name] = &fakeParam{
		value:   value,
		kind:    kind,
		tier:    types.ParameterTierStandard,
		version: 1,
	}
	f.order = append(f.order, name)
}

func notFoundErr(name string) error {
	return &smithy.GenericAPIError{
		Code:    "ParameterNotFound",
		Message: fmt.Sprintf("parameter %s not found", name),
	}
}

func (f *fakeSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.getCalls++
	if f.GetParameterFunc != nil {
		return f.GetParameterFunc(params)
	}

	name := aws.ToString(params.Name)
	p, ok := f.params[name]
	if !ok {
		return nil, notFoundErr(name)
	}

	now := time.Now()
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{
			Name:             aws.String(name),
			Value:            aws.String(p.value),
			Type:             p.kind,
			Version:          p.version,
			LastModifiedDate: &now,
		},
	}, nil
}

func (f *fakeSSMClient) DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error) {
	f.describeCalls++

	// Point lookup by name filter.
	if len(params.ParameterFilters) > 0 {
		var metas []types.ParameterMetadata
		for _, name := range params.ParameterFilters[0].Values {
			if p, ok := f.params[name]; ok {
				metas = append(metas, f.metadata(name, p))
			}
		}
		return &ssm.DescribeParametersOutput{Parameters: metas}, nil
	}

	// Paged full listing.
	start := 0
	if params.NextToken != nil {
		start, _ = strconv.Atoi(aws.ToString(params.NextToken))
	}
	pageSize := int(aws.ToInt32(params.MaxResults))
	if pageSize <= 0 {
		pageSize = 50
	}

	end := min(start+pageSize, len(f.order))
	metas := make([]types.ParameterMetadata, 0, end-start)
	for _, name := range f.order[start:end] {
		metas = append(metas, f.metadata(name, f.params[name]))
	}

	out := &ssm.DescribeParametersOutput{Parameters: metas}
	if end < len(f.order) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeSSMClient) metadata(name string, p *fakeParam) types.ParameterMetadata {
	now := time.Now()
	meta := types.ParameterMetadata{
		Name:             aws.String(name),
		Type:             p.kind,
		Tier:             p.tier,
		LastModifiedDate: &now,
	}
	if p.keyID != "" {
		meta.KeyId = aws.String(p.keyID)
	}
	return meta
}

func (f *fakeSSMClient) GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.batchCalls++
	if f.GetParametersFunc != nil {
		return f.GetParametersFunc(params)
	}

	out := &ssm.GetParametersOutput{}
	for _, name := range params.Names {
		p, ok := f.params[name]
		if !ok {
			out.InvalidParameters = append(out.InvalidParameters, name)
			continue
		}
		out.Parameters = append(out.Parameters, types.Parameter{
			Name:    aws.String(name),
			Value:   aws.String(p.value),
			Type:    p.kind,
			Version: p.version,
		})
	}
	return out, nil
}

func (f *fakeSSMClient) PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.putCalls++
	f.putInputs = append(f.putInputs, params)
	if f.PutParameterFunc != nil {
		return f.PutParameterFunc(params)
	}

	name := aws.ToString(params.Name)
	existing, ok := f.params[name]
	if ok && !aws.ToBool(params.Overwrite) {
		return nil, &smithy.GenericAPIError{
			Code:    "ParameterAlreadyExists",
			Message: fmt.Sprintf("parameter %s already exists", name),
		}
	}

	version := int64(1)
	if ok {
		version = existing.version + 1
	} else {
		f.order = append(f.order, name)
	}

	f.params[name] = &fakeParam{
		value:   aws.ToString(params.Value),
		kind:    params.Type,
		tier:    params.Tier,
		keyID:   aws.ToString(params.KeyId),
		version: version,
	}
	return &ssm.PutParameterOutput{Version: version}, nil
}

func (f *fakeSSMClient) DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	f.deleteCalls++

	name := aws.ToString(params.Name)
	if _, ok := f.params[name]; !ok {
		return nil, notFoundErr(name)
	}

	delete(f.params, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return &ssm.DeleteParameterOutput{}, nil
}
