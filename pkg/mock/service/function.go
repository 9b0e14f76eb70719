package mock

import (
	"context"

	"github.com/linecard/launch/pkg/convention/config"
	"github.com/linecard/launch/pkg/service/function"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/mock"
)

// MockFunctionService is a mock of the function service used by the lambda conventions.
type MockFunctionService struct {
	mock.Mock
}

func (m *MockFunctionService) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, name)
	if out, ok := args.Get(0).(*lambda.GetFunctionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) PutFunction(ctx context.Context, spec function.FunctionSpec) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, spec)
	if out, ok := args.Get(0).(*lambda.GetFunctionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) DeleteFunction(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockFunctionService) InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := m.Called(ctx, name)
	if out, ok := args.Get(0).(*lambda.GetFunctionUrlConfigOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) PutUrl(ctx context.Context, name string, authType types.FunctionUrlAuthType) (string, error) {
	args := m.Called(ctx, name, authType)
	return args.String(0), args.Error(1)
}

func (m *MockFunctionService) DeleteUrl(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockFunctionService) InspectRole(ctx context.Context, name string) (*iamtypes.Role, error) {
	args := m.Called(ctx, name)
	if out, ok := args.Get(0).(*iamtypes.Role); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) PutRole(ctx context.Context, name, trustDocument string, tags map[string]string) (*iamtypes.Role, error) {
	args := m.Called(ctx, name, trustDocument, tags)
	if out, ok := args.Get(0).(*iamtypes.Role); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) DeleteRole(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockFunctionService) AttachPolicyToRole(ctx context.Context, policyArn, roleName string) error {
	args := m.Called(ctx, policyArn, roleName)
	return args.Error(0)
}

func (m *MockFunctionService) PutPolicy(ctx context.Context, arn, document string, tags map[string]string) (*iamtypes.Policy, error) {
	args := m.Called(ctx, arn, document, tags)
	if out, ok := args.Get(0).(*iamtypes.Policy); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFunctionService) DeletePolicy(ctx context.Context, arn string) error {
	args := m.Called(ctx, arn)
	return args.Error(0)
}

// Mock Responses

func iamTags(tags map[string]string) []iamtypes.Tag {
	var out []iamtypes.Tag
	for k, v := range tags {
		out = append(out, iamtypes.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return out
}

func MockRole(c config.Config, service string, tags map[string]string) *iamtypes.Role {
	return &iamtypes.Role{
		RoleName: aws.String(c.ResourceName(service)),
		Arn:      aws.String(c.RoleArn(service)),
		Tags:     iamTags(tags),
	}
}

func MockPolicy(c config.Config, service string) *iamtypes.Policy {
	return &iamtypes.Policy{
		PolicyName: aws.String(c.ResourceName(service)),
		Arn:        aws.String(c.PolicyArn(service)),
	}
}

func MockFunction(c config.Config, service, digest string, tags map[string]string) *lambda.GetFunctionOutput {
	name := c.ResourceName(service)

	return &lambda.GetFunctionOutput{
		Configuration: &types.FunctionConfiguration{
			FunctionName: aws.String(name),
			FunctionArn:  aws.String("arn:aws:lambda:" + c.Account.Region + ":" + c.Account.Id + ":function:" + name),
			Role:         aws.String(c.RoleArn(service)),
			State:        types.StateActive,
			MemorySize:   aws.Int32(128),
			Timeout:      aws.Int32(3),
			PackageType:  types.PackageTypeImage,
		},
		Code: &types.FunctionCodeLocation{
			ImageUri:         aws.String(c.ImageUri(service, digest)),
			ResolvedImageUri: aws.String(c.ImageUri(service, digest)),
		},
		Tags: tags,
	}
}
