package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/stretchr/testify/mock"
)

type MockIamClient struct {
	mock.Mock
}

func (c *MockIamClient) GetPolicy(ctx context.Context, params *iam.GetPolicyInput, optFns ...func(*iam.Options)) (*iam.GetPolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.GetPolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) CreatePolicy(ctx context.Context, params *iam.CreatePolicyInput, optFns ...func(*iam.Options)) (*iam.CreatePolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.CreatePolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) DeletePolicy(ctx context.Context, params *iam.DeletePolicyInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.DeletePolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) TagPolicy(ctx context.Context, params *iam.TagPolicyInput, optFns ...func(*iam.Options)) (*iam.TagPolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.TagPolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) ListPolicyVersions(ctx context.Context, params *iam.ListPolicyVersionsInput, optFns ...func(*iam.Options)) (*iam.ListPolicyVersionsOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.ListPolicyVersionsOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) CreatePolicyVersion(ctx context.Context, params *iam.CreatePolicyVersionInput, optFns ...func(*iam.Options)) (*iam.CreatePolicyVersionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.CreatePolicyVersionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) DeletePolicyVersion(ctx context.Context, params *iam.DeletePolicyVersionInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyVersionOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.DeletePolicyVersionOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.CreateRoleOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.GetRoleOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.DeleteRoleOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) UpdateAssumeRolePolicy(ctx context.Context, params *iam.UpdateAssumeRolePolicyInput, optFns ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.UpdateAssumeRolePolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) TagRole(ctx context.Context, params *iam.TagRoleInput, optFns ...func(*iam.Options)) (*iam.TagRoleOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.TagRoleOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.ListAttachedRolePoliciesOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.AttachRolePolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (c *MockIamClient) DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	args := c.Called(ctx, params)
	if out, ok := args.Get(0).(*iam.DetachRolePolicyOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
