package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

func iamTags(tags map[string]string) []types.Tag {
	var out []types.Tag
	for key, value := range tags {
		out = append(out, types.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return out
}

func isNoSuchEntity(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchEntity"
}

func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityAlreadyExists"
}

// InspectRole returns nil without error when the role does not exist.
func (s Service) InspectRole(ctx context.Context, name string) (*types.Role, error) {
	output, err := s.Client.Iam.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(name),
	})

	if isNoSuchEntity(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return output.Role, nil
}

// PutRole creates the role with the given trust policy, or updates trust and tags in place.
func (s Service) PutRole(ctx context.Context, name, trustDocument string, tags map[string]string) (*types.Role, error) {
	_, err := s.Client.Iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(trustDocument),
		Tags:                     iamTags(tags),
	})

	if isAlreadyExists(err) {
		_, err = s.Client.Iam.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
			RoleName:       aws.String(name),
			PolicyDocument: aws.String(trustDocument),
		})
		if err != nil {
			return nil, err
		}

		_, err = s.Client.Iam.TagRole(ctx, &iam.TagRoleInput{
			RoleName: aws.String(name),
			Tags:     iamTags(tags),
		})
	}

	if err != nil {
		return nil, err
	}

	return s.InspectRole(ctx, name)
}

func (s Service) AttachedPolicies(ctx context.Context, roleName string) ([]types.AttachedPolicy, error) {
	var attached []types.AttachedPolicy

	paginator := iam.NewListAttachedRolePoliciesPaginator(s.Client.Iam, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(roleName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if isNoSuchEntity(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		attached = append(attached, page.AttachedPolicies...)
	}

	return attached, nil
}

func (s Service) AttachPolicyToRole(ctx context.Context, policyArn, roleName string) error {
	_, err := s.Client.Iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		PolicyArn: aws.String(policyArn),
		RoleName:  aws.String(roleName),
	})
	return err
}

// DeleteRole detaches every managed policy before deleting. Missing roles are not an error.
func (s Service) DeleteRole(ctx context.Context, name string) error {
	attached, err := s.AttachedPolicies(ctx, name)
	if err != nil {
		return err
	}

	for _, policy := range attached {
		_, err := s.Client.Iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			PolicyArn: policy.PolicyArn,
			RoleName:  aws.String(name),
		})
		if err != nil && !isNoSuchEntity(err) {
			return err
		}
	}

	_, err = s.Client.Iam.DeleteRole(ctx, &iam.DeleteRoleInput{
		RoleName: aws.String(name),
	})

	if isNoSuchEntity(err) {
		return nil
	}

	return err
}
