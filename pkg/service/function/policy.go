package function

import (
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// PutPolicy creates the managed policy or publishes document as its new default version.
func (s Service) PutPolicy(ctx context.Context, arn, document string, tags map[string]string) (*types.Policy, error) {
	_, err := s.Client.Iam.CreatePolicy(ctx, &iam.CreatePolicyInput{
		PolicyName:     aws.String(path.Base(arn)),
		PolicyDocument: aws.String(document),
		Tags:           iamTags(tags),
	})

	if isAlreadyExists(err) {
		err = s.updatePolicy(ctx, arn, document, tags)
	}

	if err != nil {
		return nil, err
	}

	output, err := s.Client.Iam.GetPolicy(ctx, &iam.GetPolicyInput{
		PolicyArn: aws.String(arn),
	})
	if err != nil {
		return nil, err
	}

	return output.Policy, nil
}

func (s Service) updatePolicy(ctx context.Context, arn, document string, tags map[string]string) error {
	if err := s.prunePolicyVersions(ctx, arn); err != nil {
		return err
	}

	_, err := s.Client.Iam.CreatePolicyVersion(ctx, &iam.CreatePolicyVersionInput{
		PolicyArn:      aws.String(arn),
		PolicyDocument: aws.String(document),
		SetAsDefault:   true,
	})
	if err != nil {
		return err
	}

	_, err = s.Client.Iam.TagPolicy(ctx, &iam.TagPolicyInput{
		PolicyArn: aws.String(arn),
		Tags:      iamTags(tags),
	})
	return err
}

// prunePolicyVersions drops non-default versions; IAM keeps at most five per policy.
func (s Service) prunePolicyVersions(ctx context.Context, arn string) error {
	listed, err := s.Client.Iam.ListPolicyVersions(ctx, &iam.ListPolicyVersionsInput{
		PolicyArn: aws.String(arn),
	})

	if isNoSuchEntity(err) {
		return nil
	}

	if err != nil {
		return err
	}

	for _, version := range listed.Versions {
		if version.IsDefaultVersion {
			continue
		}

		_, err := s.Client.Iam.DeletePolicyVersion(ctx, &iam.DeletePolicyVersionInput{
			PolicyArn: aws.String(arn),
			VersionId: version.VersionId,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// DeletePolicy is a no-op for policies that do not exist. The policy must already be detached.
func (s Service) DeletePolicy(ctx context.Context, arn string) error {
	if err := s.prunePolicyVersions(ctx, arn); err != nil {
		return err
	}

	_, err := s.Client.Iam.DeletePolicy(ctx, &iam.DeletePolicyInput{
		PolicyArn: aws.String(arn),
	})

	if isNoSuchEntity(err) {
		return nil
	}

	return err
}
