package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

// PublicUrlStatement is the permission statement that opens a function URL to anonymous callers.
const PublicUrlStatement = "launch-public-url"

func (s Service) InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	output, err := s.Client.Lambda.GetFunctionUrlConfig(ctx, &lambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	})

	if isNotFound(err) {
		return nil, nil
	}

	return output, err
}

// PutUrl ensures the function has an HTTPS endpoint with the given auth type and returns it.
func (s Service) PutUrl(ctx context.Context, name string, authType types.FunctionUrlAuthType) (string, error) {
	var url string

	existing, err := s.InspectUrl(ctx, name)
	if err != nil {
		return "", err
	}

	switch {
	case existing == nil:
		created, err := s.Client.Lambda.CreateFunctionUrlConfig(ctx, &lambda.CreateFunctionUrlConfigInput{
			FunctionName: aws.String(name),
			AuthType:     authType,
		})
		if err != nil {
			return "", err
		}
		url = aws.ToString(created.FunctionUrl)

	case existing.AuthType != authType:
		updated, err := s.Client.Lambda.UpdateFunctionUrlConfig(ctx, &lambda.UpdateFunctionUrlConfigInput{
			FunctionName: aws.String(name),
			AuthType:     authType,
		})
		if err != nil {
			return "", err
		}
		url = aws.ToString(updated.FunctionUrl)

	default:
		url = aws.ToString(existing.FunctionUrl)
	}

	if authType == types.FunctionUrlAuthTypeNone {
		return url, s.allowPublic(ctx, name)
	}

	return url, s.revokePublic(ctx, name)
}

func (s Service) allowPublic(ctx context.Context, name string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName:        aws.String(name),
		StatementId:         aws.String(PublicUrlStatement),
		Action:              aws.String("lambda:InvokeFunctionUrl"),
		Principal:           aws.String("*"),
		FunctionUrlAuthType: types.FunctionUrlAuthTypeNone,
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceConflictException" {
		return nil
	}

	return err
}

func (s Service) revokePublic(ctx context.Context, name string) error {
	_, err := s.Client.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(name),
		StatementId:  aws.String(PublicUrlStatement),
	})

	if isNotFound(err) {
		return nil
	}

	return err
}

func (s Service) DeleteUrl(ctx context.Context, name string) error {
	if err := s.revokePublic(ctx, name); err != nil {
		return err
	}

	_, err := s.Client.Lambda.DeleteFunctionUrlConfig(ctx, &lambda.DeleteFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	})

	if isNotFound(err) {
		return nil
	}

	return err
}
