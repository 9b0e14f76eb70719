package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

type FunctionSpec struct {
	Name             string
	RoleArn          string
	ImageUri         string
	MemorySize       int32
	Timeout          int32
	EphemeralStorage int32
	Env              map[string]string
	Tags             map[string]string
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

// Inspect returns nil without error when the function does not exist.
func (s Service) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	output, err := s.Client.Lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})

	if isNotFound(err) {
		return nil, nil
	}

	return output, err
}

// retryOn retries the call while IAM or a previous update is still propagating.
func retryOn(codes ...string) func(*lambda.Options) {
	return func(options *lambda.Options) {
		options.Retryer = retry.AddWithErrorCodes(options.Retryer, codes...)
		options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
	}
}

// PutFunction creates the container function or rolls the existing one onto the new
// image and configuration.
func (s Service) PutFunction(ctx context.Context, spec FunctionSpec) (*lambda.GetFunctionOutput, error) {
	existing, err := s.Inspect(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	environment := &types.Environment{Variables: spec.Env}
	ephemeral := &types.EphemeralStorage{Size: aws.Int32(spec.EphemeralStorage)}

	if existing == nil {
		_, err := s.Client.Lambda.CreateFunction(ctx, &lambda.CreateFunctionInput{
			FunctionName:     aws.String(spec.Name),
			Role:             aws.String(spec.RoleArn),
			Architectures:    []types.Architecture{types.ArchitectureX8664},
			Code:             &types.FunctionCode{ImageUri: aws.String(spec.ImageUri)},
			PackageType:      types.PackageTypeImage,
			EphemeralStorage: ephemeral,
			MemorySize:       aws.Int32(spec.MemorySize),
			Timeout:          aws.Int32(spec.Timeout),
			Environment:      environment,
			Tags:             spec.Tags,
		}, retryOn((*types.InvalidParameterValueException)(nil).ErrorCode()))

		if err != nil {
			return nil, err
		}

		return s.Inspect(ctx, spec.Name)
	}

	_, err = s.Client.Lambda.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName:     aws.String(spec.Name),
		Role:             aws.String(spec.RoleArn),
		MemorySize:       aws.Int32(spec.MemorySize),
		Timeout:          aws.Int32(spec.Timeout),
		EphemeralStorage: ephemeral,
		Environment:      environment,
	}, retryOn((*types.ResourceConflictException)(nil).ErrorCode()))

	if err != nil {
		return nil, err
	}

	_, err = s.Client.Lambda.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(spec.Name),
		ImageUri:     aws.String(spec.ImageUri),
		Publish:      true,
	}, retryOn((*types.ResourceConflictException)(nil).ErrorCode()))

	if err != nil {
		return nil, err
	}

	_, err = s.Client.Lambda.TagResource(ctx, &lambda.TagResourceInput{
		Resource: existing.Configuration.FunctionArn,
		Tags:     spec.Tags,
	})

	if err != nil {
		return nil, err
	}

	return s.Inspect(ctx, spec.Name)
}

// DeleteFunction is a no-op for functions that do not exist.
func (s Service) DeleteFunction(ctx context.Context, name string) error {
	_, err := s.Client.Lambda.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	})

	if isNotFound(err) {
		return nil
	}

	return err
}
