package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// Token returns the docker login password for the registry. The username is always AWS.
func (s Service) Token(ctx context.Context, registryId string) (string, error) {
	output, err := s.Client.Ecr.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{
		RegistryIds: []string{registryId},
	})
	if err != nil {
		return "", err
	}

	if len(output.AuthorizationData) == 0 {
		return "", fmt.Errorf("no authorization data returned for registry %s", registryId)
	}

	data, err := base64.StdEncoding.DecodeString(*output.AuthorizationData[0].AuthorizationToken)
	if err != nil {
		return "", err
	}

	parts := strings.SplitN(string(data), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed authorization token for registry %s", registryId)
	}

	return parts[1], nil
}
