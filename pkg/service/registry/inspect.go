package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrTypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	dockerTypes "github.com/docker/docker/api/types"
)

type DistributionManifest struct {
	SchemaVersion int    `json:"schemaVersion"`
	MediaType     string `json:"mediaType"`
	Config        struct {
		MediaType string `json:"mediaType"`
		Size      int    `json:"size"`
		Digest    string `json:"digest"`
	} `json:"config"`
}

func ByTag(tag string) ecrTypes.ImageIdentifier {
	return ecrTypes.ImageIdentifier{ImageTag: aws.String(tag)}
}

func ByDigest(digest string) ecrTypes.ImageIdentifier {
	if !strings.HasPrefix(digest, "sha256:") {
		digest = "sha256:" + digest
	}
	return ecrTypes.ImageIdentifier{ImageDigest: aws.String(digest)}
}

func describe(id ecrTypes.ImageIdentifier) string {
	if id.ImageTag != nil {
		return "tag " + *id.ImageTag
	}
	return "digest " + aws.ToString(id.ImageDigest)
}

func (s Service) image(ctx context.Context, registryId, repository string, id ecrTypes.ImageIdentifier) (ecrTypes.Image, error) {
	output, err := s.Client.Ecr.BatchGetImage(ctx, &ecr.BatchGetImageInput{
		RegistryId:         aws.String(registryId),
		RepositoryName:     aws.String(repository),
		ImageIds:           []ecrTypes.ImageIdentifier{id},
		AcceptedMediaTypes: []string{"application/vnd.docker.distribution.manifest.v2+json", "application/vnd.oci.image.manifest.v1+json"},
	})

	if err != nil {
		return ecrTypes.Image{}, err
	}

	if len(output.Images) == 0 {
		return ecrTypes.Image{}, fmt.Errorf("no release found in %s for %s", repository, describe(id))
	}

	return output.Images[0], nil
}

// Digest resolves an image reference to the digest the registry stored for it.
func (s Service) Digest(ctx context.Context, registryId, repository string, id ecrTypes.ImageIdentifier) (string, error) {
	image, err := s.image(ctx, registryId, repository, id)
	if err != nil {
		return "", err
	}

	return aws.ToString(image.ImageId.ImageDigest), nil
}

// Inspect reads the image config blob from the registry, which carries the labels
// launch stamped at build time.
func (s Service) Inspect(ctx context.Context, registryId, repository string, id ecrTypes.ImageIdentifier) (dockerTypes.ImageInspect, error) {
	var distributionManifest DistributionManifest
	var inspect dockerTypes.ImageInspect

	image, err := s.image(ctx, registryId, repository, id)
	if err != nil {
		return inspect, err
	}

	if err := json.Unmarshal([]byte(aws.ToString(image.ImageManifest)), &distributionManifest); err != nil {
		return inspect, err
	}

	layer, err := s.Client.Ecr.GetDownloadUrlForLayer(ctx, &ecr.GetDownloadUrlForLayerInput{
		RegistryId:     aws.String(registryId),
		RepositoryName: aws.String(repository),
		LayerDigest:    aws.String(distributionManifest.Config.Digest),
	})
	if err != nil {
		return inspect, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, aws.ToString(layer.DownloadUrl), nil)
	if err != nil {
		return inspect, err
	}

	resp, err := s.Client.Http.Do(req)
	if err != nil {
		return inspect, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return inspect, fmt.Errorf("fetching image config for %s: %s", describe(id), resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return inspect, err
	}

	if err := json.Unmarshal(body, &inspect); err != nil {
		return inspect, err
	}

	inspect.ID = aws.ToString(image.ImageId.ImageDigest)
	return inspect, nil
}
