package sigv4

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const (
	// FunctionUrl is the signing name for Lambda function URLs with AWS_IAM auth.
	FunctionUrl = "lambda"
	// ExecuteApi is the signing name for API gateway routes with AWS_IAM auth.
	ExecuteApi = "execute-api"
)

type Service struct {
	Credentials aws.CredentialsProvider
	Region      string
	Now         func() time.Time
}

func FromConfig(awsConfig aws.Config) Service {
	return Service{
		Credentials: awsConfig.Credentials,
		Region:      awsConfig.Region,
		Now:         time.Now,
	}
}

// SignRequest signs request in place for signingName. The body is buffered and restored.
func (s Service) SignRequest(ctx context.Context, request *http.Request, signingName string) error {
	var payload []byte
	var err error

	if request.Body != nil {
		if payload, err = io.ReadAll(request.Body); err != nil {
			return err
		}
		request.Body = io.NopCloser(bytes.NewReader(payload))
	}

	creds, err := s.Credentials.Retrieve(ctx)
	if err != nil {
		return err
	}

	bodyHash := sha256.Sum256(payload)

	return v4.NewSigner().SignHTTP(
		ctx,
		creds,
		request,
		hex.EncodeToString(bodyHash[:]),
		signingName,
		s.Region,
		s.Now(),
	)
}
