package sigv4

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRequest(t *testing.T) {
	s := Service{
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		Region:      "us-west-2",
		Now:         func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}

	req, err := http.NewRequest(http.MethodPost, "https://abc123.lambda-url.us-west-2.on.aws/hello", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)

	require.NoError(t, s.SignRequest(context.Background(), req, FunctionUrl))

	auth := req.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20240601/us-west-2/lambda/aws4_request"), auth)
	assert.Equal(t, "20240601T120000Z", req.Header.Get("X-Amz-Date"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body), "body must survive signing")
}

func TestFromConfig(t *testing.T) {
	s := FromConfig(aws.Config{Region: "eu-west-1"})
	assert.Equal(t, "eu-west-1", s.Region)
	assert.NotNil(t, s.Now)
}
