package util

import (
	"os"
	"regexp"
	"strings"

	"github.com/aws/smithy-go/logging"
	"github.com/rs/zerolog"
)

var shaPattern = regexp.MustCompile(`^[a-f0-9]{40}$`)

func DeSlasher(str string) string {
	dashes := strings.Replace(str, "/", "-", -1)
	dashes = strings.TrimSuffix(dashes, "-")
	dashes = strings.TrimPrefix(dashes, "-")
	return dashes
}

func ShaLike(str string) bool {
	return shaPattern.MatchString(str)
}

func RoleArnFromName(accountId, name string) string {
	return "arn:aws:iam::" + accountId + ":role/" + name
}

func PolicyArnFromName(accountId, name string) string {
	return "arn:aws:iam::" + accountId + ":policy/" + name
}

// For view layer only
func UnsafeSlice(s string, start, end int) string {
	if s == "" {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	if start > len(s) {
		return ""
	}
	return s[start:end]
}

func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func InLambda() bool {
	_, inLambda := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")
	return inLambda
}

func OtelConfigPresent() bool {
	_, present := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return present
}

func SetLogLevel() {
	level, exists := os.LookupEnv("LOG_LEVEL")
	if !exists {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		return
	}

	switch strings.ToLower(level) {
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// RetryLogger wraps a zerolog.Logger so the AWS SDK can log retries through it.
type RetryLogger struct {
	Log *zerolog.Logger
}

func (l *RetryLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	switch classification {
	case logging.Warn:
		l.Log.Warn().Msgf(format, v...)
	case logging.Debug:
		if strings.Contains(format, "retrying request") {
			l.Log.Info().Msgf(format, v...)
		} else {
			l.Log.Debug().Msgf(format, v...)
		}
	default:
		l.Log.Error().Msgf(format, v...)
	}
}
