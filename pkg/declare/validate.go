package declare

import (
	"regexp"

	"github.com/pkg/errors"
)

// MaxNameLength leaves room for the project and environment in provider resource names.
const MaxNameLength = 40

var (
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrUnknownKind        = errors.New("unknown kind")
	ErrNotFound           = errors.New("not found")
	ErrNotDeclared        = errors.New("not declared")
	ErrUnsupportedVersion = errors.New("unsupported manifest version")
	ErrEmpty              = errors.New("manifest declares no services")
	ErrOutOfBounds        = errors.New("out of bounds")
)

var namePattern = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)

// ValidateName enforces lowercase alphanumerics and hyphens, starting with a letter.
func ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(ErrInvalidName, "name is empty")
	}

	if len(name) > MaxNameLength {
		return errors.Wrapf(ErrInvalidName, "%s is longer than %d characters", name, MaxNameLength)
	}

	if !namePattern.MatchString(name) {
		return errors.Wrapf(ErrInvalidName, "%s must match %s", name, namePattern.String())
	}

	return nil
}

type bound struct {
	field    string
	value    int32
	min, max int32
}

func validateBounds(s Service) error {
	bounds := []bound{
		{"memory", s.Memory, 128, 10240},
		{"timeout", s.Timeout, 1, 900},
		{"ephemeralStorage", s.EphemeralStorage, 512, 10240},
	}

	for _, b := range bounds {
		if b.value < b.min || b.value > b.max {
			return errors.Wrapf(ErrOutOfBounds, "%s %d not within %d..%d", b.field, b.value, b.min, b.max)
		}
	}

	return nil
}
