package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// RepositoryHostEnv overrides the registry host of every image reference
// when set. Used to redirect pulls and pushes to a local mirror.
const RepositoryHostEnv = "BAKERY_REPOSITORY_HOST"

func ImageURLWithOverrideFromEnv(img string) (string, error) {
	return ImageURLWithOverride(img, os.Getenv(RepositoryHostEnv))
}

func ImageURLWithOverride(img string, override string) (string, error) {
	if len(override) == 0 {
		return img, nil
	}

	ref, err := name.ParseReference(img)
	if err != nil {
		return "", fmt.Errorf(`image "%s" with host "%s": %w`, img, override, err)
	}

	return strings.Replace(ref.Name(), ref.Context().RegistryStr(), override, 1), nil
}
