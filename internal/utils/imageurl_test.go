package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURLWithOverride(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		image    string
		override string
		expected string
	}{
		{
			image:    "quay.io/example/base:3.10",
			override: "",
			expected: "quay.io/example/base:3.10",
		},
		{
			image:    "quay.io/example/base:3.10",
			override: "localhost:5001",
			expected: "localhost:5001/example/base:3.10",
		},
		{
			image:    "quay.io/example/base@sha256:17bd41d5b047bc1134f5d8a481d6c65a42a3d1be7bbfa0631dd1086b51873f03",
			override: "localhost:5001",
			expected: "localhost:5001/example/base@sha256:17bd41d5b047bc1134f5d8a481d6c65a42a3d1be7bbfa0631dd1086b51873f03",
		},
	} {
		tc := tc
		t.Run(tc.image, func(t *testing.T) {
			t.Parallel()

			url, err := ImageURLWithOverride(tc.image, tc.override)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, url)
		})
	}
}

func TestImageURLWithOverride_invalidReference(t *testing.T) {
	t.Parallel()

	_, err := ImageURLWithOverride("UPPERCASE/not-allowed", "localhost:5001")
	require.Error(t, err)
}
