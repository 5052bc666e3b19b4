package cmd

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	v1 "github.com/google/go-containerregistry/pkg/v1"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakecontext"
	"bakery.run/internal/baking/bakemanifest"
	"bakery.run/internal/baking/basepull"
	"bakery.run/internal/pip"
)

const (
	testBaseImage  = "quay.io/example/python-base:3.10"
	testBaseDigest = "sha256:17bd41d5b047bc1134f5d8a481d6c65a42a3d1be7bbfa0631dd1086b51873f03"
)

var testDistribution = manifests.LockedDistribution{
	Name:     "flask",
	Version:  "2.2.2",
	Filename: "flask-2.2.2-py3-none-any.whl",
	URL:      "https://files.pythonhosted.org/packages/flask-2.2.2-py3-none-any.whl",
	SHA256:   "b9c46cc36662a7949f34b52d8ec7bb59c0d74ba08ba6cb9ce9adc1d8676d9526",
}

func testLoaderSource(lock *manifests.BuildManifestLock) *bakemanifest.Source {
	manifest := &manifests.BuildManifest{
		TypeMeta: manifests.TypeMeta{
			Kind:       manifests.BuildManifestKind,
			APIVersion: manifests.GroupVersion,
		},
		ObjectMeta: manifests.ObjectMeta{Name: "incentives-bot"},
		Spec: manifests.BuildManifestSpec{
			Base: manifests.BaseSpec{Image: testBaseImage},
		},
	}
	manifest.Default()

	return &bakemanifest.Source{
		Manifest: manifest,
		Lock:     lock,
		Files: bakecontext.Files{
			"requirements.txt": []byte("flask==2.2.2\n"),
			"server.py":        []byte("print('serving')\n"),
		},
	}
}

func TestLock_GenerateLockData(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, 11, 5, 12, 0, 0, 0, time.UTC)
	reqsHash := requirementsHash([]byte("flask==2.2.2\n"))

	freshLockData := strings.Join([]string{
		"apiVersion: manifests.bakery.run/v1alpha1",
		"kind: BuildManifestLock",
		"metadata:",
		fmt.Sprintf("  creationTimestamp: %q", now.Format(time.RFC3339)),
		"spec:",
		"  base:",
		"    digest: " + testBaseDigest,
		"    image: " + testBaseImage,
		"  distributions:",
		"  - filename: " + testDistribution.Filename,
		"    name: " + testDistribution.Name,
		"    sha256: " + testDistribution.SHA256,
		"    url: " + testDistribution.URL,
		"    version: " + testDistribution.Version,
		"  python:",
		"    indexURL: https://pypi.org/pypi",
		`    version: "3.10"`,
		"  requirementsHash: " + reqsHash,
		"",
	}, "\n")

	for name, tc := range map[string]struct {
		Lock             *manifests.BuildManifestLock
		ExpectedLockData string
		ExpectedError    error
	}{
		"no existing lock file": {
			ExpectedLockData: freshLockData,
		},
		"lock file exists/base digest changed": {
			Lock: &manifests.BuildManifestLock{
				Spec: manifests.BuildManifestLockSpec{
					Base: manifests.LockedBase{
						Image:  testBaseImage,
						Digest: "sha256:0000000000000000000000000000000000000000000000000000000000000000",
					},
					Python: manifests.LockedPython{
						Version:  "3.10",
						IndexURL: "https://pypi.org/pypi",
					},
					RequirementsHash: reqsHash,
					Distributions:    []manifests.LockedDistribution{testDistribution},
				},
			},
			ExpectedLockData: freshLockData,
		},
		"lock file exists/python version changed": {
			Lock: &manifests.BuildManifestLock{
				Spec: manifests.BuildManifestLockSpec{
					Base: manifests.LockedBase{
						Image:  testBaseImage,
						Digest: testBaseDigest,
					},
					Python: manifests.LockedPython{
						Version:  "3.9",
						IndexURL: "https://pypi.org/pypi",
					},
					RequirementsHash: reqsHash,
					Distributions:    []manifests.LockedDistribution{testDistribution},
				},
			},
			ExpectedLockData: freshLockData,
		},
		"lock file exists/no changes": {
			Lock: &manifests.BuildManifestLock{
				ObjectMeta: manifests.ObjectMeta{
					CreationTimestamp: "2022-01-01T00:00:00Z",
				},
				Spec: manifests.BuildManifestLockSpec{
					Base: manifests.LockedBase{
						Image:  testBaseImage,
						Digest: testBaseDigest,
					},
					Python: manifests.LockedPython{
						Version:  "3.10",
						IndexURL: "https://pypi.org/pypi",
					},
					RequirementsHash: reqsHash,
					Distributions:    []manifests.LockedDistribution{testDistribution},
				},
			},
			ExpectedError: ErrLockDataUnchanged,
		},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mLoader := &sourceLoaderMock{}
			mLoader.
				On("LoadSource", mock.Anything, "src").
				Return(testLoaderSource(tc.Lock), nil)

			mResolver := &digestResolverMock{}
			mResolver.
				On("ResolveDigest", mock.Anything, testBaseImage, mock.Anything).
				Return(testBaseDigest, nil)

			mPip := &pipResolverMock{}
			mPip.
				On("Resolve", mock.Anything, mock.Anything).
				Return([]manifests.LockedDistribution{testDistribution}, nil)

			mClock := &clockMock{}
			mClock.
				On("Now").
				Return(now)

			lock := NewLock(
				WithClock{Clock: mClock},
				WithSourceLoader{Loader: mLoader},
				WithDigestResolver{Resolver: mResolver},
				WithPipResolverFactory(func(indexURL, pythonVersion string) PipResolver {
					assert.Equal(t, "https://pypi.org/pypi", indexURL)
					assert.Equal(t, "3.10", pythonVersion)
					return mPip
				}),
			)

			data, err := lock.GenerateLockData(context.Background(), "src")
			require.ErrorIs(t, err, tc.ExpectedError)

			assert.Equal(t, tc.ExpectedLockData, string(data))
		})
	}
}

func TestLock_GenerateLockData_resolveError(t *testing.T) {
	t.Parallel()

	mLoader := &sourceLoaderMock{}
	mLoader.
		On("LoadSource", mock.Anything, "src").
		Return(testLoaderSource(nil), nil)

	mResolver := &digestResolverMock{}
	mResolver.
		On("ResolveDigest", mock.Anything, testBaseImage, mock.Anything).
		Return("", assert.AnError)

	lock := NewLock(
		WithSourceLoader{Loader: mLoader},
		WithDigestResolver{Resolver: mResolver},
	)

	_, err := lock.GenerateLockData(context.Background(), "src")
	require.ErrorIs(t, err, assert.AnError)
}

type digestResolverMock struct {
	mock.Mock
}

func (m *digestResolverMock) ResolveDigest(
	ctx context.Context, ref string, opts ...ResolveDigestOption,
) (string, error) {
	actualArgs := make([]any, 0, 2+len(opts))
	actualArgs = append(actualArgs, ctx, ref)

	for _, opt := range opts {
		actualArgs = append(actualArgs, opt)
	}

	args := m.Called(actualArgs...)

	return args.String(0), args.Error(1)
}

type sourceLoaderMock struct {
	mock.Mock
}

func (m *sourceLoaderMock) LoadSource(ctx context.Context, path string) (*bakemanifest.Source, error) {
	args := m.Called(ctx, path)
	src, _ := args.Get(0).(*bakemanifest.Source)
	return src, args.Error(1)
}

type basePullerMock struct {
	mock.Mock
}

func (m *basePullerMock) Pull(ctx context.Context, ref string, opts ...basepull.PullOption) (v1.Image, error) {
	actualArgs := make([]any, 0, 2+len(opts))
	actualArgs = append(actualArgs, ctx, ref)

	for _, opt := range opts {
		actualArgs = append(actualArgs, opt)
	}

	args := m.Called(actualArgs...)
	image, _ := args.Get(0).(v1.Image)
	return image, args.Error(1)
}

type pipResolverMock struct {
	mock.Mock
}

func (m *pipResolverMock) Resolve(
	ctx context.Context, reqs []pip.Requirement,
) ([]manifests.LockedDistribution, error) {
	args := m.Called(ctx, reqs)
	dists, _ := args.Get(0).([]manifests.LockedDistribution)
	return dists, args.Error(1)
}

type clockMock struct {
	mock.Mock
}

func (m *clockMock) Now() time.Time {
	args := m.Called()

	return args.Get(0).(time.Time)
}
