package pip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// ErrProjectNotFound is reported when the index has no such project.
var ErrProjectNotFound = errors.New("project not found in package index")

// Project is the subset of the index JSON project API consumed here.
type Project struct {
	Releases map[string][]ReleaseFile `json:"releases"`
}

// ReleaseFile is one downloadable artifact of a release.
type ReleaseFile struct {
	Filename    string            `json:"filename"`
	URL         string            `json:"url"`
	PackageType string            `json:"packagetype"`
	Yanked      bool              `json:"yanked"`
	Digests     map[string]string `json:"digests"`
}

// NewIndexClient returns a client for a package index speaking the
// JSON project API, e.g. https://pypi.org/pypi.
func NewIndexClient(baseURL string, opts ...IndexClientOption) *IndexClient {
	var cfg IndexClientConfig
	cfg.Option(opts...)
	cfg.Default()

	return &IndexClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cfg:     cfg,
	}
}

type IndexClient struct {
	baseURL string
	cfg     IndexClientConfig
}

type IndexClientConfig struct {
	HTTPClient *http.Client
	// RetryDelay paces the single retry on transient index failures.
	RetryDelay time.Duration
}

func (c *IndexClientConfig) Option(opts ...IndexClientOption) {
	for _, opt := range opts {
		opt.ConfigureIndexClient(c)
	}
}

func (c *IndexClientConfig) Default() {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
}

type IndexClientOption interface {
	ConfigureIndexClient(*IndexClientConfig)
}

// Project fetches release metadata for the given (normalized) project
// name. Transient index failures are retried once before giving up.
func (c *IndexClient) Project(ctx context.Context, name string) (*Project, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, NormalizeName(name))

	project, err := c.fetchProject(ctx, url)
	if err != nil && isTransient(err) {
		logr.FromContextOrDiscard(ctx).V(1).Info(
			"retrying package index request", "url", url, "cause", err.Error())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.RetryDelay):
		}
		project, err = c.fetchProject(ctx, url)
	}
	if err != nil {
		return nil, fmt.Errorf("query package index: %w", err)
	}

	return project, nil
}

func (c *IndexClient) fetchProject(ctx context.Context, url string) (*Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProjectNotFound
	case resp.StatusCode >= 500:
		return nil, &transientError{status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected index response status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	project := &Project{}
	if err := json.Unmarshal(body, project); err != nil {
		return nil, fmt.Errorf("decode index response: %w", err)
	}
	return project, nil
}

type transientError struct {
	status int
}

func (e *transientError) Error() string {
	return fmt.Sprintf("package index returned status %d", e.status)
}

func isTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	// Network level failures are worth one retry as well.
	return errors.Is(err, io.ErrUnexpectedEOF) || isTimeout(err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
