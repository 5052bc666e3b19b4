package pip

import (
	"net/http"
	"time"
)

type WithHTTPClient struct{ Client *http.Client }

func (w WithHTTPClient) ConfigureIndexClient(c *IndexClientConfig) {
	c.HTTPClient = w.Client
}

func (w WithHTTPClient) ConfigureFetcher(c *FetcherConfig) {
	c.HTTPClient = w.Client
}

type WithRetryDelay time.Duration

func (w WithRetryDelay) ConfigureIndexClient(c *IndexClientConfig) {
	c.RetryDelay = time.Duration(w)
}

type WithCacheDir string

func (w WithCacheDir) ConfigureFetcher(c *FetcherConfig) {
	c.CacheDir = string(w)
}
