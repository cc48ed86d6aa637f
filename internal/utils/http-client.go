package utils

import (
	"net/http"
	"time"
)

type HTTPClientConfig struct {
	Timeout   time.Duration
	KATimeout time.Duration
	UserAgent string
	Headers   map[string]string
}

// TubetapHTTPClient is the client used for tool self-installs (fetching the
// yt-dlp release binary); media traffic itself never goes through it.
type TubetapHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewTubetapHTTPClient(cfg HTTPClientConfig) *TubetapHTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 60 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		DisableCompression:  true,
	}
	return &TubetapHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (t *TubetapHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if t.config.UserAgent != "" {
		req.Header.Set("User-Agent", t.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", ToolUserAgent)
	}
	for k, v := range t.config.Headers {
		req.Header.Set(k, v)
	}
	return t.client.Do(req)
}
