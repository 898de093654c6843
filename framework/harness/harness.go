package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AppIDHeader is the name of the credential header that the service requires on every request.
const AppIDHeader = "app-id"

const (
	DefaultRequestTimeout     = time.Second * 15
	DefaultStatusQueryTimeout = time.Second * 10
	DefaultHealthCheckPath    = "/user?limit=1"
	statusQueryRetryInterval  = time.Millisecond * 100
)

// Config contains the parameters for NewTestHarness.
type Config struct {
	// BaseURL is the root URL of the service under test. A trailing slash is ignored.
	BaseURL string

	// AppID is the credential sent in the app-id header of every request.
	AppID string

	// RequestTimeout is the fixed timeout applied to every request. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	// StatusQueryTimeout is how long to keep retrying the startup health check while the
	// service is unreachable. Zero means DefaultStatusQueryTimeout.
	StatusQueryTimeout time.Duration

	// HealthCheckPath is the request used to verify that the service is up and accepts our
	// credential. Empty means DefaultHealthCheckPath.
	HealthCheckPath string
}

// TestHarness owns the HTTP session that every test shares. The session's headers are set once
// at startup and never modified afterward, so it is safe for sequential reuse by every test.
type TestHarness struct {
	baseURL        string
	appID          string
	client         *http.Client
	defaultHeaders http.Header
	logger         zerolog.Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the service is responding by
// performing one list request with our credential. It retries only while the service cannot be
// reached at all; any response other than 200 is a startup error.
func NewTestHarness(config Config, logger zerolog.Logger) (*TestHarness, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL of the service is not set")
	}
	if config.AppID == "" {
		return nil, errors.New("app-id credential is not set")
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.StatusQueryTimeout <= 0 {
		config.StatusQueryTimeout = DefaultStatusQueryTimeout
	}
	if config.HealthCheckPath == "" {
		config.HealthCheckPath = DefaultHealthCheckPath
	}

	headers := make(http.Header)
	headers.Set(AppIDHeader, config.AppID)
	headers.Set("Accept", "application/json")

	h := &TestHarness{
		baseURL:        strings.TrimSuffix(config.BaseURL, "/"),
		appID:          config.AppID,
		client:         &http.Client{Timeout: config.RequestTimeout},
		defaultHeaders: headers,
		logger:         logger,
	}

	if err := h.queryServiceStatus(config.HealthCheckPath, config.StatusQueryTimeout); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *TestHarness) queryServiceStatus(path string, timeout time.Duration) error {
	url := h.baseURL + path
	h.logger.Info().Str("url", url).Msg("Connecting to service")

	deadline := time.Now().Add(timeout)
	for {
		req, err := h.NewRequest("GET", url, nil)
		if err != nil {
			return err
		}
		resp, err := h.client.Do(req)
		if err == nil {
			body, readErr := ioutil.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return fmt.Errorf("error reading health check response: %w", readErr)
			}
			if resp.StatusCode != 200 {
				return fmt.Errorf("environment check failed: %d %s", resp.StatusCode, string(body))
			}
			h.logger.Info().Int("status", resp.StatusCode).Msg("Service is reachable")
			h.logger.Debug().Str("body", string(body)).Msg("Health check response")
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		h.logger.Debug().Err(err).Msg("Service not reachable yet")
		time.Sleep(statusQueryRetryInterval)
	}
}

// BaseURL returns the root URL of the service, without a trailing slash.
func (h *TestHarness) BaseURL() string {
	return h.baseURL
}

// AppID returns the credential the session sends by default.
func (h *TestHarness) AppID() string {
	return h.appID
}

// NewRequest creates a request carrying the session's default headers. If body is not nil, it is
// sent as JSON.
func (h *TestHarness) NewRequest(method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	for name, values := range h.defaultHeaders {
		req.Header[name] = append([]string(nil), values...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends a request through the shared session. A request that exceeds the fixed timeout
// returns an error like any other transport failure.
func (h *TestHarness) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

// Close releases idle connections held by the session.
func (h *TestHarness) Close() {
	h.client.CloseIdleConnections()
}
