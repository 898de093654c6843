package apitests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/dummyapi-qa/contract-tests/framework/harness"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// APIResponse is a complete, already-read HTTP response.
type APIResponse struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r APIResponse) String() string {
	return fmt.Sprintf("%s %s -> %d %s", r.Method, r.URL, r.StatusCode, string(r.Body))
}

// RequestOption modifies a request before it is sent.
type RequestOption func(*http.Request)

// WithoutAppID removes the session's credential from the request.
func WithoutAppID() RequestOption {
	return func(r *http.Request) { r.Header.Del(harness.AppIDHeader) }
}

// WithAppID replaces the session's credential with a different one.
func WithAppID(appID string) RequestOption {
	return func(r *http.Request) { r.Header.Set(harness.AppIDHeader, appID) }
}

func WithHeader(name, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

// APIClient issues raw requests through the harness's shared session. It never checks the
// status of a response; it only fails the test if no response could be obtained at all.
//
// Every request and response is attached to the current test.
type APIClient struct {
	harness   *harness.TestHarness
	endpoints servicedef.Endpoints
}

func NewAPIClient(h *harness.TestHarness) *APIClient {
	return &APIClient{harness: h, endpoints: servicedef.NewEndpoints(h.BaseURL())}
}

func (c *APIClient) Endpoints() servicedef.Endpoints {
	return c.endpoints
}

// Do sends a request. If body is not nil, it is marshaled as JSON.
func (c *APIClient) Do(t *ldtest.T, method, url string, body interface{}, opts ...RequestOption) APIResponse {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := c.harness.NewRequest(method, url, data)
	require.NoError(t, err)
	for _, o := range opts {
		o(req)
	}
	attachRequest(t, req, data)

	resp, err := c.harness.Do(req)
	require.NoError(t, err, "%s %s", method, url)
	defer func() { _ = resp.Body.Close() }()
	respData, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err, "error reading response to %s %s", method, url)

	ret := APIResponse{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respData,
	}
	attachResponse(t, ret)
	return ret
}

func (c *APIClient) Get(t *ldtest.T, url string, opts ...RequestOption) APIResponse {
	return c.Do(t, "GET", url, nil, opts...)
}

func (c *APIClient) Post(t *ldtest.T, url string, body interface{}, opts ...RequestOption) APIResponse {
	return c.Do(t, "POST", url, body, opts...)
}

func (c *APIClient) Put(t *ldtest.T, url string, body interface{}, opts ...RequestOption) APIResponse {
	return c.Do(t, "PUT", url, body, opts...)
}

func (c *APIClient) Delete(t *ldtest.T, url string, opts ...RequestOption) APIResponse {
	return c.Do(t, "DELETE", url, nil, opts...)
}

func attachRequest(t *ldtest.T, req *http.Request, body []byte) {
	name := fmt.Sprintf("Request: %s %s", req.Method, req.URL)
	if body == nil {
		t.Attach(name, ldtest.ContentTypeText, nil)
		return
	}
	t.Attach(name, ldtest.ContentTypeJSON, prettyJSON(body))
}

func attachResponse(t *ldtest.T, resp APIResponse) {
	name := fmt.Sprintf("Response: %d from %s %s", resp.StatusCode, resp.Method, resp.URL)
	if json.Valid(resp.Body) {
		t.Attach(name, ldtest.ContentTypeJSON, prettyJSON(resp.Body))
	} else {
		t.Attach(name, ldtest.ContentTypeText, resp.Body)
	}
}

func prettyJSON(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return data
	}
	return buf.Bytes()
}

// RequireStatus fails the test immediately unless the response has one of the expected statuses.
// The failure message includes the response body.
func RequireStatus(t *ldtest.T, resp APIResponse, expected ...int) {
	for _, s := range expected {
		if resp.StatusCode == s {
			return
		}
	}
	require.Fail(t, fmt.Sprintf("unexpected status %d from %s %s", resp.StatusCode, resp.Method, resp.URL),
		"expected one of %v; response body: %s", expected, string(resp.Body))
}

// RequireEntity decodes a response into one of the servicedef response types. The test fails
// immediately if the body is malformed or has no id.
func RequireEntity(t *ldtest.T, resp APIResponse, target servicedef.Entity) {
	err := servicedef.Decode(resp.Body, target)
	require.NoError(t, err, "response to %s %s: %s", resp.Method, resp.URL, string(resp.Body))
}

// requireCreated checks the response to a create request and decodes it into target. If created
// is not nil, it receives the new id as soon as the body is known to have one, before the rest
// of the body is decoded.
func requireCreated(t *ldtest.T, resp APIResponse, target servicedef.Entity, created func(id string)) {
	RequireStatus(t, resp, 200, 201)
	if created != nil {
		if id := servicedef.PeekID(resp.Body); id != "" {
			created(id)
		}
	}
	RequireEntity(t, resp, target)
}

func requireDeleteResult(t *ldtest.T, resp APIResponse, allowNotFound bool) servicedef.DeleteResult {
	if allowNotFound && resp.StatusCode == 404 {
		return servicedef.NewDeleteNotFound()
	}
	RequireStatus(t, resp, 200, 204)
	result := servicedef.ParseDeleteResult(resp.StatusCode, resp.Body)
	t.Debug("Delete %s: %s", resp.URL, result)
	return result
}
