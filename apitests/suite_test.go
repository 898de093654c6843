package apitests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dummyapi-qa/contract-tests/fakeapi"
	"github.com/dummyapi-qa/contract-tests/framework/harness"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/rs/zerolog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppID = "suite-app-id"

func newFakeService() http.Handler {
	return fakeapi.NewServer(fakeapi.Config{
		AppIDs: []string{testAppID},
		Logger: zerolog.Nop(),
	})
}

func withHarness(t *testing.T, handler http.Handler, action func(h *harness.TestHarness)) {
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h, err := harness.NewTestHarness(harness.Config{BaseURL: server.URL, AppID: testAppID}, zerolog.Nop())
		require.NoError(t, err)
		defer h.Close()
		action(h)
	})
}

func withFakeService(t *testing.T, action func(h *harness.TestHarness)) {
	withHarness(t, newFakeService(), action)
}

type sentRequest struct {
	method string
	path   string
	header http.Header
}

// requestLog remembers the method, path, and headers of every request before passing it on.
// The body is left unread for the wrapped handler.
type requestLog struct {
	handler http.Handler
	lock    sync.Mutex
	sent    []sentRequest
}

func (l *requestLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.lock.Lock()
	l.sent = append(l.sent, sentRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone()})
	l.lock.Unlock()
	l.handler.ServeHTTP(w, r)
}

func (l *requestLog) take() []sentRequest {
	l.lock.Lock()
	defer l.lock.Unlock()
	ret := l.sent
	l.sent = nil
	return ret
}

func withRecordedFakeService(t *testing.T, action func(h *harness.TestHarness, requests *requestLog)) {
	requests := &requestLog{handler: newFakeService()}
	withHarness(t, requests, func(h *harness.TestHarness) {
		requests.take() // health check
		action(h, requests)
	})
}

// rewriteResponses lets change decide what the client sees for each request selected by match.
// change gets the wrapped handler's complete response.
func rewriteResponses(handler http.Handler, match func(*http.Request) bool,
	change func(w http.ResponseWriter, rec *httptest.ResponseRecorder)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !match(r) {
			handler.ServeHTTP(w, r)
			return
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		change(w, rec)
	})
}

func copyResponse(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.WriteHeader(rec.Code)
	_, _ = w.Write(rec.Body.Bytes())
}

// emptyDeleteResponses makes every successful delete answer 204 with no body.
func emptyDeleteResponses(handler http.Handler) http.Handler {
	return rewriteResponses(handler,
		func(r *http.Request) bool { return r.Method == "DELETE" },
		func(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
			if rec.Code == http.StatusOK {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			copyResponse(w, rec)
		})
}

// undecodablePostCreates keeps the id in every successful post creation response, but gives
// "tags" a type that the model cannot decode.
func undecodablePostCreates(handler http.Handler) http.Handler {
	return rewriteResponses(handler,
		func(r *http.Request) bool { return r.Method == "POST" && r.URL.Path == "/post/create" },
		func(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
			var body map[string]interface{}
			if rec.Code >= 300 || json.Unmarshal(rec.Body.Bytes(), &body) != nil {
				copyResponse(w, rec)
				return
			}
			body["tags"] = "not-a-list"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.Code)
			_ = json.NewEncoder(w).Encode(body)
		})
}

func runInContext(h *harness.TestHarness, action func(t *ldtest.T)) ldtest.Results {
	return ldtest.Run(ldtest.TestConfiguration{Context: NewAPITestContext(h)}, func(t *ldtest.T) {
		t.Run("test", action)
	})
}

func describeFailures(results ldtest.Results) string {
	var lines []string
	for _, f := range results.Failures {
		for _, e := range f.Errors {
			lines = append(lines, f.TestID.String()+": "+e.Error())
		}
	}
	return strings.Join(lines, "\n")
}

func TestWholeSuitePassesAgainstFakeService(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := RunTestSuite(h, nil, nil)
		require.True(t, results.OK(), describeFailures(results))

		for _, name := range []string{
			"users/CRUD/create, get, update, get, delete, get returns 404",
			"users/negative/unknown path returns PATH_NOT_FOUND",
			"posts/regression/update cannot change owner",
			"comments/scenario/user, post, comment, list, delete",
		} {
			r, ok := results.Find(name)
			if assert.True(t, ok, "missing result for %q", name) {
				assert.False(t, r.Skipped, name)
				assert.NotEmpty(t, r.Attachments, name)
			}
		}
	})
}

func TestSuiteLeavesNothingBehind(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := RunTestSuite(h, nil, nil)
		require.True(t, results.OK(), describeFailures(results))

		results = runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			assert.Empty(t, api.Users.List(t, widePageLimit, 0))
			assert.Empty(t, api.Posts.List(t, widePageLimit, 0))
			assert.Empty(t, api.Comments.List(t, widePageLimit, 0))
		})
		assert.True(t, results.OK(), describeFailures(results))
	})
}

func TestFilteredSuiteRunsOnlySelectedTests(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		var filters ldtest.RegexFilters
		require.NoError(t, filters.MustMatch.Set("posts/negative"))

		results := RunTestSuite(h, filters.AsFilter, nil)
		require.True(t, results.OK(), describeFailures(results))

		_, ok := results.Find("posts/negative/get unknown id returns RESOURCE_NOT_FOUND")
		assert.True(t, ok)
		_, ok = results.Find("users")
		assert.False(t, ok)
		_, ok = results.Find("posts/CRUD")
		assert.False(t, ok)
	})
}

func TestFixturesDeleteInDependencyOrder(t *testing.T) {
	withRecordedFakeService(t, func(h *harness.TestHarness, requests *requestLog) {
		var userID, postID, commentID string
		results := runInContext(h, func(t *ldtest.T) {
			f := NewFixtures(t)
			userID, _ = f.CreateUser()
			postID, _ = f.CreatePost(servicedef.PostParams{Owner: userID})
			commentID, _ = f.CreateComment(servicedef.CommentParams{Owner: userID, Post: postID})
		})
		require.True(t, results.OK(), describeFailures(results))

		var deletes []string
		for _, r := range requests.take() {
			if r.method == "DELETE" {
				deletes = append(deletes, r.path)
			}
		}
		assert.Equal(t, []string{"/comment/" + commentID, "/post/" + postID, "/user/" + userID}, deletes)
	})
}

func TestWholeSuitePassesWhenDeletesReturnNoBody(t *testing.T) {
	withHarness(t, emptyDeleteResponses(newFakeService()), func(h *harness.TestHarness) {
		results := RunTestSuite(h, nil, nil)
		require.True(t, results.OK(), describeFailures(results))

		r, ok := results.Find("posts/regression/delete returns the deleted id")
		require.True(t, ok)
		assert.False(t, r.Skipped)
	})
}

func TestFixturesDeleteResourceWhoseCreateResponseDoesNotDecode(t *testing.T) {
	withHarness(t, undecodablePostCreates(newFakeService()), func(h *harness.TestHarness) {
		results := runInContext(h, func(t *ldtest.T) {
			NewFixtures(t).CreatePost(servicedef.PostParams{})
		})
		require.Len(t, results.Failures, 1)
		assert.Contains(t, describeFailures(results), "malformed response body")

		results = runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			assert.Empty(t, api.Posts.List(t, widePageLimit, 0))
			assert.Empty(t, api.Users.List(t, widePageLimit, 0))
		})
		assert.True(t, results.OK(), describeFailures(results))
	})
}

func TestFixturesCleanUpAfterFailure(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		var userID string
		results := runInContext(h, func(t *ldtest.T) {
			userID, _ = NewFixtures(t).CreateUser()
			require.Fail(t, "deliberate failure")
		})
		require.False(t, results.OK())

		results = runInContext(h, func(t *ldtest.T) {
			RequireStatus(t, requireContext(t).Users.GetResponse(t, userID), 404)
		})
		assert.True(t, results.OK(), describeFailures(results))
	})
}

func TestFixturesToleratePriorDelete(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			userID, _ := NewFixtures(t).CreateUser()
			api.Users.Delete(t, userID)
		})
		assert.True(t, results.OK(), describeFailures(results))
	})
}

func TestRequireStatusFailsWithBody(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			RequireStatus(t, api.Users.GetResponse(t, nonExistentID), 200)
		})
		require.Len(t, results.Failures, 1)
		assert.Contains(t, describeFailures(results), "RESOURCE_NOT_FOUND")
	})
}

func TestRequireAPIErrorChecksCode(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			RequireAPIError(t, api.Users.GetResponse(t, nonExistentID), 404, servicedef.ErrorPathNotFound)
		})
		require.Len(t, results.Failures, 1)
		assert.Contains(t, describeFailures(results), servicedef.ErrorPathNotFound)
	})
}

func TestRequestOptionsChangeCredential(t *testing.T) {
	withRecordedFakeService(t, func(h *harness.TestHarness, requests *requestLog) {
		results := runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			api.Users.ListResponse(t, smallPageLimit, 0, WithoutAppID())
			api.Users.ListResponse(t, smallPageLimit, 0, WithAppID("other"))
			api.Users.ListResponse(t, smallPageLimit, 0, WithHeader("X-Trace", "1"))
		})
		require.True(t, results.OK(), describeFailures(results))

		sent := requests.take()
		require.Len(t, sent, 3)
		assert.Empty(t, sent[0].header.Values(harness.AppIDHeader))
		assert.Equal(t, "other", sent[1].header.Get(harness.AppIDHeader))
		assert.Equal(t, testAppID, sent[2].header.Get(harness.AppIDHeader))
		assert.Equal(t, "1", sent[2].header.Get("X-Trace"))
	})
}

func TestRequestsAndResponsesAreAttached(t *testing.T) {
	withFakeService(t, func(h *harness.TestHarness) {
		results := runInContext(h, func(t *ldtest.T) {
			api := requireContext(t)
			userID, _ := api.Users.Create(t, nil)
			api.Users.Delete(t, userID)
		})
		require.True(t, results.OK(), describeFailures(results))

		r, ok := results.Find("test")
		require.True(t, ok)
		require.Len(t, r.Attachments, 4)
		assert.True(t, strings.HasPrefix(r.Attachments[0].Name, "Request: POST "))
		assert.Equal(t, ldtest.ContentTypeJSON, r.Attachments[0].ContentType)
		assert.True(t, strings.HasPrefix(r.Attachments[1].Name, "Response: 200 from POST "))
		assert.Contains(t, string(r.Attachments[1].Data), `"email"`)
	})
}
