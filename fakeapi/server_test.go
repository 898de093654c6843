package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppID = "test-app-id"

var fixedTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func newTestServer() *Server {
	return NewServer(Config{
		AppIDs: []string{testAppID},
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return fixedTime },
	})
}

type testResponse struct {
	status int
	body   ldvalue.Value
	raw    string
}

func do(t *testing.T, s *Server, method, path string, body interface{}) testResponse {
	return doWithAppID(t, s, method, path, body, testAppID)
}

func doWithAppID(t *testing.T, s *Server, method, path string, body interface{}, appID string) testResponse {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	if appID != "" {
		req.Header.Set(appIDHeader, appID)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return testResponse{status: rec.Code, body: ldvalue.Parse(rec.Body.Bytes()), raw: rec.Body.String()}
}

func requireErrorCode(t *testing.T, resp testResponse, status int, code string) {
	require.Equal(t, status, resp.status, resp.raw)
	assert.Equal(t, code, resp.body.GetByKey("error").StringValue(), resp.raw)
}

func createUser(t *testing.T, s *Server, email string) string {
	resp := do(t, s, "POST", "/user/create", map[string]string{
		"firstName": "Sara",
		"lastName":  "Andersen",
		"email":     email,
	})
	require.Equal(t, 200, resp.status, resp.raw)
	return resp.body.GetByKey("id").StringValue()
}

func createPost(t *testing.T, s *Server, owner string) string {
	resp := do(t, s, "POST", "/post/create", map[string]interface{}{
		"text":  "Auto post 1234",
		"owner": owner,
		"likes": 2,
		"tags":  []string{"qa"},
	})
	require.Equal(t, 200, resp.status, resp.raw)
	return resp.body.GetByKey("id").StringValue()
}

func TestAppIDIsRequired(t *testing.T) {
	s := newTestServer()

	requireErrorCode(t, doWithAppID(t, s, "GET", "/user", nil, ""), 403, errAppIDMissing)
	requireErrorCode(t, doWithAppID(t, s, "GET", "/user", nil, "wrong"), 403, errAppIDNotExist)
	requireErrorCode(t, doWithAppID(t, s, "GET", "/nowhere", nil, ""), 403, errAppIDMissing)
}

func TestUnknownPaths(t *testing.T) {
	s := newTestServer()

	requireErrorCode(t, do(t, s, "GET", "/userzzz", nil), 404, errPathNotFound)
	requireErrorCode(t, do(t, s, "GET", "/comment/"+newID(), nil), 404, errPathNotFound)
	requireErrorCode(t, do(t, s, "PATCH", "/user", nil), 404, errPathNotFound)
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer()
	id := createUser(t, s, "sara@example.com")
	assert.True(t, isWellFormedID(id), id)

	resp := do(t, s, "GET", "/user/"+id, nil)
	require.Equal(t, 200, resp.status)
	expected := map[string]interface{}{
		"id":           id,
		"firstName":    "Sara",
		"lastName":     "Andersen",
		"email":        "sara@example.com",
		"registerDate": "2024-05-01T12:30:00.000Z",
		"updatedDate":  "2024-05-01T12:30:00.000Z",
	}
	var actual map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.raw), &actual))
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("unexpected user (-want +got):\n%s", diff)
	}

	resp = do(t, s, "PUT", "/user/"+id, map[string]string{"lastName": "Berg", "email": "other@example.com"})
	require.Equal(t, 200, resp.status, resp.raw)
	assert.Equal(t, "Berg", resp.body.GetByKey("lastName").StringValue())
	assert.Equal(t, "sara@example.com", resp.body.GetByKey("email").StringValue())

	resp = do(t, s, "DELETE", "/user/"+id, nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, id, resp.body.GetByKey("id").StringValue())

	requireErrorCode(t, do(t, s, "GET", "/user/"+id, nil), 404, errResourceNotFound)
	requireErrorCode(t, do(t, s, "DELETE", "/user/"+id, nil), 404, errResourceNotFound)
}

func TestCreateUserValidation(t *testing.T) {
	s := newTestServer()

	resp := do(t, s, "POST", "/user/create", map[string]string{"firstName": "Sara", "email": "a@example.com"})
	requireErrorCode(t, resp, 400, errBodyNotValid)
	assert.Equal(t, "Path `lastName` is required.", resp.body.GetByKey("data").GetByKey("lastName").StringValue())

	requireErrorCode(t, do(t, s, "POST", "/user/create", []string{"not", "an", "object"}), 400, errBodyNotValid)

	createUser(t, s, "dup@example.com")
	resp = do(t, s, "POST", "/user/create", map[string]string{"firstName": "Sara", "lastName": "Berg", "email": "DUP@example.com"})
	requireErrorCode(t, resp, 400, errBodyNotValid)
	assert.Equal(t, "Email already used", resp.body.GetByKey("data").GetByKey("email").StringValue())
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer()

	requireErrorCode(t, do(t, s, "GET", "/user/123", nil), 400, errParamsNotValid)
	requireErrorCode(t, do(t, s, "GET", "/post/123", nil), 400, errParamsNotValid)
	requireErrorCode(t, do(t, s, "GET", "/post/123/comment", nil), 400, errParamsNotValid)
	requireErrorCode(t, do(t, s, "DELETE", "/comment/123", nil), 400, errParamsNotValid)
	requireErrorCode(t, do(t, s, "GET", "/user/000000000000000000000000", nil), 404, errResourceNotFound)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer()
	owner := createUser(t, s, "owner@example.com")
	other := createUser(t, s, "other@example.com")
	id := createPost(t, s, owner)

	resp := do(t, s, "GET", "/post/"+id, nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, owner, resp.body.GetByKey("owner").GetByKey("id").StringValue())
	assert.Equal(t, "Sara", resp.body.GetByKey("owner").GetByKey("firstName").StringValue())
	assert.Equal(t, 2, resp.body.GetByKey("likes").IntValue())

	resp = do(t, s, "PUT", "/post/"+id, map[string]interface{}{"text": "Updated post text", "likes": 123, "owner": other})
	require.Equal(t, 200, resp.status, resp.raw)
	assert.Equal(t, "Updated post text", resp.body.GetByKey("text").StringValue())
	assert.Equal(t, 123, resp.body.GetByKey("likes").IntValue())
	assert.Equal(t, owner, resp.body.GetByKey("owner").GetByKey("id").StringValue())

	resp = do(t, s, "GET", "/user/"+owner+"/post", nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, 1, resp.body.GetByKey("total").IntValue())
	assert.Equal(t, id, resp.body.GetByKey("data").GetByIndex(0).GetByKey("id").StringValue())

	resp = do(t, s, "GET", "/user/"+other+"/post", nil)
	assert.Equal(t, 0, resp.body.GetByKey("total").IntValue())

	resp = do(t, s, "DELETE", "/post/"+id, nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, id, resp.body.GetByKey("id").StringValue())
	requireErrorCode(t, do(t, s, "GET", "/post/"+id, nil), 404, errResourceNotFound)
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer()
	owner := createUser(t, s, "owner@example.com")

	resp := do(t, s, "POST", "/post/create", map[string]interface{}{"text": "no owner here"})
	requireErrorCode(t, resp, 400, errBodyNotValid)
	assert.Contains(t, resp.body.GetByKey("data").Keys(), "owner")

	resp = do(t, s, "POST", "/post/create", map[string]interface{}{"text": "bad owner", "owner": "123"})
	requireErrorCode(t, resp, 400, errBodyNotValid)

	resp = do(t, s, "POST", "/post/create", map[string]interface{}{"text": "unknown owner", "owner": newID()})
	requireErrorCode(t, resp, 400, errBodyNotValid)

	resp = do(t, s, "POST", "/post/create", map[string]interface{}{"text": "bad likes", "owner": owner, "likes": "many"})
	requireErrorCode(t, resp, 400, errBodyNotValid)
}

func TestCommentLifecycle(t *testing.T) {
	s := newTestServer()
	owner := createUser(t, s, "owner@example.com")
	post := createPost(t, s, owner)

	resp := do(t, s, "POST", "/comment/create", map[string]string{"message": "nice", "owner": owner, "post": post})
	require.Equal(t, 200, resp.status, resp.raw)
	id := resp.body.GetByKey("id").StringValue()
	assert.Equal(t, post, resp.body.GetByKey("post").StringValue())
	assert.Equal(t, owner, resp.body.GetByKey("owner").GetByKey("id").StringValue())

	for _, path := range []string{"/comment", "/post/" + post + "/comment", "/user/" + owner + "/comment"} {
		resp = do(t, s, "GET", path, nil)
		require.Equal(t, 200, resp.status)
		assert.Equal(t, id, resp.body.GetByKey("data").GetByIndex(0).GetByKey("id").StringValue(), path)
	}

	resp = do(t, s, "DELETE", "/comment/"+id, nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, ldvalue.StringType, resp.body.Type())
	assert.Equal(t, id, resp.body.StringValue())

	requireErrorCode(t, do(t, s, "DELETE", "/comment/"+id, nil), 404, errResourceNotFound)
	resp = do(t, s, "GET", "/post/"+post+"/comment", nil)
	assert.Equal(t, 0, resp.body.GetByKey("data").Count())
}

func TestCreateCommentValidation(t *testing.T) {
	s := newTestServer()
	owner := createUser(t, s, "owner@example.com")
	post := createPost(t, s, owner)

	for _, body := range []map[string]string{
		{"message": "hi", "post": post},
		{"message": "hi", "owner": owner},
		{"owner": owner, "post": post},
		{"message": "hi", "owner": owner, "post": newID()},
	} {
		requireErrorCode(t, do(t, s, "POST", "/comment/create", body), 400, errBodyNotValid)
	}
}

func TestListPaging(t *testing.T) {
	s := newTestServer()
	var ids []string
	for i := 0; i < 12; i++ {
		ids = append(ids, createUser(t, s, newID()+"@example.com"))
	}

	resp := do(t, s, "GET", "/user?limit=5&page=0", nil)
	require.Equal(t, 200, resp.status)
	assert.Equal(t, 12, resp.body.GetByKey("total").IntValue())
	assert.Equal(t, 5, resp.body.GetByKey("limit").IntValue())
	assert.Equal(t, 5, resp.body.GetByKey("data").Count())
	assert.Equal(t, ids[11], resp.body.GetByKey("data").GetByIndex(0).GetByKey("id").StringValue(),
		"newest should be first")

	resp = do(t, s, "GET", "/user?limit=5&page=2", nil)
	assert.Equal(t, 2, resp.body.GetByKey("data").Count())
	assert.Equal(t, ids[0], resp.body.GetByKey("data").GetByIndex(1).GetByKey("id").StringValue())

	resp = do(t, s, "GET", "/user?limit=1", nil)
	assert.Equal(t, minPageLimit, resp.body.GetByKey("limit").IntValue())

	resp = do(t, s, "GET", "/user?limit=500", nil)
	assert.Equal(t, maxPageLimit, resp.body.GetByKey("limit").IntValue())

	resp = do(t, s, "GET", "/user?page=9", nil)
	assert.Equal(t, 0, resp.body.GetByKey("data").Count())
	assert.Equal(t, defaultPageLimit, resp.body.GetByKey("limit").IntValue())
}

func TestListPreviewOmitsEmail(t *testing.T) {
	s := newTestServer()
	createUser(t, s, "hidden@example.com")

	resp := do(t, s, "GET", "/user", nil)
	item := resp.body.GetByKey("data").GetByIndex(0)
	assert.Equal(t, "Sara", item.GetByKey("firstName").StringValue())
	assert.True(t, item.GetByKey("email").IsNull())
}

func TestRequestsAreServedOverHTTP(t *testing.T) {
	server := httptest.NewServer(newTestServer())
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/user?limit=1", nil)
	require.NoError(t, err)
	req.Header.Set(appIDHeader, testAppID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
