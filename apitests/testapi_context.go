package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/harness"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
)

// APITestContext is the domain-specific value that every test can retrieve from its T. The
// clients are stateless apart from the harness's session, so one set serves the whole run.
type APITestContext struct {
	Raw      *APIClient
	Users    *UsersClient
	Posts    *PostsClient
	Comments *CommentsClient
}

func NewAPITestContext(h *harness.TestHarness) APITestContext {
	raw := NewAPIClient(h)
	return APITestContext{
		Raw:      raw,
		Users:    NewUsersClient(raw),
		Posts:    NewPostsClient(raw),
		Comments: NewCommentsClient(raw),
	}
}

func requireContext(t *ldtest.T) APITestContext {
	if c, ok := t.Context().(APITestContext); ok {
		return c
	}
	panic("APITestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}
