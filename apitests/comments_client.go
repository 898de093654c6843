package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// CommentsClient wraps the /comment resource. The service has no endpoint for getting or
// updating a single comment, so neither does this client.
type CommentsClient struct {
	api *APIClient
}

func NewCommentsClient(api *APIClient) *CommentsClient {
	return &CommentsClient{api: api}
}

func (c *CommentsClient) CreateResponse(t *ldtest.T, payload servicedef.Payload, opts ...RequestOption) APIResponse {
	return c.api.Post(t, c.api.endpoints.CreateComment(), payload, opts...)
}

func (c *CommentsClient) DeleteResponse(t *ldtest.T, id string, opts ...RequestOption) APIResponse {
	return c.api.Delete(t, c.api.endpoints.Comment(id), opts...)
}

func (c *CommentsClient) ListResponse(t *ldtest.T, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.ListComments(), limit, page), opts...)
}

func (c *CommentsClient) ListByPostResponse(t *ldtest.T, postID string, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.CommentsByPost(postID), limit, page), opts...)
}

func (c *CommentsClient) ListByUserResponse(t *ldtest.T, userID string, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.CommentsByUser(userID), limit, page), opts...)
}

// Create creates a comment. params.Owner and params.Post are required; the test fails before
// anything is sent if either is missing.
func (c *CommentsClient) Create(t *ldtest.T, params servicedef.CommentParams) (string, servicedef.Comment) {
	return c.create(t, params, nil)
}

func (c *CommentsClient) create(t *ldtest.T, params servicedef.CommentParams, created func(string)) (string, servicedef.Comment) {
	payload, err := servicedef.NewCommentPayload(params)
	require.NoError(t, err)
	var comment servicedef.Comment
	requireCreated(t, c.CreateResponse(t, payload), &comment, created)
	return comment.ID, comment
}

func (c *CommentsClient) Delete(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), false)
}

func (c *CommentsClient) DeleteAllowingNotFound(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), true)
}

func (c *CommentsClient) List(t *ldtest.T, limit, page int) []servicedef.Comment {
	return c.requireList(t, c.ListResponse(t, limit, page))
}

func (c *CommentsClient) ListByPost(t *ldtest.T, postID string, limit, page int) []servicedef.Comment {
	return c.requireList(t, c.ListByPostResponse(t, postID, limit, page))
}

func (c *CommentsClient) ListByUser(t *ldtest.T, userID string, limit, page int) []servicedef.Comment {
	return c.requireList(t, c.ListByUserResponse(t, userID, limit, page))
}

func (c *CommentsClient) requireList(t *ldtest.T, resp APIResponse) []servicedef.Comment {
	RequireStatus(t, resp, 200)
	result, err := servicedef.DecodePage[servicedef.Comment](resp.Body)
	require.NoError(t, err)
	return result.Data
}
