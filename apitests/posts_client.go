package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// PostsClient wraps the /post resource. See UsersClient for the difference between raw and
// checked operations.
type PostsClient struct {
	api *APIClient
}

func NewPostsClient(api *APIClient) *PostsClient {
	return &PostsClient{api: api}
}

func (c *PostsClient) CreateResponse(t *ldtest.T, payload servicedef.Payload, opts ...RequestOption) APIResponse {
	return c.api.Post(t, c.api.endpoints.CreatePost(), payload, opts...)
}

func (c *PostsClient) GetResponse(t *ldtest.T, id string, opts ...RequestOption) APIResponse {
	return c.api.Get(t, c.api.endpoints.Post(id), opts...)
}

func (c *PostsClient) UpdateResponse(t *ldtest.T, id string, payload servicedef.Payload, opts ...RequestOption) APIResponse {
	return c.api.Put(t, c.api.endpoints.Post(id), payload, opts...)
}

func (c *PostsClient) DeleteResponse(t *ldtest.T, id string, opts ...RequestOption) APIResponse {
	return c.api.Delete(t, c.api.endpoints.Post(id), opts...)
}

func (c *PostsClient) ListResponse(t *ldtest.T, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.ListPosts(), limit, page), opts...)
}

func (c *PostsClient) ListByUserResponse(t *ldtest.T, userID string, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.PostsByUser(userID), limit, page), opts...)
}

// Create creates a post. The payload is built from params, so params.Owner is required; the
// test fails before anything is sent if it is missing.
func (c *PostsClient) Create(t *ldtest.T, params servicedef.PostParams) (string, servicedef.Post) {
	return c.create(t, params, nil)
}

func (c *PostsClient) create(t *ldtest.T, params servicedef.PostParams, created func(string)) (string, servicedef.Post) {
	payload, err := servicedef.NewPostPayload(params)
	require.NoError(t, err)
	var post servicedef.Post
	requireCreated(t, c.CreateResponse(t, payload), &post, created)
	return post.ID, post
}

func (c *PostsClient) Get(t *ldtest.T, id string) servicedef.Post {
	resp := c.GetResponse(t, id)
	RequireStatus(t, resp, 200)
	var post servicedef.Post
	RequireEntity(t, resp, &post)
	return post
}

func (c *PostsClient) Update(t *ldtest.T, id string, payload servicedef.Payload) servicedef.Post {
	resp := c.UpdateResponse(t, id, payload)
	RequireStatus(t, resp, 200)
	var post servicedef.Post
	RequireEntity(t, resp, &post)
	return post
}

func (c *PostsClient) Delete(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), false)
}

func (c *PostsClient) DeleteAllowingNotFound(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), true)
}

func (c *PostsClient) List(t *ldtest.T, limit, page int) []servicedef.PostPreview {
	resp := c.ListResponse(t, limit, page)
	RequireStatus(t, resp, 200)
	result, err := servicedef.DecodePage[servicedef.PostPreview](resp.Body)
	require.NoError(t, err)
	return result.Data
}

func (c *PostsClient) ListByUser(t *ldtest.T, userID string, limit, page int) []servicedef.PostPreview {
	resp := c.ListByUserResponse(t, userID, limit, page)
	RequireStatus(t, resp, 200)
	result, err := servicedef.DecodePage[servicedef.PostPreview](resp.Body)
	require.NoError(t, err)
	return result.Data
}
