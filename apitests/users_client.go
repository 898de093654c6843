package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// UsersClient wraps the /user resource.
//
// Methods ending in Response are raw operations: they return whatever the service sent. The
// other methods are checked operations: they fail the test immediately if the status is not
// one that indicates success, and return decoded models.
type UsersClient struct {
	api *APIClient
}

func NewUsersClient(api *APIClient) *UsersClient {
	return &UsersClient{api: api}
}

func (c *UsersClient) CreateResponse(t *ldtest.T, payload servicedef.Payload, opts ...RequestOption) APIResponse {
	return c.api.Post(t, c.api.endpoints.CreateUser(), payload, opts...)
}

func (c *UsersClient) GetResponse(t *ldtest.T, id string, opts ...RequestOption) APIResponse {
	return c.api.Get(t, c.api.endpoints.User(id), opts...)
}

func (c *UsersClient) UpdateResponse(t *ldtest.T, id string, payload servicedef.Payload, opts ...RequestOption) APIResponse {
	return c.api.Put(t, c.api.endpoints.User(id), payload, opts...)
}

func (c *UsersClient) DeleteResponse(t *ldtest.T, id string, opts ...RequestOption) APIResponse {
	return c.api.Delete(t, c.api.endpoints.User(id), opts...)
}

func (c *UsersClient) ListResponse(t *ldtest.T, limit, page int, opts ...RequestOption) APIResponse {
	return c.api.Get(t, servicedef.WithPage(c.api.endpoints.ListUsers(), limit, page), opts...)
}

// Create creates a user from the given payload, or from servicedef.NewUserPayload() if payload
// is nil, and returns its id along with the created user.
func (c *UsersClient) Create(t *ldtest.T, payload servicedef.Payload) (string, servicedef.User) {
	return c.create(t, payload, nil)
}

func (c *UsersClient) create(t *ldtest.T, payload servicedef.Payload, created func(string)) (string, servicedef.User) {
	if payload == nil {
		payload = servicedef.NewUserPayload()
	}
	var user servicedef.User
	requireCreated(t, c.CreateResponse(t, payload), &user, created)
	return user.ID, user
}

func (c *UsersClient) Get(t *ldtest.T, id string) servicedef.User {
	resp := c.GetResponse(t, id)
	RequireStatus(t, resp, 200)
	var user servicedef.User
	RequireEntity(t, resp, &user)
	return user
}

func (c *UsersClient) Update(t *ldtest.T, id string, payload servicedef.Payload) servicedef.User {
	resp := c.UpdateResponse(t, id, payload)
	RequireStatus(t, resp, 200)
	var user servicedef.User
	RequireEntity(t, resp, &user)
	return user
}

// Delete deletes a user, failing the test if the user did not exist.
func (c *UsersClient) Delete(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), false)
}

// DeleteAllowingNotFound deletes a user, treating a 404 as success. It is used by cleanup code,
// where the test may already have deleted the user.
func (c *UsersClient) DeleteAllowingNotFound(t *ldtest.T, id string) servicedef.DeleteResult {
	return requireDeleteResult(t, c.DeleteResponse(t, id), true)
}

func (c *UsersClient) List(t *ldtest.T, limit, page int) []servicedef.UserPreview {
	resp := c.ListResponse(t, limit, page)
	RequireStatus(t, resp, 200)
	result, err := servicedef.DecodePage[servicedef.UserPreview](resp.Body)
	require.NoError(t, err)
	return result.Data
}
