package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// nonExistentID is well-formed, but never assigned to anything.
	nonExistentID = "000000000000000000000000"
	malformedID   = "123"
	invalidAppID  = "invalid-app-id"

	// The service does not accept a limit below 5.
	smallPageLimit = 5
	listPageLimit  = 10
	widePageLimit  = 50
)

func DoUserTests(t *ldtest.T) {
	t.Run("CRUD", doUserCRUDTests)
	t.Run("regression", doUserRegressionTests)
	t.Run("negative", doUserNegativeTests)
}

func doUserCRUDTests(t *ldtest.T) {
	t.Run("create, get, update, get, delete, get returns 404", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)

		userID, created := f.CreateUser()
		require.NotEmpty(t, userID)

		fetched := api.Users.Get(t, userID)
		assert.Equal(t, userID, fetched.ID)
		assertEqualIfBothDefined(t, created.Email, fetched.Email, "email")

		updated := api.Users.Update(t, userID, servicedef.Payload{
			"firstName": "UpdatedName",
			"lastName":  "UpdatedLast",
		})
		assert.Equal(t, userID, updated.ID)

		fetched = api.Users.Get(t, userID)
		assert.Equal(t, "UpdatedName", fetched.FirstName.StringValue())
		assert.Equal(t, "UpdatedLast", fetched.LastName.StringValue())

		api.Users.Delete(t, userID)

		RequireStatus(t, api.Users.GetResponse(t, userID), 404)
	})
}

func doUserRegressionTests(t *ldtest.T) {
	t.Run("create returns names and email", func(t *ldtest.T) {
		payload := servicedef.NewUserPayload()
		api := requireContext(t)
		f := NewFixtures(t)

		userID, user := f.CreateUser()
		assert.Equal(t, userID, user.ID)
		assert.NotEmpty(t, user.FirstName.StringValue())
		assert.NotEmpty(t, user.LastName.StringValue())
		assert.NotEmpty(t, user.Email.StringValue())

		// a user created from an explicit payload echoes its fields back
		explicitID, explicit := api.Users.Create(t, payload)
		t.Defer(func() { api.Users.DeleteAllowingNotFound(t, explicitID) })
		assert.Equal(t, payload["firstName"], explicit.FirstName.StringValue())
		assert.Equal(t, payload["lastName"], explicit.LastName.StringValue())
		assert.Equal(t, payload["email"], explicit.Email.StringValue())
	})

	t.Run("get by id", func(t *ldtest.T) {
		api := requireContext(t)
		userID, created := NewFixtures(t).CreateUser()

		fetched := api.Users.Get(t, userID)
		assert.Equal(t, userID, fetched.ID)
		assertEqualIfBothDefined(t, created.Email, fetched.Email, "email")
		assertEqualIfBothDefined(t, created.FirstName, fetched.FirstName, "firstName")
	})

	t.Run("list", func(t *ldtest.T) {
		api := requireContext(t)
		NewFixtures(t).CreateUser()

		users := api.Users.List(t, listPageLimit, 0)
		assert.NotEmpty(t, users)
		for _, u := range users {
			assert.NotEmpty(t, u.ID)
		}
	})

	t.Run("list returns at most limit items", func(t *ldtest.T) {
		api := requireContext(t)
		NewFixtures(t).CreateUser()

		users := api.Users.List(t, smallPageLimit, 0)
		assert.NotEmpty(t, users)
		assert.LessOrEqual(t, len(users), smallPageLimit)
	})

	t.Run("update changes names and keeps email", func(t *ldtest.T) {
		api := requireContext(t)
		userID, created := NewFixtures(t).CreateUser()

		update := servicedef.UpdateUserPayload()
		updated := api.Users.Update(t, userID, update)
		assert.Equal(t, userID, updated.ID)

		fetched := api.Users.Get(t, userID)
		assert.Equal(t, update["firstName"], fetched.FirstName.StringValue())
		assert.Equal(t, update["lastName"], fetched.LastName.StringValue())
		assertEqualIfBothDefined(t, created.Email, fetched.Email, "email")
	})

	t.Run("update cannot change email", func(t *ldtest.T) {
		api := requireContext(t)
		userID, created := NewFixtures(t).CreateUser()
		require.True(t, created.Email.IsDefined(), "created user has no email")

		changed := servicedef.NewUserPayload()["email"]
		resp := api.Users.UpdateResponse(t, userID, servicedef.Payload{"email": changed})
		requireProtectedFieldUnchanged(t, resp, func() {
			assert.Equal(t, created.Email, api.Users.Get(t, userID).Email)
		})
	})

	t.Run("delete, then get returns 404", func(t *ldtest.T) {
		api := requireContext(t)
		userID, _ := NewFixtures(t).CreateUser()

		api.Users.Delete(t, userID)

		RequireStatus(t, api.Users.GetResponse(t, userID), 404)
	})

	t.Run("second delete returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		api := requireContext(t)
		userID, _ := NewFixtures(t).CreateUser()

		api.Users.Delete(t, userID)

		RequireAPIError(t, api.Users.DeleteResponse(t, userID), 404, servicedef.ErrorResourceNotFound)
	})
}

func doUserNegativeTests(t *ldtest.T) {
	t.Run("list without app-id returns APP_ID_MISSING", func(t *ldtest.T) {
		resp := requireContext(t).Users.ListResponse(t, smallPageLimit, 0, WithoutAppID())
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDMissing)
	})

	t.Run("list with invalid app-id returns APP_ID_NOT_EXIST", func(t *ldtest.T) {
		resp := requireContext(t).Users.ListResponse(t, smallPageLimit, 0, WithAppID(invalidAppID))
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDNotExist)
	})

	t.Run("create without app-id returns APP_ID_MISSING", func(t *ldtest.T) {
		resp := requireContext(t).Users.CreateResponse(t, servicedef.NewUserPayload(), WithoutAppID())
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDMissing)
	})

	t.Run("create with invalid app-id returns APP_ID_NOT_EXIST", func(t *ldtest.T) {
		resp := requireContext(t).Users.CreateResponse(t, servicedef.NewUserPayload(), WithAppID(invalidAppID))
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDNotExist)
	})

	t.Run("create without lastName returns BODY_NOT_VALID", func(t *ldtest.T) {
		payload := servicedef.NewUserPayload().Without("lastName")
		resp := requireContext(t).Users.CreateResponse(t, payload)
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	})

	t.Run("get with malformed id returns PARAMS_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Users.GetResponse(t, malformedID)
		RequireAPIError(t, resp, 400, servicedef.ErrorParamsNotValid)
	})

	t.Run("get unknown id returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		resp := requireContext(t).Users.GetResponse(t, nonExistentID)
		RequireAPIError(t, resp, 404, servicedef.ErrorResourceNotFound)
	})

	t.Run("delete unknown id returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		resp := requireContext(t).Users.DeleteResponse(t, nonExistentID)
		RequireAPIError(t, resp, 404, servicedef.ErrorResourceNotFound)
	})

	t.Run("unknown path returns PATH_NOT_FOUND", func(t *ldtest.T) {
		api := requireContext(t)
		resp := api.Raw.Get(t, api.Raw.Endpoints().Path("userzzz"))
		RequireAPIError(t, resp, 404, servicedef.ErrorPathNotFound)
	})
}

func assertEqualIfBothDefined(t *ldtest.T, expected, actual ldvalue.OptionalString, field string) {
	if expected.IsDefined() && actual.IsDefined() {
		assert.Equal(t, expected.StringValue(), actual.StringValue(), "%s changed", field)
	}
}

// requireProtectedFieldUnchanged checks the response to an update that tried to change a field
// the service does not allow to change. The service may either reject the update with
// BODY_NOT_VALID, or accept it and leave the field alone; verifyUnchanged checks the latter.
func requireProtectedFieldUnchanged(t *ldtest.T, resp APIResponse, verifyUnchanged func()) {
	switch resp.StatusCode {
	case 400:
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	case 200:
		verifyUnchanged()
	default:
		require.Fail(t, "unexpected status for update of a read-only field",
			"expected 400 or 200 but got %d: %s", resp.StatusCode, string(resp.Body))
	}
}
