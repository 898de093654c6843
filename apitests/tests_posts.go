package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoPostTests(t *ldtest.T) {
	t.Run("CRUD", doPostCRUDTests)
	t.Run("regression", doPostRegressionTests)
	t.Run("negative", doPostNegativeTests)
}

func doPostCRUDTests(t *ldtest.T) {
	t.Run("create", func(t *ldtest.T) {
		f := NewFixtures(t)
		userID, _ := f.CreateUser()

		postID, post := f.CreatePost(servicedef.PostParams{Owner: userID})
		assert.Equal(t, postID, post.ID)
		require.NotNil(t, post.Owner)
		assert.Equal(t, userID, post.OwnerID())
	})

	t.Run("get by id", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, created := f.CreatePost(servicedef.PostParams{Owner: userID})

		fetched := api.Posts.Get(t, postID)
		assert.Equal(t, postID, fetched.ID)
		assert.Equal(t, created.Text, fetched.Text)
		require.NotNil(t, fetched.Owner)
		assert.Equal(t, userID, fetched.OwnerID())
	})

	t.Run("update text, likes, and tags", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: userID})

		updated := api.Posts.Update(t, postID, servicedef.UpdatePostPayload(servicedef.PostUpdate{
			Text:  ldvalue.NewOptionalString("Updated post text"),
			Likes: ldvalue.NewOptionalInt(123),
			Tags:  []string{"updated", "qa"},
		}))
		assert.Equal(t, postID, updated.ID)

		fetched := api.Posts.Get(t, postID)
		assert.Equal(t, "Updated post text", fetched.Text.StringValue())
		assert.Equal(t, ldvalue.NewOptionalInt(123), fetched.Likes)
		assert.Equal(t, []string{"updated", "qa"}, fetched.Tags)
		assert.Equal(t, userID, fetched.OwnerID())
	})

	t.Run("delete, then get returns 404", func(t *ldtest.T) {
		api := requireContext(t)
		postID, _ := NewFixtures(t).CreatePost(servicedef.PostParams{})

		api.Posts.Delete(t, postID)

		RequireStatus(t, api.Posts.GetResponse(t, postID), 404)
	})

	t.Run("list by user contains created posts", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		post1, _ := f.CreatePost(servicedef.PostParams{Owner: userID})
		post2, _ := f.CreatePost(servicedef.PostParams{Owner: userID})

		ids := servicedef.IDs(api.Posts.ListByUser(t, userID, widePageLimit, 0))
		assert.Contains(t, ids, post1)
		assert.Contains(t, ids, post2)
	})
}

func doPostRegressionTests(t *ldtest.T) {
	t.Run("create with explicit fields round-trips them", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		params := servicedef.PostParams{
			Owner: userID,
			Text:  "Round trip " + servicedef.UniqueSuffix(),
			Likes: 7,
			Tags:  []string{"round", "trip"},
		}

		postID, created := f.CreatePost(params)
		assert.Equal(t, params.Text, created.Text.StringValue())

		fetched := api.Posts.Get(t, postID)
		assert.Equal(t, params.Text, fetched.Text.StringValue())
		assert.Equal(t, servicedef.DefaultPostImage, fetched.Image.StringValue())
		assert.Equal(t, params.Likes, fetched.Likes.IntValue())
		assert.Equal(t, params.Tags, fetched.Tags)
	})

	t.Run("owner is created automatically when not given", func(t *ldtest.T) {
		api := requireContext(t)
		postID, post := NewFixtures(t).CreatePost(servicedef.PostParams{})
		require.NotEmpty(t, post.OwnerID())

		assert.Equal(t, post.OwnerID(), api.Posts.Get(t, postID).OwnerID())
	})

	t.Run("update text and likes keeps owner", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: userID})

		api.Posts.Update(t, postID, servicedef.UpdatePostPayload(servicedef.PostUpdate{
			Text:  ldvalue.NewOptionalString("Updated post text"),
			Likes: ldvalue.NewOptionalInt(123),
		}))

		fetched := api.Posts.Get(t, postID)
		assert.Equal(t, postID, fetched.ID)
		assert.Equal(t, "Updated post text", fetched.Text.StringValue())
		assert.Equal(t, 123, fetched.Likes.IntValue())
		assert.Equal(t, userID, fetched.OwnerID())
	})

	t.Run("update cannot change owner", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		ownerID, _ := f.CreateUser()
		otherUserID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: ownerID})

		resp := api.Posts.UpdateResponse(t, postID, servicedef.Payload{"owner": otherUserID})
		requireProtectedFieldUnchanged(t, resp, func() {
			assert.Equal(t, ownerID, api.Posts.Get(t, postID).OwnerID())
		})
	})

	t.Run("delete returns the deleted id", func(t *ldtest.T) {
		api := requireContext(t)
		postID, _ := NewFixtures(t).CreatePost(servicedef.PostParams{})

		// an empty body is allowed; the 404 below is what shows the post is gone
		if deletedID, ok := api.Posts.Delete(t, postID).ID(); ok {
			assert.Equal(t, postID, deletedID)
		}

		RequireStatus(t, api.Posts.GetResponse(t, postID), 404)
	})

	t.Run("list", func(t *ldtest.T) {
		api := requireContext(t)
		NewFixtures(t).CreatePost(servicedef.PostParams{})

		posts := api.Posts.List(t, listPageLimit, 0)
		assert.NotEmpty(t, posts)
		for _, p := range posts {
			assert.NotEmpty(t, p.ID)
		}
	})

	t.Run("list returns at most limit items", func(t *ldtest.T) {
		api := requireContext(t)
		NewFixtures(t).CreatePost(servicedef.PostParams{})

		posts := api.Posts.List(t, smallPageLimit, 0)
		assert.NotEmpty(t, posts)
		assert.LessOrEqual(t, len(posts), smallPageLimit)
	})

	t.Run("list by user contains created post", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: userID})

		posts := api.Posts.ListByUser(t, userID, widePageLimit, 0)
		assert.Contains(t, servicedef.IDs(posts), postID)
		for _, p := range posts {
			assert.Equal(t, userID, p.OwnerID())
		}
	})

	t.Run("payload without owner is refused before sending", func(t *ldtest.T) {
		_, err := servicedef.NewPostPayload(servicedef.PostParams{Text: "no owner here"})
		assert.Equal(t, servicedef.ErrOwnerRequired, err)
	})
}

func doPostNegativeTests(t *ldtest.T) {
	validPayload := func(t *ldtest.T) servicedef.Payload {
		ownerID, _ := NewFixtures(t).CreateUser()
		payload, err := servicedef.NewPostPayload(servicedef.PostParams{Owner: ownerID})
		require.NoError(t, err)
		return payload
	}

	t.Run("create without app-id returns APP_ID_MISSING", func(t *ldtest.T) {
		resp := requireContext(t).Posts.CreateResponse(t, validPayload(t), WithoutAppID())
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDMissing)
	})

	t.Run("create with invalid app-id returns APP_ID_NOT_EXIST", func(t *ldtest.T) {
		resp := requireContext(t).Posts.CreateResponse(t, validPayload(t), WithAppID(invalidAppID))
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDNotExist)
	})

	t.Run("create without owner returns BODY_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Posts.CreateResponse(t, validPayload(t).Without("owner"))
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	})

	t.Run("create with malformed owner returns BODY_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Posts.CreateResponse(t, validPayload(t).With("owner", malformedID))
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	})

	t.Run("get with malformed id returns PARAMS_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Posts.GetResponse(t, malformedID)
		RequireAPIError(t, resp, 400, servicedef.ErrorParamsNotValid)
	})

	t.Run("get unknown id returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		resp := requireContext(t).Posts.GetResponse(t, nonExistentID)
		RequireAPIError(t, resp, 404, servicedef.ErrorResourceNotFound)
	})

	t.Run("delete unknown id returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		resp := requireContext(t).Posts.DeleteResponse(t, nonExistentID)
		RequireAPIError(t, resp, 404, servicedef.ErrorResourceNotFound)
	})

	t.Run("unknown path returns PATH_NOT_FOUND", func(t *ldtest.T) {
		api := requireContext(t)
		resp := api.Raw.Get(t, api.Raw.Endpoints().Path("postzzz"))
		RequireAPIError(t, resp, 404, servicedef.ErrorPathNotFound)
	})
}
