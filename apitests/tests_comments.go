package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoCommentTests(t *ldtest.T) {
	t.Run("CRUD", doCommentCRUDTests)
	t.Run("scenario", doCommentScenarioTests)
	t.Run("negative", doCommentNegativeTests)
}

func doCommentCRUDTests(t *ldtest.T) {
	t.Run("create", func(t *ldtest.T) {
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: userID})
		message := "Comment " + servicedef.UniqueSuffix()

		commentID, comment := f.CreateComment(servicedef.CommentParams{
			Owner:   userID,
			Post:    postID,
			Message: message,
		})
		assert.Equal(t, commentID, comment.ID)
		assert.Equal(t, message, comment.Message.StringValue())
		assert.Equal(t, userID, comment.OwnerID())
		if comment.Post.IsDefined() {
			assert.Equal(t, postID, comment.Post.StringValue())
		}
	})

	t.Run("list", func(t *ldtest.T) {
		api := requireContext(t)
		NewFixtures(t).CreateComment(servicedef.CommentParams{})

		comments := api.Comments.List(t, listPageLimit, 0)
		assert.NotEmpty(t, comments)
		assert.LessOrEqual(t, len(comments), listPageLimit)
		for _, c := range comments {
			assert.NotEmpty(t, c.ID)
		}
	})

	t.Run("list by post contains created comment", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		postID, _ := f.CreatePost(servicedef.PostParams{})
		commentID, created := f.CreateComment(servicedef.CommentParams{Post: postID})

		comments := api.Comments.ListByPost(t, postID, widePageLimit, 0)
		require.Contains(t, servicedef.IDs(comments), commentID)
		for _, c := range comments {
			if c.ID == commentID {
				assert.Equal(t, created.Message, c.Message)
			}
		}
	})

	t.Run("list by user contains created comment", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		commentID, _ := f.CreateComment(servicedef.CommentParams{Owner: userID})

		comments := api.Comments.ListByUser(t, userID, widePageLimit, 0)
		assert.Contains(t, servicedef.IDs(comments), commentID)
	})

	t.Run("delete, then second delete returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		api := requireContext(t)
		commentID, _ := NewFixtures(t).CreateComment(servicedef.CommentParams{})

		result := api.Comments.Delete(t, commentID)
		if deletedID, ok := result.ID(); ok {
			assert.Equal(t, commentID, deletedID)
		}

		RequireAPIError(t, api.Comments.DeleteResponse(t, commentID), 404, servicedef.ErrorResourceNotFound)
	})
}

func doCommentScenarioTests(t *ldtest.T) {
	t.Run("user, post, comment, list, delete", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)

		userID, _ := f.CreateUser()
		postID, post := f.CreatePost(servicedef.PostParams{Owner: userID})
		assert.Equal(t, userID, post.OwnerID())

		commentID, _ := f.CreateComment(servicedef.CommentParams{Owner: userID, Post: postID})

		assert.Contains(t, servicedef.IDs(api.Comments.ListByPost(t, postID, widePageLimit, 0)), commentID)

		api.Comments.Delete(t, commentID)
		assert.NotContains(t, servicedef.IDs(api.Comments.ListByPost(t, postID, widePageLimit, 0)), commentID)

		RequireStatus(t, api.Comments.DeleteResponse(t, commentID), 404)
	})

	t.Run("comment by another user on a post", func(t *ldtest.T) {
		api := requireContext(t)
		f := NewFixtures(t)

		postID, post := f.CreatePost(servicedef.PostParams{})
		commenterID, _ := f.CreateUser()
		commentID, comment := f.CreateComment(servicedef.CommentParams{Owner: commenterID, Post: postID})
		assert.Equal(t, commenterID, comment.OwnerID())
		assert.NotEqual(t, post.OwnerID(), comment.OwnerID())

		assert.Contains(t, servicedef.IDs(api.Comments.ListByUser(t, commenterID, widePageLimit, 0)), commentID)
		assert.NotContains(t, servicedef.IDs(api.Comments.ListByUser(t, post.OwnerID(), widePageLimit, 0)), commentID)
	})
}

func doCommentNegativeTests(t *ldtest.T) {
	validPayload := func(t *ldtest.T) servicedef.Payload {
		f := NewFixtures(t)
		userID, _ := f.CreateUser()
		postID, _ := f.CreatePost(servicedef.PostParams{Owner: userID})
		payload, err := servicedef.NewCommentPayload(servicedef.CommentParams{Owner: userID, Post: postID})
		require.NoError(t, err)
		return payload
	}

	t.Run("create without app-id returns APP_ID_MISSING", func(t *ldtest.T) {
		resp := requireContext(t).Comments.CreateResponse(t, validPayload(t), WithoutAppID())
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDMissing)
	})

	t.Run("create with invalid app-id returns APP_ID_NOT_EXIST", func(t *ldtest.T) {
		resp := requireContext(t).Comments.CreateResponse(t, validPayload(t), WithAppID(invalidAppID))
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDNotExist)
	})

	t.Run("list without app-id returns APP_ID_MISSING", func(t *ldtest.T) {
		resp := requireContext(t).Comments.ListResponse(t, smallPageLimit, 0, WithoutAppID())
		RequireAPIError(t, resp, 403, servicedef.ErrorAppIDMissing)
	})

	t.Run("create without owner returns BODY_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Comments.CreateResponse(t, validPayload(t).Without("owner"))
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	})

	t.Run("create without post returns BODY_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Comments.CreateResponse(t, validPayload(t).Without("post"))
		RequireAPIError(t, resp, 400, servicedef.ErrorBodyNotValid)
	})

	t.Run("list by malformed post id returns PARAMS_NOT_VALID", func(t *ldtest.T) {
		resp := requireContext(t).Comments.ListByPostResponse(t, malformedID, smallPageLimit, 0)
		RequireAPIError(t, resp, 400, servicedef.ErrorParamsNotValid)
	})

	t.Run("delete unknown id returns RESOURCE_NOT_FOUND", func(t *ldtest.T) {
		resp := requireContext(t).Comments.DeleteResponse(t, nonExistentID)
		RequireAPIError(t, resp, 404, servicedef.ErrorResourceNotFound)
	})

	t.Run("unknown path returns PATH_NOT_FOUND", func(t *ldtest.T) {
		api := requireContext(t)
		resp := api.Raw.Get(t, api.Raw.Endpoints().Path("commentzzz"))
		RequireAPIError(t, resp, 404, servicedef.ErrorPathNotFound)
	})

	t.Run("payload without owner or post is refused before sending", func(t *ldtest.T) {
		_, err := servicedef.NewCommentPayload(servicedef.CommentParams{Post: nonExistentID})
		assert.Equal(t, servicedef.ErrOwnerRequired, err)

		_, err = servicedef.NewCommentPayload(servicedef.CommentParams{Owner: nonExistentID})
		assert.Equal(t, servicedef.ErrPostRequired, err)
	})
}
