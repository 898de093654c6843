package servicedef

import (
	"testing"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	var u User
	err := Decode([]byte(`{
		"id": "60d0fe4f5311236168a109ca",
		"firstName": "Sara",
		"lastName": "Andersen",
		"email": "sara@example.com",
		"phone": null,
		"location": {"city": "Oslo"}
	}`), &u)
	require.NoError(t, err)

	assert.Equal(t, "60d0fe4f5311236168a109ca", u.ID)
	assert.Equal(t, ldvalue.NewOptionalString("Sara"), u.FirstName)
	assert.Equal(t, ldvalue.NewOptionalString("sara@example.com"), u.Email)
	assert.False(t, u.Phone.IsDefined())
	assert.False(t, u.Title.IsDefined())
}

func TestDecodeRequiresID(t *testing.T) {
	var u User
	assert.Equal(t, ErrMissingID, Decode([]byte(`{"firstName":"Sara"}`), &u))
	assert.Equal(t, ErrMissingID, Decode([]byte(`{"id":""}`), &u))

	err := Decode([]byte(`not json`), &u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response body")
}

func TestPeekIDIgnoresOtherProperties(t *testing.T) {
	assert.Equal(t, "p1", PeekID([]byte(`{"id":"p1","tags":"not-a-list"}`)))
	assert.Equal(t, "", PeekID([]byte(`{"text":"no id"}`)))
	assert.Equal(t, "", PeekID([]byte(`not json`)))
	assert.Equal(t, "", PeekID([]byte(`["p1"]`)))

	var p Post
	assert.Error(t, Decode([]byte(`{"id":"p1","tags":"not-a-list"}`), &p))
}

func TestDecodePostWithOwner(t *testing.T) {
	var p Post
	require.NoError(t, Decode([]byte(`{
		"id": "p1",
		"text": "hello",
		"likes": 7,
		"tags": ["a", "b"],
		"owner": {"id": "u1", "firstName": "Sara"}
	}`), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 7, p.Likes.IntValue())
	assert.Equal(t, []string{"a", "b"}, p.Tags)
	assert.Equal(t, "u1", p.OwnerID())
	assert.False(t, p.Link.IsDefined())
}

func TestOwnerIDWithoutOwner(t *testing.T) {
	assert.Equal(t, "", PostPreview{ID: "p1"}.OwnerID())
	assert.Equal(t, "", Comment{ID: "c1"}.OwnerID())
}

func TestDecodeComment(t *testing.T) {
	var c Comment
	require.NoError(t, Decode([]byte(`{"id":"c1","message":"hi","owner":{"id":"u1"},"post":"p1"}`), &c))
	assert.Equal(t, "hi", c.Message.StringValue())
	assert.Equal(t, "u1", c.OwnerID())
	assert.Equal(t, "p1", c.Post.StringValue())
}

func TestDecodePage(t *testing.T) {
	page, err := DecodePage[UserPreview]([]byte(`{
		"data": [{"id": "u1", "firstName": "A"}, {"id": "u2"}],
		"total": 99,
		"page": 0,
		"limit": 2
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, IDs(page.Data))
	assert.Equal(t, ldvalue.NewOptionalInt(99), page.Total)
	assert.Equal(t, ldvalue.NewOptionalInt(2), page.Limit)
}

func TestDecodePageWithoutData(t *testing.T) {
	page, err := DecodePage[Comment]([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.Total.IsDefined())
}

func TestDecodePageRejectsItemWithoutID(t *testing.T) {
	_, err := DecodePage[PostPreview]([]byte(`{"data": [{"id": "p1"}, {"text": "no id"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list item 1")
	assert.ErrorIs(t, err, ErrMissingID)
}
