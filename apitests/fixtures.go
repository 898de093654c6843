package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"
)

// Fixtures creates users, posts, and comments for one test and deletes all of them when the
// test ends, whether it passed or failed.
//
// A resource is tracked as soon as the create response shows its id, even if the rest of the
// response turns out to be malformed.
//
// Deletion happens in dependency order: every comment, then every post, then every user, each
// group newest first. Resources that the test already deleted are skipped without error.
type Fixtures struct {
	t        *ldtest.T
	api      APITestContext
	users    []string
	posts    []string
	comments []string
}

func NewFixtures(t *ldtest.T) *Fixtures {
	f := &Fixtures{t: t, api: requireContext(t)}
	t.Defer(f.scheduleDeletes)
	return f
}

// CreateUser creates a user with random data.
func (f *Fixtures) CreateUser() (string, servicedef.User) {
	return f.api.Users.create(f.t, nil, func(id string) { f.users = append(f.users, id) })
}

// CreatePost creates a post. If params.Owner is empty, a new user is created to own it.
func (f *Fixtures) CreatePost(params servicedef.PostParams) (string, servicedef.Post) {
	if params.Owner == "" {
		params.Owner, _ = f.CreateUser()
	}
	return f.api.Posts.create(f.t, params, func(id string) { f.posts = append(f.posts, id) })
}

// CreateComment creates a comment. If params.Owner is empty, a new user is created to own it;
// if params.Post is empty, a new post is created, owned by the comment's owner.
func (f *Fixtures) CreateComment(params servicedef.CommentParams) (string, servicedef.Comment) {
	if params.Owner == "" {
		params.Owner, _ = f.CreateUser()
	}
	if params.Post == "" {
		params.Post, _ = f.CreatePost(servicedef.PostParams{Owner: params.Owner})
	}
	return f.api.Comments.create(f.t, params, func(id string) { f.comments = append(f.comments, id) })
}

// Each delete is a separate deferred action, so that one failed delete does not prevent the
// others. Deferred actions run last-in-first-out, so users are added first and comments last.
func (f *Fixtures) scheduleDeletes() {
	t := f.t
	for _, id := range f.users {
		id := id
		t.Defer(func() { f.api.Users.DeleteAllowingNotFound(t, id) })
	}
	for _, id := range f.posts {
		id := id
		t.Defer(func() { f.api.Posts.DeleteAllowingNotFound(t, id) })
	}
	for _, id := range f.comments {
		id := id
		t.Defer(func() { f.api.Comments.DeleteAllowingNotFound(t, id) })
	}
}
