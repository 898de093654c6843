package servicedef

import (
	"net/url"
	"strconv"
	"strings"
)

// Endpoints builds the URLs of every resource on the service.
type Endpoints struct {
	baseURL string
}

func NewEndpoints(baseURL string) Endpoints {
	return Endpoints{baseURL: strings.TrimRight(baseURL, "/")}
}

func (e Endpoints) BaseURL() string { return e.baseURL }

// Path returns an arbitrary path on the service, for requests that deliberately do not
// correspond to any resource.
func (e Endpoints) Path(path string) string {
	return e.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (e Endpoints) ListUsers() string        { return e.baseURL + "/user" }
func (e Endpoints) CreateUser() string       { return e.baseURL + "/user/create" }
func (e Endpoints) User(id string) string    { return e.baseURL + "/user/" + url.PathEscape(id) }
func (e Endpoints) ListPosts() string        { return e.baseURL + "/post" }
func (e Endpoints) CreatePost() string       { return e.baseURL + "/post/create" }
func (e Endpoints) Post(id string) string    { return e.baseURL + "/post/" + url.PathEscape(id) }
func (e Endpoints) ListComments() string     { return e.baseURL + "/comment" }
func (e Endpoints) CreateComment() string    { return e.baseURL + "/comment/create" }
func (e Endpoints) Comment(id string) string { return e.baseURL + "/comment/" + url.PathEscape(id) }

func (e Endpoints) PostsByUser(userID string) string {
	return e.User(userID) + "/post"
}

func (e Endpoints) CommentsByPost(postID string) string {
	return e.Post(postID) + "/comment"
}

func (e Endpoints) CommentsByUser(userID string) string {
	return e.User(userID) + "/comment"
}

// WithPage adds pagination parameters to a list URL.
func WithPage(listURL string, limit, page int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	sep := "?"
	if strings.Contains(listURL, "?") {
		sep = "&"
	}
	return listURL + sep + q.Encode()
}
