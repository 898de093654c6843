package fakeapi

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxBodySize = 1 << 20

// fieldErrors maps a request body property to what is wrong with it.
type fieldErrors map[string]string

func (e fieldErrors) requireString(body ldvalue.Value, key string, minLen, maxLen int) string {
	v := body.GetByKey(key)
	if v.IsNull() || (v.Type() == ldvalue.StringType && v.StringValue() == "") {
		e[key] = fmt.Sprintf("Path `%s` is required.", key)
		return ""
	}
	return e.checkString(key, v, minLen, maxLen)
}

// optionalString returns the property's value and true if it is present.
func (e fieldErrors) optionalString(body ldvalue.Value, key string, minLen, maxLen int) (string, bool) {
	v := body.GetByKey(key)
	if v.IsNull() {
		return "", false
	}
	return e.checkString(key, v, minLen, maxLen), true
}

func (e fieldErrors) checkString(key string, v ldvalue.Value, minLen, maxLen int) string {
	if v.Type() != ldvalue.StringType {
		e[key] = fmt.Sprintf("Path `%s` must be a string.", key)
		return ""
	}
	s := v.StringValue()
	switch {
	case len(s) < minLen:
		e[key] = fmt.Sprintf("Path `%s` (`%s`) is shorter than the minimum allowed length (%d).", key, s, minLen)
	case maxLen > 0 && len(s) > maxLen:
		e[key] = fmt.Sprintf("Path `%s` (`%s`) is longer than the maximum allowed length (%d).", key, s, maxLen)
	}
	return s
}

func (e fieldErrors) optionalInt(body ldvalue.Value, key string) (int, bool) {
	v := body.GetByKey(key)
	if v.IsNull() {
		return 0, false
	}
	if !v.IsInt() || v.IntValue() < 0 {
		e[key] = fmt.Sprintf("Path `%s` must be a non-negative integer.", key)
		return 0, false
	}
	return v.IntValue(), true
}

func (e fieldErrors) optionalStrings(body ldvalue.Value, key string) ([]string, bool) {
	v := body.GetByKey(key)
	if v.IsNull() {
		return nil, false
	}
	if v.Type() != ldvalue.ArrayType {
		e[key] = fmt.Sprintf("Path `%s` must be an array of strings.", key)
		return nil, false
	}
	ret := make([]string, 0, v.Count())
	for i := 0; i < v.Count(); i++ {
		item := v.GetByIndex(i)
		if item.Type() != ldvalue.StringType {
			e[key] = fmt.Sprintf("Path `%s` must be an array of strings.", key)
			return nil, false
		}
		ret = append(ret, item.StringValue())
	}
	return ret, true
}

// reference validates a property that must be the id of an existing user or post.
func (e fieldErrors) reference(body ldvalue.Value, key string, exists func(string) bool) string {
	id := e.requireString(body, key, 0, 0)
	if _, bad := e[key]; bad {
		return ""
	}
	if !isWellFormedID(id) || !exists(id) {
		e[key] = fmt.Sprintf("Path `%s` (`%s`) does not refer to an existing resource.", key, id)
		return ""
	}
	return id
}

// readBody parses the request body, which must be a JSON object. It writes a BODY_NOT_VALID
// response and returns false if it is not.
func readBody(w http.ResponseWriter, r *http.Request) (ldvalue.Value, bool) {
	data, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil || !json.Valid(data) {
		writeError(w, http.StatusBadRequest, errBodyNotValid, nil)
		return ldvalue.Null(), false
	}
	body := ldvalue.Parse(data)
	if body.Type() != ldvalue.ObjectType {
		writeError(w, http.StatusBadRequest, errBodyNotValid, nil)
		return ldvalue.Null(), false
	}
	return body, true
}

func (e fieldErrors) respond(w http.ResponseWriter) bool {
	if len(e) == 0 {
		return false
	}
	writeError(w, http.StatusBadRequest, errBodyNotValid, e)
	return true
}

func resourceNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errResourceNotFound, nil)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listUsers())
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	errs := fieldErrors{}
	u := userRecord{
		FirstName: errs.requireString(body, "firstName", 2, 50),
		LastName:  errs.requireString(body, "lastName", 2, 50),
		Email:     errs.requireString(body, "email", 3, 0),
	}
	u.Title, _ = errs.optionalString(body, "title", 0, 0)
	u.Gender, _ = errs.optionalString(body, "gender", 0, 0)
	u.DateOfBirth, _ = errs.optionalString(body, "dateOfBirth", 0, 0)
	u.Phone, _ = errs.optionalString(body, "phone", 5, 20)
	u.Picture, _ = errs.optionalString(body, "picture", 0, 0)
	if errs.respond(w) {
		return
	}
	created, ok := s.store.createUser(u)
	if !ok {
		writeError(w, http.StatusBadRequest, errBodyNotValid, fieldErrors{"email": "Email already used"})
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.getUser(chi.URLParam(r, idParam))
	if !ok {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// updateUser applies every property that is present, except email, which cannot be changed
// and is silently ignored.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	errs := fieldErrors{}
	firstName, hasFirstName := errs.optionalString(body, "firstName", 2, 50)
	lastName, hasLastName := errs.optionalString(body, "lastName", 2, 50)
	title, hasTitle := errs.optionalString(body, "title", 0, 0)
	gender, hasGender := errs.optionalString(body, "gender", 0, 0)
	dateOfBirth, hasDateOfBirth := errs.optionalString(body, "dateOfBirth", 0, 0)
	phone, hasPhone := errs.optionalString(body, "phone", 5, 20)
	picture, hasPicture := errs.optionalString(body, "picture", 0, 0)
	if errs.respond(w) {
		return
	}
	u, ok := s.store.updateUser(chi.URLParam(r, idParam), func(u *userRecord) {
		setIf(&u.FirstName, firstName, hasFirstName)
		setIf(&u.LastName, lastName, hasLastName)
		setIf(&u.Title, title, hasTitle)
		setIf(&u.Gender, gender, hasGender)
		setIf(&u.DateOfBirth, dateOfBirth, hasDateOfBirth)
		setIf(&u.Phone, phone, hasPhone)
		setIf(&u.Picture, picture, hasPicture)
	})
	if !ok {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, idParam)
	if !s.store.deleteUser(id) {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listPosts(nil))
}

func (s *Server) listPostsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, idParam)
	writePage(w, r, s.store.listPosts(func(p *postRecord) bool { return p.owner == userID }))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	errs := fieldErrors{}
	p := postRecord{
		Text:  errs.requireString(body, "text", 6, 1000),
		owner: errs.reference(body, "owner", s.store.hasUser),
	}
	p.Image, _ = errs.optionalString(body, "image", 0, 0)
	p.Link, _ = errs.optionalString(body, "link", 6, 200)
	p.Likes, _ = errs.optionalInt(body, "likes")
	p.Tags, _ = errs.optionalStrings(body, "tags")
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if errs.respond(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.store.createPost(p))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.getPost(chi.URLParam(r, idParam))
	if !ok {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updatePost applies every property that is present, except owner, which cannot be changed
// and is silently ignored.
func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	errs := fieldErrors{}
	text, hasText := errs.optionalString(body, "text", 6, 1000)
	image, hasImage := errs.optionalString(body, "image", 0, 0)
	link, hasLink := errs.optionalString(body, "link", 6, 200)
	likes, hasLikes := errs.optionalInt(body, "likes")
	tags, hasTags := errs.optionalStrings(body, "tags")
	if errs.respond(w) {
		return
	}
	p, ok := s.store.updatePost(chi.URLParam(r, idParam), func(p *postRecord) {
		setIf(&p.Text, text, hasText)
		setIf(&p.Image, image, hasImage)
		setIf(&p.Link, link, hasLink)
		setIf(&p.Likes, likes, hasLikes)
		setIf(&p.Tags, tags, hasTags)
	})
	if !ok {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, idParam)
	if !s.store.deletePost(id) {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listComments(nil))
}

func (s *Server) listCommentsByPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, idParam)
	writePage(w, r, s.store.listComments(func(c *commentRecord) bool { return c.Post == postID }))
}

func (s *Server) listCommentsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, idParam)
	writePage(w, r, s.store.listComments(func(c *commentRecord) bool { return c.Owner == userID }))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	errs := fieldErrors{}
	c := commentRecord{
		Message: errs.requireString(body, "message", 2, 500),
		Owner:   errs.reference(body, "owner", s.store.hasUser),
		Post:    errs.reference(body, "post", s.store.hasPost),
	}
	if errs.respond(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.store.createComment(c))
}

// deleteComment responds with the bare id as a JSON string, unlike the other deletes.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, idParam)
	if !s.store.deleteComment(id) {
		resourceNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func setIf[V any](target *V, value V, present bool) {
	if present {
		*target = value
	}
}
