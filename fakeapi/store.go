package fakeapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02T15:04:05.000Z"

type userRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Picture      string `json:"picture,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Email        string `json:"email"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Phone        string `json:"phone,omitempty"`
	RegisterDate string `json:"registerDate"`
	UpdatedDate  string `json:"updatedDate"`

	seq int
}

// userPreview is how a user appears in lists and as an owner.
type userPreview struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Picture   string `json:"picture,omitempty"`
}

type postRecord struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Image       string   `json:"image,omitempty"`
	Likes       int      `json:"likes"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags"`
	PublishDate string   `json:"publishDate"`
	UpdatedDate string   `json:"updatedDate"`

	owner string
	seq   int
}

type postView struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Image       string      `json:"image,omitempty"`
	Likes       int         `json:"likes"`
	Link        string      `json:"link,omitempty"`
	Tags        []string    `json:"tags"`
	PublishDate string      `json:"publishDate"`
	UpdatedDate string      `json:"updatedDate,omitempty"`
	Owner       userPreview `json:"owner"`
}

type commentRecord struct {
	ID          string
	Message     string
	Owner       string
	Post        string
	PublishDate string

	seq int
}

type commentView struct {
	ID          string      `json:"id"`
	Message     string      `json:"message"`
	Owner       userPreview `json:"owner"`
	Post        string      `json:"post"`
	PublishDate string      `json:"publishDate"`
}

// store holds everything in memory. Deleting a user or post does not delete what refers to it,
// so a view of an orphaned post or comment has an owner preview with only the id.
type store struct {
	lock     sync.RWMutex
	now      func() time.Time
	seq      int
	users    map[string]*userRecord
	emails   map[string]string
	posts    map[string]*postRecord
	comments map[string]*commentRecord
}

func newStore(now func() time.Time) *store {
	if now == nil {
		now = time.Now
	}
	return &store{
		now:      now,
		users:    make(map[string]*userRecord),
		emails:   make(map[string]string),
		posts:    make(map[string]*postRecord),
		comments: make(map[string]*commentRecord),
	}
}

// newID returns 24 lowercase hex characters, the same shape as the real service's ids.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func isWellFormedID(id string) bool {
	if len(id) != 24 {
		return false
	}
	for _, ch := range id {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			return false
		}
	}
	return true
}

func (s *store) timestamp() string {
	return s.now().UTC().Format(dateLayout)
}

func (s *store) nextSeq() int {
	s.seq++
	return s.seq
}

func (s *store) previewOf(userID string) userPreview {
	u, ok := s.users[userID]
	if !ok {
		return userPreview{ID: userID}
	}
	return userPreview{ID: u.ID, Title: u.Title, FirstName: u.FirstName, LastName: u.LastName, Picture: u.Picture}
}

func (s *store) postView(p *postRecord) postView {
	return postView{
		ID:          p.ID,
		Text:        p.Text,
		Image:       p.Image,
		Likes:       p.Likes,
		Link:        p.Link,
		Tags:        append([]string{}, p.Tags...),
		PublishDate: p.PublishDate,
		UpdatedDate: p.UpdatedDate,
		Owner:       s.previewOf(p.owner),
	}
}

func (s *store) commentView(c *commentRecord) commentView {
	return commentView{
		ID:          c.ID,
		Message:     c.Message,
		Owner:       s.previewOf(c.Owner),
		Post:        c.Post,
		PublishDate: c.PublishDate,
	}
}

// createUser returns false if the email is already used.
func (s *store) createUser(u userRecord) (userRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, taken := s.emails[strings.ToLower(u.Email)]; taken {
		return userRecord{}, false
	}
	u.ID = newID()
	u.RegisterDate = s.timestamp()
	u.UpdatedDate = u.RegisterDate
	u.seq = s.nextSeq()
	s.users[u.ID] = &u
	s.emails[strings.ToLower(u.Email)] = u.ID
	return u, true
}

func (s *store) getUser(id string) (userRecord, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return userRecord{}, false
	}
	return *u, true
}

func (s *store) hasUser(id string) bool {
	_, ok := s.getUser(id)
	return ok
}

func (s *store) updateUser(id string, update func(*userRecord)) (userRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok {
		return userRecord{}, false
	}
	update(u)
	u.UpdatedDate = s.timestamp()
	return *u, true
}

func (s *store) deleteUser(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	delete(s.emails, strings.ToLower(u.Email))
	delete(s.users, id)
	return true
}

func (s *store) listUsers() []userPreview {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records := make([]*userRecord, 0, len(s.users))
	for _, u := range s.users {
		records = append(records, u)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	ret := make([]userPreview, 0, len(records))
	for _, u := range records {
		ret = append(ret, s.previewOf(u.ID))
	}
	return ret
}

func (s *store) createPost(p postRecord) postView {
	s.lock.Lock()
	defer s.lock.Unlock()
	p.ID = newID()
	p.PublishDate = s.timestamp()
	p.UpdatedDate = p.PublishDate
	p.seq = s.nextSeq()
	s.posts[p.ID] = &p
	return s.postView(&p)
}

func (s *store) getPost(id string) (postView, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return postView{}, false
	}
	return s.postView(p), true
}

func (s *store) hasPost(id string) bool {
	_, ok := s.getPost(id)
	return ok
}

func (s *store) updatePost(id string, update func(*postRecord)) (postView, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return postView{}, false
	}
	update(p)
	p.UpdatedDate = s.timestamp()
	return s.postView(p), true
}

func (s *store) deletePost(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.posts[id]; !ok {
		return false
	}
	delete(s.posts, id)
	return true
}

// listPosts returns the posts that match, newest first. A nil match returns all of them.
func (s *store) listPosts(match func(*postRecord) bool) []postView {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records := make([]*postRecord, 0, len(s.posts))
	for _, p := range s.posts {
		if match == nil || match(p) {
			records = append(records, p)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	ret := make([]postView, 0, len(records))
	for _, p := range records {
		ret = append(ret, s.postView(p))
	}
	return ret
}

func (s *store) createComment(c commentRecord) commentView {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.ID = newID()
	c.PublishDate = s.timestamp()
	c.seq = s.nextSeq()
	s.comments[c.ID] = &c
	return s.commentView(&c)
}

func (s *store) deleteComment(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.comments[id]; !ok {
		return false
	}
	delete(s.comments, id)
	return true
}

func (s *store) listComments(match func(*commentRecord) bool) []commentView {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records := make([]*commentRecord, 0, len(s.comments))
	for _, c := range s.comments {
		if match == nil || match(c) {
			records = append(records, c)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	ret := make([]commentView, 0, len(records))
	for _, c := range records {
		ret = append(ret, s.commentView(c))
	}
	return ret
}
