package servicedef

import (
	"errors"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	DefaultPostImage = "https://images.unsplash.com/photo-1542291026-7eec264c27ff"
	maxPhoneLength   = 14
	dateLayout       = "2006-01-02"
)

var (
	ErrOwnerRequired = errors.New("owner id is required")
	ErrPostRequired  = errors.New("post id is required")
)

var DefaultPostTags = []string{"qa", "go"}

// Payload is the JSON object sent as the body of a create or update request.
//
// The With and Without methods return modified copies, so a negative test can start from a
// valid payload and break exactly one thing about it.
type Payload map[string]interface{}

func (p Payload) With(key string, value interface{}) Payload {
	ret := p.copy()
	ret[key] = value
	return ret
}

func (p Payload) Without(keys ...string) Payload {
	ret := p.copy()
	for _, k := range keys {
		delete(ret, k)
	}
	return ret
}

func (p Payload) copy() Payload {
	ret := make(Payload, len(p)+1)
	for k, v := range p {
		ret[k] = v
	}
	return ret
}

// UniqueSuffix returns 8 random hex characters.
func UniqueSuffix() string {
	return uniqueHex()[:8]
}

func uniqueHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewUserPayload returns a valid body for creating a user. The email is unique for every call,
// since the service refuses to create two users with the same email.
func NewUserPayload() Payload {
	return Payload{
		"email":       "autotest_" + uniqueHex() + "@example.com",
		"firstName":   gofakeit.FirstName(),
		"lastName":    gofakeit.LastName(),
		"dateOfBirth": randomDateOfBirth(),
		"phone":       randomPhone(),
	}
}

// UpdateUserPayload returns a body that changes the user's names and phone.
func UpdateUserPayload() Payload {
	return Payload{
		"firstName": gofakeit.FirstName(),
		"lastName":  gofakeit.LastName(),
		"phone":     randomPhone(),
	}
}

func randomDateOfBirth() string {
	start := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)
	return gofakeit.DateRange(start, end).Format(dateLayout)
}

func randomPhone() string {
	phone := gofakeit.Phone()
	if len(phone) > maxPhoneLength {
		phone = phone[:maxPhoneLength]
	}
	return phone
}

// PostParams contains the fields of a new post. Only Owner is required; Text and Image get
// default values if empty, Tags gets DefaultPostTags if nil, and Likes defaults to zero.
type PostParams struct {
	Owner string
	Text  string
	Image string
	Likes int
	Tags  []string
}

func NewPostPayload(params PostParams) (Payload, error) {
	if params.Owner == "" {
		return nil, ErrOwnerRequired
	}
	if params.Text == "" {
		params.Text = "Auto post " + UniqueSuffix()
	}
	if params.Image == "" {
		params.Image = DefaultPostImage
	}
	if params.Tags == nil {
		params.Tags = DefaultPostTags
	}
	return Payload{
		"text":  params.Text,
		"image": params.Image,
		"likes": params.Likes,
		"tags":  append([]string(nil), params.Tags...),
		"owner": params.Owner,
	}, nil
}

// PostUpdate contains the fields to change in a post. Only the fields that are set are sent.
type PostUpdate struct {
	Text  ldvalue.OptionalString
	Image ldvalue.OptionalString
	Likes ldvalue.OptionalInt
	Link  ldvalue.OptionalString
	Tags  []string
}

func UpdatePostPayload(update PostUpdate) Payload {
	p := Payload{}
	if s, ok := update.Text.Get(); ok {
		p["text"] = s
	}
	if s, ok := update.Image.Get(); ok {
		p["image"] = s
	}
	if n, ok := update.Likes.Get(); ok {
		p["likes"] = n
	}
	if s, ok := update.Link.Get(); ok {
		p["link"] = s
	}
	if update.Tags != nil {
		p["tags"] = append([]string(nil), update.Tags...)
	}
	return p
}

// CommentParams contains the fields of a new comment. Owner and Post are required; Message gets
// a default value if empty.
type CommentParams struct {
	Owner   string
	Post    string
	Message string
}

func NewCommentPayload(params CommentParams) (Payload, error) {
	if params.Owner == "" {
		return nil, ErrOwnerRequired
	}
	if params.Post == "" {
		return nil, ErrPostRequired
	}
	if params.Message == "" {
		params.Message = "Auto comment " + UniqueSuffix()
	}
	return Payload{
		"message": params.Message,
		"owner":   params.Owner,
		"post":    params.Post,
	}, nil
}
