package servicedef

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// The response types below only require "id". Every other field is optional and is undefined
// if the service omits it or sends null. Keys that are not declared here are discarded when
// decoding, so additions to the service's responses do not break the tests.

// ErrMissingID is returned by Decode if the response has no "id", or an empty one.
var ErrMissingID = errors.New(`response has no "id" property`)

// Entity is implemented by every response type that has a service-assigned id.
type Entity interface {
	EntityID() string
}

// UserPreview is the reduced form of a user that appears in lists and as the owner of posts
// and comments.
type UserPreview struct {
	ID        string                 `json:"id"`
	Title     ldvalue.OptionalString `json:"title"`
	FirstName ldvalue.OptionalString `json:"firstName"`
	LastName  ldvalue.OptionalString `json:"lastName"`
	Picture   ldvalue.OptionalString `json:"picture"`
}

type User struct {
	UserPreview
	Gender       ldvalue.OptionalString `json:"gender"`
	Email        ldvalue.OptionalString `json:"email"`
	DateOfBirth  ldvalue.OptionalString `json:"dateOfBirth"`
	Phone        ldvalue.OptionalString `json:"phone"`
	RegisterDate ldvalue.OptionalString `json:"registerDate"`
	UpdatedDate  ldvalue.OptionalString `json:"updatedDate"`
}

type PostPreview struct {
	ID          string                 `json:"id"`
	Text        ldvalue.OptionalString `json:"text"`
	Image       ldvalue.OptionalString `json:"image"`
	Likes       ldvalue.OptionalInt    `json:"likes"`
	Tags        []string               `json:"tags"`
	PublishDate ldvalue.OptionalString `json:"publishDate"`
	Owner       *UserPreview           `json:"owner"`
}

type Post struct {
	PostPreview
	Link        ldvalue.OptionalString `json:"link"`
	UpdatedDate ldvalue.OptionalString `json:"updatedDate"`
}

// Comment has the same shape in lists as when it is created.
type Comment struct {
	ID          string                 `json:"id"`
	Message     ldvalue.OptionalString `json:"message"`
	Owner       *UserPreview           `json:"owner"`
	Post        ldvalue.OptionalString `json:"post"`
	PublishDate ldvalue.OptionalString `json:"publishDate"`
}

func (u UserPreview) EntityID() string { return u.ID }
func (p PostPreview) EntityID() string { return p.ID }
func (c Comment) EntityID() string     { return c.ID }

// OwnerID returns the id of the post's owner, or "" if there is no owner in the response.
func (p PostPreview) OwnerID() string {
	if p.Owner == nil {
		return ""
	}
	return p.Owner.ID
}

// OwnerID returns the id of the comment's owner, or "" if there is no owner in the response.
func (c Comment) OwnerID() string {
	if c.Owner == nil {
		return ""
	}
	return c.Owner.ID
}

// Decode parses a response body into one of the response types, and fails if it has no id.
func Decode(data []byte, target Entity) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("malformed response body: %w", err)
	}
	if target.EntityID() == "" {
		return ErrMissingID
	}
	return nil
}

// PeekID returns the "id" property of a JSON object, or "" if there is none. Unlike Decode, it
// ignores every other property, so it works on bodies that would not decode.
func PeekID(data []byte) string {
	return ldvalue.Parse(data).GetByKey("id").StringValue()
}

// Page is the envelope of every list response.
type Page[E any] struct {
	Data  []E                 `json:"data"`
	Total ldvalue.OptionalInt `json:"total"`
	Page  ldvalue.OptionalInt `json:"page"`
	Limit ldvalue.OptionalInt `json:"limit"`
}

// IDs returns the ids of the items, in order.
func IDs[E Entity](items []E) []string {
	ret := make([]string, 0, len(items))
	for _, item := range items {
		ret = append(ret, item.EntityID())
	}
	return ret
}

type entityPointer[E any] interface {
	*E
	Entity
}

// DecodePage parses a list response. Every item must have an id.
func DecodePage[E any, P entityPointer[E]](data []byte) (Page[E], error) {
	var raw struct {
		Data  []json.RawMessage   `json:"data"`
		Total ldvalue.OptionalInt `json:"total"`
		Page  ldvalue.OptionalInt `json:"page"`
		Limit ldvalue.OptionalInt `json:"limit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Page[E]{}, fmt.Errorf("malformed list response body: %w", err)
	}
	page := Page[E]{Total: raw.Total, Page: raw.Page, Limit: raw.Limit, Data: make([]E, 0, len(raw.Data))}
	for i, itemData := range raw.Data {
		var item E
		if err := Decode(itemData, P(&item)); err != nil {
			return Page[E]{}, fmt.Errorf("list item %d: %w", i, err)
		}
		page.Data = append(page.Data, item)
	}
	return page, nil
}
