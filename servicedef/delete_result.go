package servicedef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type DeleteResultKind int

const (
	// DeleteUnrecognized means the delete succeeded but the body did not tell us which id was
	// deleted: it was empty, or had a shape we do not know about.
	DeleteUnrecognized DeleteResultKind = iota

	// DeletedID means the body identified the deleted resource.
	DeletedID

	// DeleteNotFound means the resource did not exist (HTTP 404).
	DeleteNotFound
)

func (k DeleteResultKind) String() string {
	switch k {
	case DeletedID:
		return "deleted"
	case DeleteNotFound:
		return "not found"
	default:
		return "unrecognized"
	}
}

// DeleteResult is the normalized outcome of a delete request. The service may answer a
// successful delete with a bare id (quoted or not), an object with an "id" or "data" property,
// or nothing at all.
type DeleteResult struct {
	kind DeleteResultKind
	id   string
	raw  string
}

func NewDeletedID(id string) DeleteResult {
	return DeleteResult{kind: DeletedID, id: id, raw: id}
}

func NewDeleteNotFound() DeleteResult {
	return DeleteResult{kind: DeleteNotFound}
}

func NewDeleteUnrecognized(raw string) DeleteResult {
	return DeleteResult{kind: DeleteUnrecognized, raw: raw}
}

func (r DeleteResult) Kind() DeleteResultKind { return r.kind }

// ID returns the deleted id, if the result is DeletedID.
func (r DeleteResult) ID() (string, bool) {
	return r.id, r.kind == DeletedID
}

// Raw returns the response body the result was derived from.
func (r DeleteResult) Raw() string { return r.raw }

func (r DeleteResult) String() string {
	switch r.kind {
	case DeletedID:
		return fmt.Sprintf("deleted %q", r.id)
	case DeleteNotFound:
		return "not found"
	default:
		return fmt.Sprintf("unrecognized delete response %q", r.raw)
	}
}

// ParseDeleteResult normalizes the response to a delete request. A 404 status is DeleteNotFound;
// for any other status the body is inspected. It is up to the caller to decide which statuses
// are acceptable.
func ParseDeleteResult(status int, body []byte) DeleteResult {
	if status == 404 {
		return NewDeleteNotFound()
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return NewDeleteUnrecognized("")
	}
	if !json.Valid(trimmed) {
		id := strings.Trim(string(trimmed), `"`)
		if id == "" {
			return NewDeleteUnrecognized(string(trimmed))
		}
		return NewDeletedID(id)
	}
	value := ldvalue.Parse(trimmed)
	switch value.Type() {
	case ldvalue.StringType:
		if id := strings.TrimSpace(value.StringValue()); id != "" {
			return NewDeletedID(id)
		}
	case ldvalue.NumberType:
		// an all-digit id
		return NewDeletedID(value.JSONString())
	case ldvalue.ObjectType:
		for _, key := range []string{"id", "data"} {
			if v := value.GetByKey(key); v.Type() == ldvalue.StringType && v.StringValue() != "" {
				return NewDeletedID(v.StringValue())
			}
		}
	}
	return NewDeleteUnrecognized(string(trimmed))
}
