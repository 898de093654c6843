package servicedef

import (
	"encoding/json"
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Error codes that the service puts in the "error" property of a 4xx response.
const (
	ErrorAppIDMissing     = "APP_ID_MISSING"
	ErrorAppIDNotExist    = "APP_ID_NOT_EXIST"
	ErrorParamsNotValid   = "PARAMS_NOT_VALID"
	ErrorBodyNotValid     = "BODY_NOT_VALID"
	ErrorResourceNotFound = "RESOURCE_NOT_FOUND"
	ErrorPathNotFound     = "PATH_NOT_FOUND"
)

// ErrorBody is the error envelope, {"error": "CODE", ...}. Data holds the optional "data"
// property, which for validation errors describes the offending fields; Raw holds the whole
// body.
type ErrorBody struct {
	Error string
	Data  ldvalue.Value
	Raw   ldvalue.Value
}

func (e ErrorBody) String() string {
	return e.Raw.JSONString()
}

// DecodeErrorBody parses an error envelope. The body must be a JSON object, but it is not an
// error for the "error" property to be missing; callers compare Error to what they expect.
func DecodeErrorBody(data []byte) (ErrorBody, error) {
	if !json.Valid(data) {
		return ErrorBody{}, fmt.Errorf("response is not JSON: %s", string(data))
	}
	raw := ldvalue.Parse(data)
	if raw.Type() != ldvalue.ObjectType {
		return ErrorBody{}, fmt.Errorf("response is not a JSON object: %s", string(data))
	}
	return ErrorBody{
		Error: raw.GetByKey("error").StringValue(),
		Data:  raw.GetByKey("data"),
		Raw:   raw,
	}, nil
}
