package apitests

import (
	"fmt"

	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// RequireAPIError verifies that a response is the service's error envelope with the expected
// status and error code, and returns the decoded body. It fails the test immediately otherwise.
func RequireAPIError(t *ldtest.T, resp APIResponse, expectedStatus int, expectedCode string) servicedef.ErrorBody {
	require.Equal(t, expectedStatus, resp.StatusCode, "%d %s", resp.StatusCode, string(resp.Body))

	body, err := servicedef.DecodeErrorBody(resp.Body)
	require.NoError(t, err)
	t.Attach(fmt.Sprintf("Error body (%s)", expectedCode), ldtest.ContentTypeJSON, resp.Body)

	require.Equal(t, expectedCode, body.Error, "%s", body)
	return body
}
