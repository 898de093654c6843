package apitests

import (
	"github.com/dummyapi-qa/contract-tests/framework/harness"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
)

func RunTestSuite(
	h *harness.TestHarness,
	filter ldtest.Filter,
	testLogger ldtest.TestLogger,
) ldtest.Results {
	config := ldtest.TestConfiguration{
		Filter:     filter,
		TestLogger: testLogger,
		Context:    NewAPITestContext(h),
	}
	return ldtest.Run(config, func(t *ldtest.T) {
		t.Run("users", DoUserTests)
		t.Run("posts", DoPostTests)
		t.Run("comments", DoCommentTests)
	})
}
