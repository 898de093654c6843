package ldtest

import (
	"encoding/json"
	"io"
	"time"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Attachment is a piece of diagnostic data, such as a request or response body, that is
// associated with a test result.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type reportFile struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Total       int          `json:"total"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Tests       []reportTest `json:"tests"`
}

type reportTest struct {
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	SkipReason  string             `json:"skipReason,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
	Attachments []reportAttachment `json:"attachments,omitempty"`
}

type reportAttachment struct {
	Name        string          `json:"name"`
	ContentType string          `json:"contentType"`
	Body        json.RawMessage `json:"body,omitempty"`
	Text        string          `json:"text,omitempty"`
}

// WriteJSONReport writes all test results, including their attachments, as a JSON document.
// JSON attachments are embedded as-is; anything else is embedded as a string.
func WriteJSONReport(w io.Writer, results Results, now time.Time) error {
	report := reportFile{GeneratedAt: now.UTC(), Total: len(results.Tests), Failed: len(results.Failures)}
	for _, r := range results.Tests {
		rt := reportTest{Name: r.TestID.String(), Status: "passed", SkipReason: r.SkipReason}
		if r.Skipped {
			rt.Status = "skipped"
			report.Skipped++
		}
		if len(r.Errors) != 0 {
			rt.Status = "failed"
		}
		for _, e := range r.Errors {
			rt.Errors = append(rt.Errors, e.Error())
		}
		for _, a := range r.Attachments {
			ra := reportAttachment{Name: a.Name, ContentType: a.ContentType}
			if a.ContentType == ContentTypeJSON && json.Valid(a.Data) {
				ra.Body = json.RawMessage(a.Data)
			} else {
				ra.Text = string(a.Data)
			}
			rt.Attachments = append(rt.Attachments, ra)
		}
		report.Tests = append(report.Tests, rt)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}
