package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceRe  = regexp.MustCompile("```(?:json)?\\s*")
	objectRe = regexp.MustCompile(`\{[\s\S]*\}`)
)

// DecodeResponse turns raw model output into a Response. Models sometimes wrap
// the JSON in Markdown fences or prose; the first JSON object found is used.
// Output with no usable object decodes to an empty response.
func DecodeResponse(text string) Response {
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return resp
	}

	cleaned := fenceRe.ReplaceAllString(text, "")

	match := objectRe.FindString(cleaned)
	if match == "" {
		return Response{}
	}

	if err := json.Unmarshal([]byte(match), &resp); err != nil {
		return Response{}
	}

	return resp
}

// Reply returns the follow-up question, or DefaultReply when there is none.
func (r Response) Reply() string {
	if msg := strings.TrimSpace(r.AIMessage); msg != "" {
		return msg
	}

	return DefaultReply
}
