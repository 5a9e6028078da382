package extractor_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/extractor"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestDecodeResponse(t *testing.T) {
	type testCase struct {
		name string
		text string
		want extractor.Response
	}

	tests := []testCase{
		{
			name: "StrictJSON",
			text: `{"updates":{"to":{"name":"Globex"}},"aiMessage":"What is their email?","done":false}`,
			want: extractor.Response{
				Updates:   invoice.PartialRecord{To: &invoice.PartyPatch{Name: new("Globex")}},
				AIMessage: "What is their email?",
			},
		},
		{
			name: "Fenced",
			text: "```json\n{\"updates\":{\"taxRate\":\"8%\"},\"aiMessage\":\"Any discount?\"}\n```",
			want: extractor.Response{
				Updates:   invoice.PartialRecord{TaxRate: new(8.0)},
				AIMessage: "Any discount?",
			},
		},
		{
			name: "WrappedInProse",
			text: `Sure! Here you go: {"updates":{},"aiMessage":"All set.","done":true} Let me know.`,
			want: extractor.Response{AIMessage: "All set.", Done: true},
		},
		{
			name: "Garbage",
			text: "I could not understand that.",
			want: extractor.Response{},
		},
		{
			name: "BrokenObject",
			text: `{"updates": {"notes": "x"`,
			want: extractor.Response{},
		},
		{
			name: "MalformedUpdates",
			text: `{"updates":["nope"],"aiMessage":"Again?"}`,
			want: extractor.Response{AIMessage: "Again?"},
		},
		{
			name: "DoneNotABool",
			text: `{"updates":{},"aiMessage":"ok","done":"yes"}`,
			want: extractor.Response{AIMessage: "ok"},
		},
		{
			name: "Empty",
			text: "",
			want: extractor.Response{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.DecodeResponse(tt.text))
		})
	}
}

func TestResponse_Reply(t *testing.T) {
	assert.Equal(t, extractor.DefaultReply, extractor.Response{}.Reply())
	assert.Equal(t, extractor.DefaultReply, extractor.Response{AIMessage: "   "}.Reply())
	assert.Equal(t, "Who is the client?", extractor.Response{AIMessage: " Who is the client? "}.Reply())
}

func TestResponse_UnmarshalJSON(t *testing.T) {
	var resp extractor.Response
	err := json.Unmarshal([]byte(`{"updates":{"items":[{"description":"Audit","unitPrice":"1,200"}]},"aiMessage":42}`), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Updates.Items, 1)
	assert.Equal(t, invoice.ActionAdd, resp.Updates.Items[0].Action)
	assert.Equal(t, new(1200.0), resp.Updates.Items[0].UnitPrice)
	assert.Equal(t, "42", resp.AIMessage)

	assert.Error(t, json.Unmarshal([]byte(`[]`), &resp))
}

func TestBuildPrompt(t *testing.T) {
	prompt := extractor.BuildPrompt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, "Today is 2024-03-01.")
	assert.Contains(t, prompt, "issueDate + 14 days")
	assert.Contains(t, prompt, `"aiMessage": string`)
}

func TestCurrentMessage(t *testing.T) {
	rec := invoice.Record{InvoiceNumber: "INV-7", Items: []invoice.LineItem{}}

	msg, err := extractor.CurrentMessage(rec)
	require.NoError(t, err)

	body, ok := strings.CutPrefix(msg, "Current known invoice JSON (may be partial):\n")
	require.True(t, ok)

	var got invoice.Record
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, rec, got)
}

func TestRateLimitError(t *testing.T) {
	cause := errors.New("quota exceeded")

	err := extractor.NewRateLimitError("gemini", cause, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini rate limited")

	err = extractor.NewRateLimitError("gemini", cause, 12)
	assert.Equal(t, 12*time.Second, err.RetryAfter)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30, extractor.ParseRetryAfter("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfter(""))
	assert.Equal(t, 0, extractor.ParseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestUpstreamError(t *testing.T) {
	err := &extractor.UpstreamError{Provider: "gemini", StatusCode: 500, Body: "boom"}

	assert.Equal(t, "gemini API error (status 500): boom", err.Error())
}
