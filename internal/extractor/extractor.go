// Package extractor defines the contract with the language-understanding
// service that turns a user message into a partial invoice update.
package extractor

import (
	"context"
	"encoding/json"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// DefaultReply is sent back when the model produced no follow-up question.
const DefaultReply = "Please continue."

// Request is what the extractor sees for one turn.
type Request struct {
	UserMessage string         `json:"userMessage"`
	Current     invoice.Record `json:"current"`
}

// Response is the extractor's proposal for one turn.
type Response struct {
	Updates   invoice.PartialRecord `json:"updates"`
	AIMessage string                `json:"aiMessage"`
	Done      bool                  `json:"done"`
}

//go:generate mockgen -source=extractor.go -destination=extractor_mock.go -package=extractor
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Response, error)
}

// UnmarshalJSON decodes a response leniently: a malformed "updates" field
// becomes an empty update instead of an error.
func (r *Response) UnmarshalJSON(b []byte) error {
	var raw struct {
		Updates   json.RawMessage `json:"updates"`
		AIMessage any             `json:"aiMessage"`
		Done      any             `json:"done"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	r.Updates = invoice.DecodePartial(raw.Updates)
	r.AIMessage, _ = invoice.CoerceString(raw.AIMessage)
	r.Done, _ = raw.Done.(bool)

	return nil
}
