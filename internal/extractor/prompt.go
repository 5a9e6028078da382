package extractor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// BuildPrompt returns the instruction sent ahead of every turn.
func BuildPrompt(today time.Time) string {
	return fmt.Sprintf(`You are an assistant collecting invoice details in a step-by-step conversation. Today is %s.
You MUST return STRICT JSON with three top-level fields:
{"updates": PartialInvoice, "aiMessage": string, "done": boolean}

PartialInvoice has this shape (any subset allowed):
{
  "from": {"name": string, "email": string, "phone": string, "address": string},
  "to": {"name": string, "email": string, "phone": string, "address": string},
  "invoiceNumber": string,
  "issueDate": string, // YYYY-MM-DD
  "dueDate": string,   // YYYY-MM-DD
  "currency": string,  // ISO code such as USD or EUR
  "taxRate": number,   // percent
  "discount": number,  // percent
  "items": [{"description": string, "quantity": number, "unitPrice": number, "action": "add" | "update", "id": string}],
  "notes": string,
  "terms": string
}

Rules:
- Respond with STRICT JSON only, no markdown, no extra text.
- "updates" contains only fields inferred from the latest user message.
- A newly mentioned item is returned in items with "action": "add".
- A correction to an existing item uses "action": "update" with its "id"; omit "id" to change the most recent item.
- If the user gives a price but no quantity, use quantity 1.
- Always set "aiMessage" to the next question, combining the next few missing fields in one concise message.
- Set "done": true only when every required field is present.

Required before done = true:
- from: name, email, phone, address
- to: name, email, phone, address
- invoiceNumber, issueDate, dueDate, currency
- at least one item with description, quantity and unitPrice (quantity > 0)
- taxRate and discount: ask for them unless the user explicitly declines (then set them to 0).

Only when the user asks you to fill in missing details may you generate: notes, terms, invoiceNumber,
issueDate (today), dueDate (issueDate + %d days). Never invent personal contact details.`,
		today.Format(time.DateOnly), invoice.SuggestedDueDays)
}

// CurrentMessage renders the record the model should build on.
func CurrentMessage(current invoice.Record) (string, error) {
	b, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling current record: %w", err)
	}

	return "Current known invoice JSON (may be partial):\n" + string(b), nil
}
