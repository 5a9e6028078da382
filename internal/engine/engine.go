// Package engine owns the canonical invoice of a session: it applies every
// mutation through the reconciler, recomputes totals and bumps the version.
//
// An Engine is not safe for concurrent use; callers serialize access.
package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/chat"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// State is an immutable snapshot of an engine.
type State struct {
	Record  invoice.Record `json:"record"`
	Chat    []chat.Message `json:"chat"`
	Version int            `json:"version"`
	Totals  invoice.Totals `json:"totals"`
}

// ItemFields carries the fields of a direct item edit; nil fields are untouched.
type ItemFields struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
}

type Option func(*Engine)

// WithIDFunc overrides the generator used for item and message ids.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithClock overrides the time source used for the seed dates and chat timestamps.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// WithProfile seeds new records with the given sender defaults.
func WithProfile(p invoice.Profile) Option {
	return func(e *Engine) { e.profile = p }
}

type Engine struct {
	newID   func() string
	now     func() time.Time
	profile invoice.Profile

	seedRecord invoice.Record
	seedChat   []chat.Message

	record  invoice.Record
	chat    *chat.Log
	version int
	totals  invoice.Totals
}

// New creates an engine holding the seed state: a fresh record, a greeting
// message and version 0.
func New(opts ...Option) *Engine {
	e := &Engine{
		newID: uuid.NewString,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.seedRecord = invoice.NewRecord(e.now(), e.profile)

	greeting := chat.NewLog(e.newID, e.now)
	greeting.Append(chat.RoleAssistant, chat.Greeting)
	e.seedChat = greeting.Messages()

	e.Reset()

	return e
}

// State returns a snapshot that shares nothing with the engine.
func (e *Engine) State() State {
	return State{
		Record:  e.record.Clone(),
		Chat:    e.chat.Messages(),
		Version: e.version,
		Totals:  e.totals,
	}
}

// Record returns a copy of the current record.
func (e *Engine) Record() invoice.Record {
	return e.record.Clone()
}

// Version returns the current version.
func (e *Engine) Version() int {
	return e.version
}

// Totals returns the totals of the current record.
func (e *Engine) Totals() invoice.Totals {
	return e.totals
}

// SetField writes a single field addressed by a dotted path such as "to.email".
// Unknown paths are rejected without touching the state. A value that cannot be
// coerced to the field's type leaves the previous value in place.
func (e *Engine) SetField(path string, value any) error {
	field, err := invoice.ParseField(path)
	if err != nil {
		return err
	}

	patch, err := field.Patch(value)
	if err != nil && !errors.Is(err, invoice.ErrInvalidValue) {
		return err
	}

	e.commit(invoice.Reconcile(e.record, patch, e.newID))

	return nil
}

// AddItem appends a new item, filling absent fields with defaults.
func (e *Engine) AddItem(fields ItemFields) invoice.LineItem {
	item := invoice.NewItem(e.newID(), fields.Description, fields.Quantity, fields.UnitPrice)

	next := e.record.Clone()
	next.Items = append(next.Items, item)
	e.commit(next)

	return item
}

// UpdateItem overwrites the given fields of the item with id. An unknown id
// leaves the items untouched.
func (e *Engine) UpdateItem(id string, fields ItemFields) {
	next := e.record
	if id != "" && next.ItemIndex(id) >= 0 {
		next = invoice.Reconcile(e.record, invoice.PartialRecord{
			Items: []invoice.ItemUpdate{{
				Action:      invoice.ActionUpdate,
				ID:          id,
				Description: fields.Description,
				Quantity:    fields.Quantity,
				UnitPrice:   fields.UnitPrice,
			}},
		}, e.newID)
	}

	e.commit(next)
}

// RemoveItem drops the item with id, keeping the order of the others.
func (e *Engine) RemoveItem(id string) {
	next := e.record.Clone()

	items := make([]invoice.LineItem, 0, len(next.Items))
	for _, it := range next.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}

	next.Items = items
	e.commit(next)
}

// ApplyUpdates merges a partial update coming from the conversation.
func (e *Engine) ApplyUpdates(update invoice.PartialRecord) {
	e.commit(invoice.Reconcile(e.record, update, e.newID))
}

// AppendChat logs a message. The record and version are not affected.
func (e *Engine) AppendChat(role chat.Role, content string) chat.Message {
	return e.chat.Append(role, content)
}

// Reset restores the seed state, including version 0.
func (e *Engine) Reset() {
	e.record = e.seedRecord.Clone()
	e.chat = chat.NewLog(e.newID, e.now, e.seedChat...)
	e.version = 0
	e.totals = invoice.ComputeTotals(e.record)
}

func (e *Engine) commit(next invoice.Record) {
	e.record = next
	e.totals = invoice.ComputeTotals(next)
	e.version++
}
