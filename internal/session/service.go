package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/chat"
	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/extractor"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

var ErrEmptyMessage = errors.New("message is empty")

// Service is the mutation API used by the HTTP handlers and the TUI.
type Service struct {
	store     *Store
	extractor extractor.Extractor
}

func NewService(store *Store, ext extractor.Extractor) *Service {
	return &Service{store: store, extractor: ext}
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	Reply string       `json:"reply"`
	Done  bool         `json:"done"`
	State engine.State `json:"state"`
}

func (s *Service) Create() (uuid.UUID, engine.State) {
	sess := s.store.Create()
	return sess.ID, sess.State()
}

func (s *Service) State(id uuid.UUID) (engine.State, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return engine.State{}, err
	}

	return sess.State(), nil
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.store.Delete(id)
}

// Turn runs one conversational turn: the user message is logged, the
// extractor proposes updates for the current record, the updates are merged
// and the assistant's reply is logged.
//
// The session is not locked during the extractor call. If the extractor
// fails, nothing is merged and the error is returned; the user message stays
// in the log.
func (s *Service) Turn(ctx context.Context, id uuid.UUID, message string) (*TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	var current invoice.Record

	_ = sess.Do(func(e *engine.Engine) error {
		e.AppendChat(chat.RoleUser, message)
		current = e.Record()

		return nil
	})

	resp, err := s.extractor.Extract(ctx, extractor.Request{UserMessage: message, Current: current})
	if err != nil {
		slog.Warn("extractor failed", "session", id, "error", err)
		return nil, fmt.Errorf("extracting updates: %w", err)
	}

	if resp == nil {
		resp = &extractor.Response{}
	}

	result := &TurnResult{Reply: resp.Reply(), Done: resp.Done}

	_ = sess.Do(func(e *engine.Engine) error {
		e.ApplyUpdates(resp.Updates)
		e.AppendChat(chat.RoleAssistant, result.Reply)
		result.State = e.State()

		return nil
	})

	return result, nil
}

// Replay runs the given user turns in order and stops at the first failure.
// It returns how many turns were applied.
func (s *Service) Replay(ctx context.Context, id uuid.UUID, turns []string) (int, error) {
	applied := 0

	for _, turn := range turns {
		if strings.TrimSpace(turn) == "" {
			continue
		}

		if _, err := s.Turn(ctx, id, turn); err != nil {
			return applied, fmt.Errorf("turn %d: %w", applied+1, err)
		}

		applied++
	}

	slog.Info("transcript replayed", "session", id, "turns", applied)

	return applied, nil
}

func (s *Service) SetField(id uuid.UUID, path string, value any) (engine.State, error) {
	return s.mutate(id, func(e *engine.Engine) error {
		return e.SetField(path, value)
	})
}

func (s *Service) AddItem(id uuid.UUID, fields engine.ItemFields) (invoice.LineItem, engine.State, error) {
	var item invoice.LineItem

	state, err := s.mutate(id, func(e *engine.Engine) error {
		item = e.AddItem(fields)
		return nil
	})

	return item, state, err
}

func (s *Service) UpdateItem(id uuid.UUID, itemID string, fields engine.ItemFields) (engine.State, error) {
	return s.mutate(id, func(e *engine.Engine) error {
		e.UpdateItem(itemID, fields)
		return nil
	})
}

func (s *Service) RemoveItem(id uuid.UUID, itemID string) (engine.State, error) {
	return s.mutate(id, func(e *engine.Engine) error {
		e.RemoveItem(itemID)
		return nil
	})
}

func (s *Service) ApplyUpdates(id uuid.UUID, update invoice.PartialRecord) (engine.State, error) {
	return s.mutate(id, func(e *engine.Engine) error {
		e.ApplyUpdates(update)
		return nil
	})
}

func (s *Service) AppendChat(id uuid.UUID, role chat.Role, content string) (chat.Message, error) {
	if !role.Valid() {
		return chat.Message{}, fmt.Errorf("unknown role %q", role)
	}

	var msg chat.Message

	_, err := s.mutate(id, func(e *engine.Engine) error {
		msg = e.AppendChat(role, content)
		return nil
	})

	return msg, err
}

func (s *Service) Reset(id uuid.UUID) (engine.State, error) {
	return s.mutate(id, func(e *engine.Engine) error {
		e.Reset()
		return nil
	})
}

func (s *Service) mutate(id uuid.UUID, fn func(e *engine.Engine) error) (engine.State, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return engine.State{}, err
	}

	var state engine.State

	err = sess.Do(func(e *engine.Engine) error {
		if err := fn(e); err != nil {
			return err
		}

		state = e.State()

		return nil
	})
	if err != nil {
		return engine.State{}, err
	}

	return state, nil
}
