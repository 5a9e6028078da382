package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/engine"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/session"
)

func TestStore(t *testing.T) {
	store := session.NewStore(engine.WithProfile(invoice.Profile{From: invoice.Party{Name: "Studio Nord"}}))

	a := store.Create()
	b := store.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "Studio Nord", a.State().Record.From.Name)

	got, err := store.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, store.Delete(a.ID))
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(a.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(a.ID), session.ErrNotFound)
}

func TestSession_ConcurrentWriters(t *testing.T) {
	sess := session.NewStore().Create()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = sess.Do(func(e *engine.Engine) error {
				e.AddItem(engine.ItemFields{})
				return nil
			})
		}()
	}

	wg.Wait()

	state := sess.State()
	assert.Equal(t, 50, state.Version)
	assert.Len(t, state.Record.Items, 50)
}
