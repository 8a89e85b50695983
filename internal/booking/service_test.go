// ABOUTME: Tests for the booking coordinator over a real SQLite store
// ABOUTME: Walks the full lifecycle: publish, book, confirm, reject, cancel

package booking

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reserv/reserveme/internal/policy"
	"github.com/reserv/reserveme/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, st, nil), st
}

func newTestUser(t *testing.T, st *store.SQLiteStore, email string) *store.User {
	t.Helper()
	user := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

var (
	testStart = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	testEnd   = testStart.Add(time.Hour)
)

func TestCreateSlot_Validation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"start after end", testEnd, testStart},
		{"start equals end", testStart, testStart},
		{"zero start", time.Time{}, testEnd},
		{"zero end", testStart, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSlot(ctx, owner.ID, tt.start, tt.end)
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, slot.OwnerID)
	assert.False(t, slot.CreatedAt.IsZero())

	_, err = svc.CreateSlot(ctx, owner.ID, testStart.Add(30*time.Minute), testEnd.Add(30*time.Minute))
	assert.ErrorIs(t, err, store.ErrSlotOverlap)
}

func TestBookingLifecycle(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)

	// Published slot is visible as available
	available, err := st.ListSlots(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 1)

	res, err := svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ReservationActive, res.Status)
	assert.Equal(t, requester.ID, res.RequesterID)

	// Booked slot disappears from the availability listing
	available, err = st.ListSlots(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	confirmed, err := svc.Confirm(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ReservationConfirmed, confirmed.Status)

	// Cancelling the confirmed reservation frees the slot again
	require.NoError(t, svc.Cancel(ctx, requester.ID, res.ID))

	available, err = st.ListSlots(ctx, true)
	require.NoError(t, err)
	assert.Len(t, available, 1)
}

func TestRequestBooking_Errors(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")
	other := newTestUser(t, st, "other@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)

	_, err = svc.RequestBooking(ctx, requester.ID, "nonexistent")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.RequestBooking(ctx, owner.ID, slot.ID)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)

	_, err = svc.RequestBooking(ctx, other.ID, slot.ID)
	assert.ErrorIs(t, err, store.ErrSlotTaken)
}

func TestConfirm_Errors(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)
	res, err := svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, owner.ID, "nonexistent")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The requester cannot confirm their own request
	_, err = svc.Confirm(ctx, requester.ID, res.ID)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = svc.Confirm(ctx, owner.ID, res.ID)
	require.NoError(t, err)

	// Confirming twice succeeds exactly once
	_, err = svc.Confirm(ctx, owner.ID, res.ID)
	assert.ErrorIs(t, err, store.ErrNotActive)
}

func TestCancel(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")
	stranger := newTestUser(t, st, "stranger@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)
	res, err := svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(ctx, stranger.ID, res.ID), policy.ErrForbidden)

	// Owner rejecting a pending request deletes it
	require.NoError(t, svc.Cancel(ctx, owner.ID, res.ID))

	// Repeating the call is observable, not a silent no-op
	assert.ErrorIs(t, svc.Cancel(ctx, owner.ID, res.ID), store.ErrNotFound)

	// Rejection frees the slot for another requester
	res2, err := svc.RequestBooking(ctx, stranger.ID, slot.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, stranger.ID, res2.ID))
}

func TestDeleteSlot(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteSlot(ctx, requester.ID, slot.ID), policy.ErrForbidden)

	res, err := svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)

	// A slot with a live reservation cannot be deleted out from under the requester
	assert.ErrorIs(t, svc.DeleteSlot(ctx, owner.ID, slot.ID), store.ErrSlotBooked)

	require.NoError(t, svc.Cancel(ctx, requester.ID, res.ID))
	require.NoError(t, svc.DeleteSlot(ctx, owner.ID, slot.ID))

	assert.ErrorIs(t, svc.DeleteSlot(ctx, owner.ID, slot.ID), store.ErrNotFound)
}

func TestRequestBooking_ConcurrentSingleWinner(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)

	const n = 32
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		requester := newTestUser(t, st, uuid.New().String()+"@example.com")
		wg.Add(1)
		go func(i int, requesterID string) {
			defer wg.Done()
			_, errs[i] = svc.RequestBooking(ctx, requesterID, slot.ID)
		}(i, requester.ID)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, store.ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent booking must win")
}

func TestListForUser_Classification(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")

	ownSlot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)
	theirSlot, err := svc.CreateSlot(ctx, requester.ID, testStart.Add(2*time.Hour), testEnd.Add(2*time.Hour))
	require.NoError(t, err)
	confirmedSlot, err := svc.CreateSlot(ctx, requester.ID, testStart.Add(4*time.Hour), testEnd.Add(4*time.Hour))
	require.NoError(t, err)

	incoming, err := svc.RequestBooking(ctx, requester.ID, ownSlot.ID)
	require.NoError(t, err)
	outgoing, err := svc.RequestBooking(ctx, owner.ID, theirSlot.ID)
	require.NoError(t, err)
	confirmed, err := svc.RequestBooking(ctx, owner.ID, confirmedSlot.ID)
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, requester.ID, confirmed.ID)
	require.NoError(t, err)

	views, err := svc.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	kinds := map[string]string{}
	for _, v := range views {
		kinds[v.ID] = v.Kind
	}
	assert.Equal(t, KindIncoming, kinds[incoming.ID])
	assert.Equal(t, KindOutgoing, kinds[outgoing.ID])
	assert.Equal(t, KindConfirmed, kinds[confirmed.ID])

	// The same reservations classified for the other party flip direction
	views, err = svc.ListForUser(ctx, requester.ID)
	require.NoError(t, err)
	kinds = map[string]string{}
	for _, v := range views {
		kinds[v.ID] = v.Kind
	}
	assert.Equal(t, KindOutgoing, kinds[incoming.ID])
	assert.Equal(t, KindIncoming, kinds[outgoing.ID])
	assert.Equal(t, KindConfirmed, kinds[confirmed.ID])
}

func TestListBySlot(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, st, "owner@example.com")
	requester := newTestUser(t, st, "requester@example.com")

	slot, err := svc.CreateSlot(ctx, owner.ID, testStart, testEnd)
	require.NoError(t, err)

	list, err := svc.ListBySlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	res, err := svc.RequestBooking(ctx, requester.ID, slot.ID)
	require.NoError(t, err)

	list, err = svc.ListBySlot(ctx, slot.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
}
