package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safelink-service/internal/db"
	"safelink-service/internal/model"
	"safelink-service/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	return New(repository.NewKVRepository(database), "disaster_app", zerolog.Nop())
}

type failingBackend struct{}

var errQuota = errors.New("quota exceeded")

func (failingBackend) Find(context.Context, string) ([]byte, error)  { return nil, errQuota }
func (failingBackend) Upsert(context.Context, string, []byte) error  { return errQuota }
func (failingBackend) Delete(context.Context, string) error          { return errQuota }
func (failingBackend) DeleteByPrefix(context.Context, string) error  { return errQuota }
func (failingBackend) Keys(context.Context, string) ([]string, error) { return nil, errQuota }

type corruptBackend struct{ failingBackend }

func (corruptBackend) Find(context.Context, string) ([]byte, error) { return []byte(`{not json`), nil }

func TestStore_RoundTripCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	acc := 8.0

	requests := []model.EmergencyRequest{
		{
			ID:             "req_1",
			Type:           model.EmergencyTypeMedical,
			CustomMessage:  "insulin",
			Location:       model.Location{Lat: 28.61, Lng: 77.21, Accuracy: &acc, Timestamp: now},
			Status:         model.RequestStatusAcknowledged,
			Priority:       model.RequestPriorityMedium,
			UserName:       "Asha",
			Timestamp:      now,
			AcknowledgedAt: &now,
			AssignedTo:     "Team 4",
		},
	}
	messages := []model.ChatMessage{
		{ID: "msg_1", RequestID: "req_1", Sender: model.SenderUser, SenderName: "Asha", Message: "hi", Timestamp: now},
	}
	notifications := []model.Notification{
		{ID: "notif_1", Title: "t", Message: "m", Type: model.NotificationSuccess, Timestamp: now, RequestID: "req_1"},
	}

	s.Set(ctx, KeyRequests, requests)
	s.Set(ctx, KeyChatMessages, messages)
	s.Set(ctx, KeyNotifications, notifications)

	gotRequests := Get(ctx, s, KeyRequests, []model.EmergencyRequest{})
	require.Len(t, gotRequests, 1)
	assert.Equal(t, requests[0].ID, gotRequests[0].ID)
	assert.True(t, requests[0].Timestamp.Equal(gotRequests[0].Timestamp))
	require.NotNil(t, gotRequests[0].AcknowledgedAt)
	assert.True(t, now.Equal(*gotRequests[0].AcknowledgedAt))
	require.NotNil(t, gotRequests[0].Location.Accuracy)
	assert.Equal(t, 8.0, *gotRequests[0].Location.Accuracy)
	assert.Equal(t, requests[0].AssignedTo, gotRequests[0].AssignedTo)
	assert.Nil(t, gotRequests[0].CompletedAt)

	gotMessages := Get(ctx, s, KeyChatMessages, []model.ChatMessage{})
	require.Len(t, gotMessages, 1)
	assert.Equal(t, messages[0].Message, gotMessages[0].Message)

	gotNotifications := Get(ctx, s, KeyNotifications, []model.Notification{})
	require.Len(t, gotNotifications, 1)
	assert.Equal(t, notifications[0].RequestID, gotNotifications[0].RequestID)
}

func TestStore_GetDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, "fallback", Get(ctx, s, KeyUserName, "fallback"))

	s.Set(ctx, KeyUserRole, nil)
	assert.Equal(t, model.ActorRole(""), Get(ctx, s, KeyUserRole, model.ActorRole("")))

	s.Set(ctx, KeyUserName, "Asha")
	assert.Equal(t, 7, Get(ctx, s, KeyUserName, 7), "type mismatch falls back")
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyUserName, "Asha")
	s.Set(ctx, KeyUserRole, model.ActorRoleCivilian)
	s.Remove(ctx, KeyUserName)
	assert.Equal(t, "", Get(ctx, s, KeyUserName, ""))
	assert.Equal(t, model.ActorRoleCivilian, Get(ctx, s, KeyUserRole, model.ActorRole("")))

	s.Clear(ctx)
	assert.Equal(t, model.ActorRole(""), Get(ctx, s, KeyUserRole, model.ActorRole("")))
}

func TestStore_KeysStayInNamespace(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	repo := repository.NewKVRepository(database)
	ctx := context.Background()

	app := New(repo, "disaster_app", zerolog.Nop())
	other := New(repo, "drill", zerolog.Nop())
	app.Set(ctx, KeyUserID, "user_1")
	app.Set(ctx, KeyRequests, []int{})
	other.Set(ctx, KeyUserID, "user_2")

	assert.ElementsMatch(t, []string{KeyUserID, KeyRequests}, app.Keys(ctx))
	assert.Equal(t, []string{KeyUserID}, other.Keys(ctx))

	app.Clear(ctx)
	assert.Empty(t, app.Keys(ctx))
	assert.Equal(t, []string{KeyUserID}, other.Keys(ctx))
}

func TestStore_FailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s := New(failingBackend{}, "disaster_app", zerolog.Nop())

	assert.NotPanics(t, func() {
		s.Set(ctx, KeyRequests, []int{1})
		s.Set(ctx, KeyRequests, make(chan int))
		s.Remove(ctx, KeyRequests)
		s.Clear(ctx)
	})
	assert.Nil(t, s.Keys(ctx))
	assert.Equal(t, []int{9}, Get(ctx, s, KeyRequests, []int{9}))

	corrupt := New(corruptBackend{}, "disaster_app", zerolog.Nop())
	assert.Equal(t, "d", Get(ctx, corrupt, KeyUserName, "d"))
}

func TestStore_Key(t *testing.T) {
	assert.Equal(t, "disaster_app_requests", New(failingBackend{}, "disaster_app", zerolog.Nop()).Key(KeyRequests))
	assert.Equal(t, "requests", New(failingBackend{}, "", zerolog.Nop()).Key(KeyRequests))
}
