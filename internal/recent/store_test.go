package recent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeListStore struct {
	lists map[string][]string
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{lists: map[string][]string{}}
}

func (s *fakeListStore) Key(parts ...string) string {
	key := "bl"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func (s *fakeListStore) LPush(_ context.Context, key string, values ...string) error {
	for _, v := range values {
		s.lists[key] = append([]string{v}, s.lists[key]...)
	}
	return nil
}

func (s *fakeListStore) LRem(_ context.Context, key, value string) error {
	var kept []string
	for _, v := range s.lists[key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	s.lists[key] = kept
	return nil
}

func (s *fakeListStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	list := s.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	if stop >= int64(len(list)) || stop < 0 {
		stop = int64(len(list)) - 1
	}
	return list[start : stop+1], nil
}

func (s *fakeListStore) LTrim(_ context.Context, key string, start, stop int64) error {
	list := s.lists[key]
	if start >= int64(len(list)) {
		s.lists[key] = nil
		return nil
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	s.lists[key] = list[start : stop+1]
	return nil
}

func (s *fakeListStore) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func TestRecordDeduplicatesAndReorders(t *testing.T) {
	store, err := NewStore(newFakeListStore(), 0, 0)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "pm-1", first))
	require.NoError(t, store.Record(ctx, "pm-1", second))
	require.NoError(t, store.Record(ctx, "pm-1", first))

	ids, err := store.List(ctx, "pm-1")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first, second}, ids)
}

func TestRecordCapsListLength(t *testing.T) {
	store, _ := NewStore(newFakeListStore(), 5, time.Hour)
	ctx := context.Background()

	var newest uuid.UUID
	for i := 0; i < 8; i++ {
		newest = uuid.New()
		require.NoError(t, store.Record(ctx, "pm-1", newest))
	}

	ids, err := store.List(ctx, "pm-1")
	require.NoError(t, err)
	require.Len(t, ids, 5)
	require.Equal(t, newest, ids[0])
}

func TestListsAreScopedPerActor(t *testing.T) {
	store, _ := NewStore(newFakeListStore(), 0, 0)
	ctx := context.Background()

	projectID := uuid.New()
	require.NoError(t, store.Record(ctx, "pm-1", projectID))

	ids, err := store.List(ctx, "pm-2")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAnonymousActorIsSkipped(t *testing.T) {
	store, _ := NewStore(newFakeListStore(), 0, 0)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "", uuid.New()))
	ids, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Nil(t, ids)
}
