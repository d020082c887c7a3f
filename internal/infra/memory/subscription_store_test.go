package memory

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"substitution_notification_bot/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	communityA subscription.CommunityID = -1001
	communityB subscription.CommunityID = -1002
	memberM    subscription.MemberID    = 7
	memberN    subscription.MemberID    = 8
)

func TestSubscriptionStore_UnknownKeysAreAbsent(t *testing.T) {
	store := NewSubscriptionStore()

	assert.Equal(t, subscription.Subscription{}, store.Get(communityA, memberM))
	assert.Empty(t, store.ListByCommunity(communityA))
	assert.Empty(t, store.Communities())

	_, ok := store.LastNotifiedDate(communityA)
	assert.False(t, ok)
}

func TestSubscriptionStore_SetFields(t *testing.T) {
	store := NewSubscriptionStore()

	store.SetNotificationTarget(communityA, memberM, 555)
	assert.Equal(t, subscription.Subscription{Target: 555}, store.Get(communityA, memberM))

	store.SetSelectedClass(communityA, memberM, "2a LO-p")
	store.SetSelectedClass(communityA, memberM, "3a LO-p")

	got := store.Get(communityA, memberM)
	assert.Equal(t, "3a LO-p", got.SelectedClass)
	assert.Equal(t, subscription.Target(555), got.Target)
	assert.True(t, got.Complete())
}

func TestSubscriptionStore_Independence(t *testing.T) {
	store := NewSubscriptionStore()

	store.SetSelectedClass(communityA, memberM, "2a LO-p")
	store.SetSelectedClass(communityB, memberM, "4TP Tech-p")
	store.SetSelectedClass(communityA, memberN, "1a LO-p")

	store.SetSelectedClass(communityA, memberM, "2b LO-p")

	assert.Equal(t, "2b LO-p", store.Get(communityA, memberM).SelectedClass)
	assert.Equal(t, "4TP Tech-p", store.Get(communityB, memberM).SelectedClass)
	assert.Equal(t, "1a LO-p", store.Get(communityA, memberN).SelectedClass)
}

func TestSubscriptionStore_ListByCommunity(t *testing.T) {
	store := NewSubscriptionStore()
	store.SetSelectedClass(communityA, memberN, "1a LO-p")
	store.SetNotificationTarget(communityA, memberM, 99)
	store.SetSelectedClass(communityB, memberM, "2a LO-p")

	members := store.ListByCommunity(communityA)

	require.Len(t, members, 2)
	assert.Equal(t, memberM, members[0].ID)
	assert.Equal(t, subscription.Target(99), members[0].Target)
	assert.Equal(t, memberN, members[1].ID)
	assert.Equal(t, "1a LO-p", members[1].SelectedClass)
	assert.Equal(t, []subscription.CommunityID{communityB, communityA}, store.Communities())
}

func TestSubscriptionStore_ClaimDay(t *testing.T) {
	store := NewSubscriptionStore()
	evening := time.Date(2026, 10, 19, 20, 1, 0, 0, time.UTC)

	assert.True(t, store.ClaimDay(communityA, evening))
	assert.False(t, store.ClaimDay(communityA, evening.Add(90*time.Minute)))
	assert.True(t, store.ClaimDay(communityB, evening))

	last, ok := store.LastNotifiedDate(communityA)
	require.True(t, ok)
	assert.True(t, last.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))

	assert.True(t, store.ClaimDay(communityA, evening.AddDate(0, 0, 1)))
}

func TestSubscriptionStore_ClaimDayConcurrent(t *testing.T) {
	store := NewSubscriptionStore()
	now := time.Date(2026, 10, 19, 21, 0, 0, 0, time.UTC)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.ClaimDay(communityA, now) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestSubscriptionStore_SetLastNotifiedDate(t *testing.T) {
	store := NewSubscriptionStore()
	store.SetLastNotifiedDate(communityA, time.Date(2026, 10, 19, 22, 15, 0, 0, time.UTC))

	assert.False(t, store.ClaimDay(communityA, time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)))
}

func TestSubscriptionStore_DeactivateCommunity(t *testing.T) {
	store := NewSubscriptionStore()
	evening := time.Date(2026, 10, 20, 20, 0, 0, 0, time.UTC)

	store.RegisterCommunity(communityB)
	store.SetSelectedClass(communityA, memberM, "2a LO-p")
	require.True(t, store.ClaimDay(communityA, evening))

	store.DeactivateCommunity(communityA)
	store.DeactivateCommunity(-42)

	assert.Equal(t, []subscription.CommunityID{communityB}, store.Communities())
	assert.Equal(t, "2a LO-p", store.Get(communityA, memberM).SelectedClass)
	last, ok := store.LastNotifiedDate(communityA)
	require.True(t, ok)
	assert.True(t, last.Equal(substitutionDay(evening)))

	store.RegisterCommunity(communityA)
	assert.Equal(t, []subscription.CommunityID{communityB, communityA}, store.Communities())
	assert.False(t, store.ClaimDay(communityA, evening.Add(30*time.Minute)))
}

func TestSubscriptionStore_SetFieldsDoNotReactivate(t *testing.T) {
	store := NewSubscriptionStore()
	store.RegisterCommunity(communityA)
	store.DeactivateCommunity(communityA)

	store.SetSelectedClass(communityA, memberM, "3a LO-p")
	store.SetNotificationTarget(communityA, memberM, 5)

	assert.Empty(t, store.Communities())
	assert.True(t, store.Get(communityA, memberM).Complete())
}

func substitutionDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
