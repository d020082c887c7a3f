// internal/infra/memory/subscription_store.go
package memory

import (
	"sort"
	"sync"
	"time"

	"substitution_notification_bot/internal/domain/subscription"
	"substitution_notification_bot/internal/domain/substitution"
)

type memberKey struct {
	community subscription.CommunityID
	member    subscription.MemberID
}

type communityState struct {
	members      map[subscription.MemberID]struct{}
	lastNotified time.Time // zero until the first dispatch
	active       bool      // false once the bot has left the chat
}

// SubscriptionStore keeps subscriptions and dispatch state in process memory.
// A single lock guards all maps; the data is small.
type SubscriptionStore struct {
	mu            sync.RWMutex
	subscriptions map[memberKey]subscription.Subscription
	communities   map[subscription.CommunityID]*communityState
}

var _ subscription.Repository = (*SubscriptionStore)(nil)

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subscriptions: make(map[memberKey]subscription.Subscription),
		communities:   make(map[subscription.CommunityID]*communityState),
	}
}

// community returns the state for id, creating it. Caller must hold the write lock.
func (s *SubscriptionStore) community(id subscription.CommunityID) *communityState {
	st, ok := s.communities[id]
	if !ok {
		st = &communityState{members: make(map[subscription.MemberID]struct{}), active: true}
		s.communities[id] = st
	}
	return st
}

func (s *SubscriptionStore) SetSelectedClass(community subscription.CommunityID, member subscription.MemberID, className string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{community, member}
	sub := s.subscriptions[key]
	sub.SelectedClass = className
	s.subscriptions[key] = sub
	s.community(community).members[member] = struct{}{}
}

func (s *SubscriptionStore) SetNotificationTarget(community subscription.CommunityID, member subscription.MemberID, target subscription.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{community, member}
	sub := s.subscriptions[key]
	sub.Target = target
	s.subscriptions[key] = sub
	s.community(community).members[member] = struct{}{}
}

func (s *SubscriptionStore) Get(community subscription.CommunityID, member subscription.MemberID) subscription.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscriptions[memberKey{community, member}]
}

// ListByCommunity returns every member with stored state in community, ordered by member ID.
func (s *SubscriptionStore) ListByCommunity(community subscription.CommunityID) []subscription.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.communities[community]
	if !ok {
		return nil
	}
	members := make([]subscription.Member, 0, len(st.members))
	for id := range st.members {
		members = append(members, subscription.Member{
			ID:           id,
			Subscription: s.subscriptions[memberKey{community, id}],
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

func (s *SubscriptionStore) LastNotifiedDate(community subscription.CommunityID) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.communities[community]
	if !ok || st.lastNotified.IsZero() {
		return time.Time{}, false
	}
	return st.lastNotified, true
}

func (s *SubscriptionStore) SetLastNotifiedDate(community subscription.CommunityID, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.community(community).lastNotified = substitution.DateOnly(date)
}

func (s *SubscriptionStore) ClaimDay(community subscription.CommunityID, date time.Time) bool {
	day := substitution.DateOnly(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.community(community)
	if st.lastNotified.Equal(day) {
		return false
	}
	st.lastNotified = day
	return true
}

// RegisterCommunity adds the community to the active set, reactivating it if the
// bot had left it earlier.
func (s *SubscriptionStore) RegisterCommunity(community subscription.CommunityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.community(community).active = true
}

// DeactivateCommunity removes the community from the active set. Subscriptions and
// the last notified date are kept, so rejoining the same day does not notify twice.
func (s *SubscriptionStore) DeactivateCommunity(community subscription.CommunityID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.communities[community]; ok {
		st.active = false
	}
}

// Communities returns the active communities in ascending ID order.
func (s *SubscriptionStore) Communities() []subscription.CommunityID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]subscription.CommunityID, 0, len(s.communities))
	for id, st := range s.communities {
		if st.active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
