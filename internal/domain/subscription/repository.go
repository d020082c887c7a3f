// internal/domain/subscription/repository.go
package subscription

import "time"

// Repository stores per-member subscriptions and per-community dispatch state.
// Unknown communities and members resolve to zero values; no method fails.
type Repository interface {
	SetSelectedClass(community CommunityID, member MemberID, className string)
	SetNotificationTarget(community CommunityID, member MemberID, target Target)
	Get(community CommunityID, member MemberID) Subscription
	ListByCommunity(community CommunityID) []Member

	LastNotifiedDate(community CommunityID) (time.Time, bool)
	SetLastNotifiedDate(community CommunityID, date time.Time)
	// ClaimDay marks the community as notified for date and reports whether
	// this call made the mark. A second claim for the same date returns false.
	ClaimDay(community CommunityID, date time.Time) bool

	// RegisterCommunity and DeactivateCommunity maintain the set returned by
	// Communities. Deactivation keeps subscriptions and dispatch state.
	RegisterCommunity(community CommunityID)
	DeactivateCommunity(community CommunityID)
	Communities() []CommunityID
}
