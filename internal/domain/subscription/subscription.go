// internal/domain/subscription/subscription.go
package subscription

// CommunityID identifies a chat the bot operates in.
type CommunityID int64

// MemberID identifies a user within a community.
type MemberID int64

// Target is the chat where automatic notifications for a member are delivered.
// The zero value means no target has been recorded.
type Target int64

// Subscription holds what a member configured in one community.
// Empty fields mean the member never set them.
type Subscription struct {
	SelectedClass string
	Target        Target
}

// Complete reports whether the member can receive automatic notifications.
func (s Subscription) Complete() bool {
	return s.SelectedClass != "" && s.Target != 0
}

// Member pairs a member with their subscription in a community.
type Member struct {
	ID MemberID
	Subscription
}
