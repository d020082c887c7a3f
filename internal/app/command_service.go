// internal/app/command_service.go
package app

import (
	"context"
	"errors"
	"fmt"

	"substitution_notification_bot/internal/domain/catalog"
	"substitution_notification_bot/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

// ErrInvalidInput marks requests answered with an informational reply instead of a failure.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidGrade = fmt.Errorf("%w: grade must be between %d and %d", ErrInvalidInput, catalog.MinGrade, catalog.MaxGrade)
	ErrUnknownClass = fmt.Errorf("%w: class is not in the catalog", ErrInvalidInput)
)

// Command is an inbound request from the chat layer. The set of variants is closed.
type Command interface {
	isCommand()
}

// SelectGrade starts the class selection flow (/klasa <grade>).
type SelectGrade struct {
	Community subscription.CommunityID
	Member    subscription.MemberID
	Channel   subscription.Target
	Grade     int
}

// ChooseClass is the member's pick from the class list.
type ChooseClass struct {
	Community  subscription.CommunityID
	Member     subscription.MemberID
	Channel    subscription.Target
	ClassName  string
	MemberName string
}

// CheckNow asks for today's or tomorrow's substitutions (/sprawdz).
type CheckNow struct {
	Community subscription.CommunityID
	Member    subscription.MemberID
	Which     Day
}

// JoinCommunity records that the bot was added to a chat.
type JoinCommunity struct {
	Community subscription.CommunityID
}

// LeaveCommunity records that the bot was removed from a chat.
type LeaveCommunity struct {
	Community subscription.CommunityID
}

func (SelectGrade) isCommand()    {}
func (ChooseClass) isCommand()    {}
func (CheckNow) isCommand()       {}
func (JoinCommunity) isCommand()  {}
func (LeaveCommunity) isCommand() {}

// Reply is what the chat layer shows in response to a command.
// ClassOptions, when set, are rendered as a pick list.
type Reply struct {
	Text         string
	ClassOptions []string
}

// CommandService applies commands to the subscription store and query service.
type CommandService struct {
	subs    subscription.Repository
	classes *catalog.Catalog
	query   *QueryService
	logger  *logrus.Entry
}

func NewCommandService(subs subscription.Repository, classes *catalog.Catalog, query *QueryService, logger *logrus.Entry) *CommandService {
	return &CommandService{
		subs:    subs,
		classes: classes,
		query:   query,
		logger:  logger,
	}
}

// Handle executes cmd. Errors wrapping ErrInvalidInput come with a Reply explaining the problem.
func (s *CommandService) Handle(ctx context.Context, cmd Command) (Reply, error) {
	switch c := cmd.(type) {
	case SelectGrade:
		return s.selectGrade(c)
	case ChooseClass:
		return s.chooseClass(c)
	case CheckNow:
		s.subs.RegisterCommunity(c.Community)
		res := s.query.Query(ctx, c.Community, c.Member, c.Which)
		return Reply{Text: RenderQueryResult(res)}, nil
	case JoinCommunity:
		s.subs.RegisterCommunity(c.Community)
		s.logger.WithField("community_id", c.Community).Info("Joined community")
		return Reply{}, nil
	case LeaveCommunity:
		s.subs.DeactivateCommunity(c.Community)
		s.logger.WithField("community_id", c.Community).Info("Left community")
		return Reply{}, nil
	default:
		return Reply{}, fmt.Errorf("unsupported command %T", cmd)
	}
}

func (s *CommandService) selectGrade(c SelectGrade) (Reply, error) {
	if !catalog.ValidGrade(c.Grade) {
		return Reply{Text: msgInvalidGrade}, ErrInvalidGrade
	}

	s.subs.RegisterCommunity(c.Community)
	s.subs.SetNotificationTarget(c.Community, c.Member, c.Channel)

	return Reply{
		Text:         fmt.Sprintf(msgChooseClass, c.Grade),
		ClassOptions: s.classes.Classes(c.Grade),
	}, nil
}

func (s *CommandService) chooseClass(c ChooseClass) (Reply, error) {
	if !s.classes.Contains(c.ClassName) {
		return Reply{Text: fmt.Sprintf(msgUnknownClass, c.ClassName)}, ErrUnknownClass
	}

	s.subs.RegisterCommunity(c.Community)
	s.subs.SetSelectedClass(c.Community, c.Member, c.ClassName)
	s.subs.SetNotificationTarget(c.Community, c.Member, c.Channel)

	s.logger.WithFields(logrus.Fields{
		"community_id": c.Community,
		"member_id":    c.Member,
		"class":        c.ClassName,
	}).Info("Class selected")

	return Reply{Text: fmt.Sprintf(msgClassSaved, c.ClassName, c.MemberName)}, nil
}
