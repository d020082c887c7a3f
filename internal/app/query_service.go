// internal/app/query_service.go
package app

import (
	"context"
	"strings"
	"time"

	"substitution_notification_bot/internal/domain/subscription"
	"substitution_notification_bot/internal/domain/substitution"

	"github.com/sirupsen/logrus"
)

// Day selects which calendar day a query asks about.
type Day int

const (
	Today Day = iota
	Tomorrow
)

// ParseDay accepts the Polish option names used by /sprawdz.
func ParseDay(s string) (Day, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dzisiaj", "dzis", "dziś":
		return Today, true
	case "jutro":
		return Tomorrow, true
	default:
		return Today, false
	}
}

// ResultKind tells which outcome a query produced.
type ResultKind int

const (
	ResultNoClassSelected ResultKind = iota
	ResultNoSubstitutionsPublished
	ResultNoSubstitutionsForClass
	ResultFound
)

// QueryResult is the outcome of an on-demand lookup. Date, ClassName and
// Records are set only for the kinds that carry them.
type QueryResult struct {
	Kind      ResultKind
	Date      time.Time
	ClassName string
	Records   []substitution.Record
}

// QueryService answers "what changes does my class have today/tomorrow".
type QueryService struct {
	subs    subscription.Repository
	fetcher substitution.Fetcher
	now     func() time.Time
	logger  *logrus.Entry
}

// NewQueryService creates a query service whose calendar follows now's location.
func NewQueryService(subs subscription.Repository, fetcher substitution.Fetcher, now func() time.Time, logger *logrus.Entry) *QueryService {
	return &QueryService{
		subs:    subs,
		fetcher: fetcher,
		now:     now,
		logger:  logger,
	}
}

func (s *QueryService) Query(ctx context.Context, community subscription.CommunityID, member subscription.MemberID, which Day) QueryResult {
	className := s.subs.Get(community, member).SelectedClass
	if className == "" {
		return QueryResult{Kind: ResultNoClassSelected}
	}

	date := substitution.DateOnly(s.now())
	if which == Tomorrow {
		date = date.AddDate(0, 0, 1)
	}

	log := s.logger.WithFields(logrus.Fields{
		"community_id": community,
		"member_id":    member,
		"class":        className,
	})
	records := substitution.FetchOrEmpty(ctx, s.fetcher, date, substitution.ModeClasses, log)
	if len(records) == 0 {
		return QueryResult{Kind: ResultNoSubstitutionsPublished, Date: date, ClassName: className}
	}

	matched := substitution.FilterByClass(records, className)
	if len(matched) == 0 {
		return QueryResult{Kind: ResultNoSubstitutionsForClass, Date: date, ClassName: className}
	}
	return QueryResult{Kind: ResultFound, Date: date, ClassName: className, Records: matched}
}
