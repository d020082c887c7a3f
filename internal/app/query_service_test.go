package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"substitution_notification_bot/internal/domain/substitution"
	"substitution_notification_bot/internal/infra/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(now time.Time, records ...substitution.Record) (*QueryService, *memory.SubscriptionStore, *fakeFetcher) {
	store := memory.NewSubscriptionStore()
	fetcher := &fakeFetcher{records: records}
	log, _ := newTestLogger()
	return NewQueryService(store, fetcher, func() time.Time { return now }, log), store, fetcher
}

func TestQuery_ScenarioC_NoClassSelected(t *testing.T) {
	svc, store, fetcher := newQueryFixture(at(20, 10, 0))
	store.SetNotificationTarget(guildG, memberM, chatCh1)

	res := svc.Query(context.Background(), guildG, memberM, Today)

	assert.Equal(t, ResultNoClassSelected, res.Kind)
	assert.Zero(t, fetcher.calls())
}

func TestQuery_ResolvesDay(t *testing.T) {
	svc, store, fetcher := newQueryFixture(at(23, 7, 45))
	store.SetSelectedClass(guildG, memberM, "2a LO-p")

	svc.Query(context.Background(), guildG, memberM, Today)
	svc.Query(context.Background(), guildG, memberM, Tomorrow)

	require.Len(t, fetcher.dates, 2)
	assert.True(t, fetcher.dates[0].Equal(at(23, 0, 0)))
	assert.True(t, fetcher.dates[1].Equal(at(24, 0, 0)))
}

func TestQuery_Results(t *testing.T) {
	records := []substitution.Record{
		{ClassName: "1a LO-p", Rows: []string{"Historia -> wolne"}},
		{ClassName: "2a LO-p", Rows: []string{"Matematyka -> wolne"}},
		{ClassName: "2a LO-p", Rows: []string{"Biologia -> sala 3"}},
	}

	tests := []struct {
		name      string
		records   []substitution.Record
		fetchErr  error
		class     string
		wantKind  ResultKind
		wantCount int
	}{
		{name: "nothing published", class: "2a LO-p", wantKind: ResultNoSubstitutionsPublished},
		{name: "fetch failure looks like nothing published", fetchErr: fmt.Errorf("eof: %w", substitution.ErrFetchFailure), class: "2a LO-p", wantKind: ResultNoSubstitutionsPublished},
		{name: "other classes only", records: records, class: "3a LO-p", wantKind: ResultNoSubstitutionsForClass},
		{name: "found", records: records, class: "2a LO-p", wantKind: ResultFound, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, fetcher := newQueryFixture(at(21, 15, 0), tt.records...)
			fetcher.err = tt.fetchErr
			store.SetSelectedClass(guildG, memberM, tt.class)

			res := svc.Query(context.Background(), guildG, memberM, Tomorrow)

			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.class, res.ClassName)
			assert.True(t, res.Date.Equal(at(22, 0, 0)))
			assert.Len(t, res.Records, tt.wantCount)
		})
	}
}

func TestQuery_UsesCommunityScopedClass(t *testing.T) {
	svc, store, _ := newQueryFixture(at(21, 15, 0), substitution.Record{ClassName: "2a LO-p", Rows: []string{"x"}})
	store.SetSelectedClass(guildH, memberM, "2a LO-p")

	res := svc.Query(context.Background(), guildG, memberM, Today)

	assert.Equal(t, ResultNoClassSelected, res.Kind)
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in     string
		want   Day
		wantOK bool
	}{
		{in: "dzisiaj", want: Today, wantOK: true},
		{in: " Jutro ", want: Tomorrow, wantOK: true},
		{in: "dziś", want: Today, wantOK: true},
		{in: "pojutrze", want: Today, wantOK: false},
		{in: "", want: Today, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseDay(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
