package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"substitution_notification_bot/internal/domain/substitution"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/telebot.v3"
)

var warsaw = time.FixedZone("CET", 3600)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, warsaw)
}

type fakeFetcher struct {
	mu      sync.Mutex
	records []substitution.Record
	err     error
	dates   []time.Time
}

func (f *fakeFetcher) Fetch(_ context.Context, date time.Time, _ substitution.Mode) ([]substitution.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dates)
}

type sentMessage struct {
	chatID int64
	text   string
}

var errChatNotFound = errors.New("telegram: chat not found (400)")

type fakeTelegram struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeTelegram) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[chatID] {
		return errChatNotFound
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeTelegram) messagesTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.sent {
		if m.chatID == chatID {
			texts = append(texts, m.text)
		}
	}
	return texts
}

func (f *fakeTelegram) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestLogger() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}
