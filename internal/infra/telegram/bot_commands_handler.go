// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"substitution_notification_bot/internal/app"
	"substitution_notification_bot/internal/domain/subscription"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	uniqueSelectClass = "select_class"
	uniqueCheckDay    = "check_day"

	classButtonsPerRow = 2
)

// BotCommands is the list shown in the Telegram command menu.
var BotCommands = []telebot.Command{
	{Text: "klasa", Description: "Wybierz swoją klasę 1-5."},
	{Text: "sprawdz", Description: "Sprawdź zastępstwa dla swojej klasy (dzisiaj lub jutro)."},
}

// CommandHandler executes chat commands.
type CommandHandler interface {
	Handle(ctx context.Context, cmd app.Command) (app.Reply, error)
}

// RegisterBotCommandHandlers wires the bot's commands, buttons and membership updates.
func RegisterBotCommandHandlers(ctx context.Context, b *telebot.Bot, commands CommandHandler, baseLogger *logrus.Entry) {
	if err := b.SetCommands(BotCommands); err != nil {
		baseLogger.WithError(err).Warn("Failed to register bot command menu")
	}

	b.Handle("/klasa", func(c telebot.Context) error {
		handlerLogger := handlerLog(baseLogger, "/klasa", c)
		handlerLogger.Info("Command received")

		// A missing or non-numeric argument becomes grade 0, which the service rejects.
		var grade int
		if args := c.Args(); len(args) == 1 {
			grade, _ = strconv.Atoi(args[0])
		}

		reply, err := commands.Handle(ctx, app.SelectGrade{
			Community: subscription.CommunityID(c.Chat().ID),
			Member:    subscription.MemberID(c.Sender().ID),
			Channel:   subscription.Target(c.Chat().ID),
			Grade:     grade,
		})
		return send(c, reply, err, handlerLogger)
	})

	b.Handle(&telebot.InlineButton{Unique: uniqueSelectClass}, func(c telebot.Context) error {
		handlerLogger := handlerLog(baseLogger, uniqueSelectClass, c)
		respond(c, handlerLogger)

		reply, err := commands.Handle(ctx, app.ChooseClass{
			Community:  subscription.CommunityID(c.Chat().ID),
			Member:     subscription.MemberID(c.Sender().ID),
			Channel:    subscription.Target(c.Chat().ID),
			ClassName:  c.Data(),
			MemberName: displayName(c.Sender()),
		})
		return send(c, reply, err, handlerLogger)
	})

	b.Handle("/sprawdz", func(c telebot.Context) error {
		handlerLogger := handlerLog(baseLogger, "/sprawdz", c)
		handlerLogger.Info("Command received")

		which, ok := app.Today, false
		if args := c.Args(); len(args) == 1 {
			which, ok = app.ParseDay(args[0])
		}
		if !ok {
			return c.Send(app.MsgChooseDay, dayKeyboard())
		}
		return check(ctx, c, commands, which, handlerLogger)
	})

	b.Handle(&telebot.InlineButton{Unique: uniqueCheckDay}, func(c telebot.Context) error {
		handlerLogger := handlerLog(baseLogger, uniqueCheckDay, c)
		respond(c, handlerLogger)

		which, ok := app.ParseDay(c.Data())
		if !ok {
			handlerLogger.WithField("data", c.Data()).Warn("Unknown day option")
			return c.Send(app.MsgChooseDay, dayKeyboard())
		}
		return check(ctx, c, commands, which, handlerLogger)
	})

	b.Handle(telebot.OnMyChatMember, func(c telebot.Context) error {
		update := c.ChatMember()
		if update == nil || update.NewChatMember == nil {
			return nil
		}
		community := subscription.CommunityID(c.Chat().ID)

		var cmd app.Command
		switch update.NewChatMember.Role {
		case telebot.Left, telebot.Kicked:
			cmd = app.LeaveCommunity{Community: community}
		default:
			cmd = app.JoinCommunity{Community: community}
		}
		_, err := commands.Handle(ctx, cmd)
		return err
	})
}

func check(ctx context.Context, c telebot.Context, commands CommandHandler, which app.Day, log *logrus.Entry) error {
	reply, err := commands.Handle(ctx, app.CheckNow{
		Community: subscription.CommunityID(c.Chat().ID),
		Member:    subscription.MemberID(c.Sender().ID),
		Which:     which,
	})
	return send(c, reply, err, log)
}

// send delivers a command reply. Invalid input is answered with the service's text,
// anything else with the generic error message.
func send(c telebot.Context, reply app.Reply, err error, log *logrus.Entry) error {
	if err != nil {
		if !errors.Is(err, app.ErrInvalidInput) {
			log.WithError(err).Error("Command failed")
			return c.Send(app.MsgProcessingError)
		}
		log.WithError(err).Warn("Invalid command input")
	}
	if len(reply.ClassOptions) > 0 {
		return c.Send(reply.Text, classKeyboard(reply.ClassOptions))
	}
	return c.Send(reply.Text)
}

// respond acknowledges a button press so the client stops showing a spinner.
// A failed acknowledgement is logged and the handler carries on.
func respond(c telebot.Context, log *logrus.Entry) {
	if err := c.Respond(); err != nil {
		log.WithError(err).Warn("Failed to acknowledge callback")
	}
}

func handlerLog(base *logrus.Entry, handler string, c telebot.Context) *logrus.Entry {
	fields := logrus.Fields{"handler": handler}
	if c.Sender() != nil {
		fields["sender_id"] = c.Sender().ID
	}
	if c.Chat() != nil {
		fields["chat_id"] = c.Chat().ID
	}
	return base.WithFields(fields)
}

func classKeyboard(options []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for start := 0; start < len(options); start += classButtonsPerRow {
		end := start + classButtonsPerRow
		if end > len(options) {
			end = len(options)
		}
		var row telebot.Row
		for _, label := range options[start:end] {
			row = append(row, markup.Data(label, uniqueSelectClass, label))
		}
		rows = append(rows, row)
	}
	markup.Inline(rows...)
	return markup
}

func dayKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Dzisiaj", uniqueCheckDay, "dzisiaj"),
		markup.Data("Jutro", uniqueCheckDay, "jutro"),
	))
	return markup
}

func displayName(u *telebot.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
