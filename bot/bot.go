/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nethesis/nas-telegram-bridge/audit"
	"github.com/nethesis/nas-telegram-bridge/logs"
	"github.com/nethesis/nas-telegram-bridge/models"
	"github.com/nethesis/nas-telegram-bridge/synology"
)

// Telegram rejects answerCallbackQuery payloads whose text exceeds 200
// characters.
const maxCallbackTextLen = 200

// Bot wires the Telegram update stream to the NAS session client. Updates
// are processed one at a time: the NAS session is a single shared resource.
type Bot struct {
	api           *tgbotapi.BotAPI
	nas           *synology.Client
	allowedChatID int64
}

func New(token string, nas *synology.Client, allowedChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("cannot create bot API: %w", err)
	}
	api.Debug = false

	logs.Log("[BOT] authorized on account " + api.Self.UserName)

	return &Bot{
		api:           api,
		nas:           nas,
		allowedChatID: allowedChatID,
	}, nil
}

// Username returns the bot account name.
func (b *Bot) Username() string {
	if b.api != nil {
		return b.api.Self.UserName
	}
	return ""
}

// Run consumes the Telegram long-polling update stream until the process
// exits.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallback(update.CallbackQuery)
		case update.InlineQuery != nil:
			b.handleInline(update.InlineQuery)
		}
	}
}

// authorized implements the access guard: only the configured chat may
// reach the router.
func (b *Bot) authorized(chatID int64) bool {
	return chatID == b.allowedChatID
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}

	user := ""
	if message.From != nil {
		user = message.From.UserName
	}

	b.send(message.Chat.ID, b.messageReply(message.Chat.ID, user, message.Text))
}

// messageReply runs the guard and the command router for a text message
// and returns the single outbound reply.
func (b *Bot) messageReply(chatID int64, user, text string) Reply {
	if !b.authorized(chatID) {
		logs.Log(fmt.Sprintf("[BOT] unauthorized access attempt from user %s with chat ID %d", user, chatID))
		return Reply{Text: fmt.Sprintf("You are not authorized to use this bot. Your chat ID %d is not allowed.", chatID)}
	}

	audit.Store(models.Audit{
		User:      user,
		Action:    "command",
		Data:      text,
		Timestamp: time.Now().UTC(),
	})

	return b.dispatchCommand(ParseCommand(text))
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	result := b.callbackResult(query)

	// every callback press is acknowledged exactly once, even on denial,
	// to clear the pending-action indicator on the client
	text := truncateCallbackText(result.Ack)
	ack := tgbotapi.NewCallback(query.ID, text)
	if result.Alert {
		ack = tgbotapi.NewCallbackWithAlert(query.ID, text)
	}
	if _, err := b.api.Request(ack); err != nil {
		logs.Log("[BOT] failed to answer callback query: " + err.Error())
	}

	if result.Edit != nil && query.Message != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			result.Edit.Text,
			*result.Edit.Keyboard,
		)
		if _, err := b.api.Send(edit); err != nil {
			logs.Log("[BOT] failed to edit menu message: " + err.Error())
		}
	}

	if result.Message != "" && query.Message != nil {
		b.send(query.Message.Chat.ID, Reply{Text: result.Message})
	}
}

// truncateCallbackText caps an acknowledgment at the Telegram limit,
// counting runes so a multi-byte character is never split.
func truncateCallbackText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxCallbackTextLen {
		return text
	}
	return string(runes[:maxCallbackTextLen])
}

// callbackResult runs the guard and the callback router for a button press.
func (b *Bot) callbackResult(query *tgbotapi.CallbackQuery) CallbackResult {
	user := query.From.UserName

	if query.Message == nil || !b.authorized(query.Message.Chat.ID) {
		logs.Log(fmt.Sprintf("[BOT] unauthorized callback query from user %s", user))
		return CallbackResult{
			Ack:   "You are not authorized to use this bot.",
			Alert: true,
		}
	}

	audit.Store(models.Audit{
		User:      user,
		Action:    "callback",
		Data:      query.Data,
		Timestamp: time.Now().UTC(),
	})

	return b.dispatchCallback(query.Data)
}

func (b *Bot) send(chatID int64, reply Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Keyboard != nil {
		msg.ReplyMarkup = *reply.Keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		logs.Log("[BOT] failed to send message: " + err.Error())
	}
}
