/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/nethesis/nas-telegram-bridge/logs"
)

// InlineCommand is one entry of the static command catalogue offered to
// inline autocomplete queries.
type InlineCommand struct {
	Title       string
	Description string
	Insert      string
}

// InlineCatalogue returns the commands advertised through inline queries.
func InlineCatalogue() []InlineCommand {
	return []InlineCommand{
		{Title: "/start", Description: "Show the interactive menu", Insert: "/start"},
		{Title: "/help", Description: "Display the help message", Insert: "/help"},
		{Title: "/ping", Description: "Check if the bot is running", Insert: "/ping"},
		{Title: "/ls", Description: "List files in a directory", Insert: "/ls "},
		{Title: "/ssh", Description: "Get the SSH service status", Insert: "/ssh"},
		{Title: "/ssh on", Description: "Enable the SSH service", Insert: "/ssh on"},
		{Title: "/ssh off", Description: "Disable the SSH service", Insert: "/ssh off"},
		{Title: "/logout", Description: "Terminate the NAS session", Insert: "/logout"},
	}
}

func (b *Bot) handleInline(query *tgbotapi.InlineQuery) {
	results := make([]interface{}, 0)

	// unauthorized users get an empty result list, the query is still
	// answered to clear the pending state
	if query.From != nil && b.authorized(query.From.ID) {
		for _, cmd := range InlineCatalogue() {
			article := tgbotapi.NewInlineQueryResultArticle(uuid.NewString(), cmd.Title, cmd.Insert)
			article.Description = cmd.Description
			results = append(results, article)
		}
	} else {
		logs.Log("[BOT] unauthorized inline query")
	}

	answer := tgbotapi.InlineConfig{
		InlineQueryID: query.ID,
		IsPersonal:    true,
		CacheTime:     0,
		Results:       results,
	}

	if _, err := b.api.Request(answer); err != nil {
		logs.Log("[BOT] failed to answer inline query: " + err.Error())
	}
}
