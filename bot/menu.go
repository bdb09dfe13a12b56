/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback identifiers carried by the menu buttons. They are the only
// state between button presses: the router reconstructs the menu context
// from the identifier alone.
const (
	CallbackSSHMenu   = "ssh_menu"
	CallbackSSHOn     = "ssh_on"
	CallbackSSHOff    = "ssh_off"
	CallbackListFiles = "list_files"
	CallbackLogout    = "logout"
	CallbackBack      = "back"
)

// MainMenu builds the top-level menu keyboard.
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📁 List Files", CallbackListFiles),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖥️ SSH Control", CallbackSSHMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Logout", CallbackLogout),
		),
	)
}

// SSHMenu builds the SSH submenu keyboard.
func SSHMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Enable SSH", CallbackSSHOn),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Disable SSH", CallbackSSHOff),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back to Main Menu", CallbackBack),
		),
	)
}
