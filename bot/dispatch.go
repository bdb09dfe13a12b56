/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nethesis/nas-telegram-bridge/logs"
	"github.com/nethesis/nas-telegram-bridge/models"
)

// Reply is the single outbound response produced for an inbound command.
type Reply struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

// CallbackResult is the outcome of a button press: the acknowledgment text
// shown to the user (possibly as an alert), an optional message edit and
// an optional plain follow-up message.
type CallbackResult struct {
	Ack     string
	Alert   bool
	Edit    *Reply
	Message string
}

const helpText = `Available commands:
/start - show the interactive menu
/help - display this help message
/ping - check if the bot is running
/ls path - list files in a directory
/ssh [on|off] - get SSH status or enable/disable SSH
/logout - terminate the NAS session

NAS settings are configured via environment variables:
- NAS_BASE_URL: base URL of the NAS (e.g. http://nas-ip:port)
- NAS_USERNAME: NAS username
- NAS_PASSWORD: NAS password`

const sshUsageText = "Usage: /ssh [on|off] - Get SSH status or enable/disable SSH"

const lsUsageText = "Usage: /ls path"

// dispatchCommand invokes at most one NAS operation and produces exactly
// one reply. NAS errors are rendered verbatim behind a fixed prefix.
func (b *Bot) dispatchCommand(cmd Command, arg string) Reply {
	switch cmd {
	case CmdStart:
		keyboard := MainMenu()
		return Reply{
			Text:     "Welcome to your personal NAS bot! Please select an option from the menu below:",
			Keyboard: &keyboard,
		}

	case CmdHelp:
		keyboard := MainMenu()
		return Reply{Text: helpText, Keyboard: &keyboard}

	case CmdPing:
		return Reply{Text: "Pong! Bot is running."}

	case CmdSSHStatus:
		enabled, err := b.nas.SSHStatus()
		if err != nil {
			logs.Log("[BOT] failed to get SSH status: " + err.Error())
			return Reply{Text: "Failed to get SSH status: " + err.Error()}
		}
		return Reply{Text: "SSH service is currently " + enabledText(enabled)}

	case CmdSSHEnable:
		if err := b.nas.SetSSH(true); err != nil {
			logs.Log("[BOT] failed to enable SSH service: " + err.Error())
			return Reply{Text: "Failed to enable SSH service: " + err.Error()}
		}
		return Reply{Text: "SSH service has been enabled"}

	case CmdSSHDisable:
		if err := b.nas.SetSSH(false); err != nil {
			logs.Log("[BOT] failed to disable SSH service: " + err.Error())
			return Reply{Text: "Failed to disable SSH service: " + err.Error()}
		}
		return Reply{Text: "SSH service has been disabled"}

	case CmdListFiles:
		files, err := b.nas.ListFiles(arg)
		if err != nil {
			logs.Log("[BOT] failed to list files: " + err.Error())
			return Reply{Text: "Failed to list files: " + err.Error()}
		}
		return Reply{Text: formatFileList(files)}

	case CmdListUsage:
		return Reply{Text: lsUsageText}

	case CmdLogout:
		if err := b.nas.Logout(); err != nil {
			logs.Log("[BOT] failed to logout from the NAS: " + err.Error())
			return Reply{Text: "Failed to logout from the NAS: " + err.Error()}
		}
		return Reply{Text: "Logged out from the NAS."}

	case CmdSSHUsage:
		return Reply{Text: sshUsageText}

	case CmdUnknown:
		return Reply{Text: "Unrecognized command. Use /help to see available commands."}

	default:
		return Reply{Text: "Unrecognized command. Use /help to see available commands."}
	}
}

// dispatchCallback maps a button-callback identifier to a NAS operation
// and the resulting acknowledgment and menu edit.
func (b *Bot) dispatchCallback(data string) CallbackResult {
	switch data {
	case CallbackSSHMenu:
		enabled, err := b.nas.SSHStatus()
		if err != nil {
			logs.Log("[BOT] failed to get SSH status: " + err.Error())
			return CallbackResult{Ack: "Failed to get SSH status: " + err.Error(), Alert: true}
		}
		keyboard := SSHMenu()
		return CallbackResult{Edit: &Reply{
			Text:     "SSH Control Menu (currently " + enabledText(enabled) + ")",
			Keyboard: &keyboard,
		}}

	case CallbackSSHOn:
		if err := b.nas.SetSSH(true); err != nil {
			logs.Log("[BOT] failed to enable SSH service: " + err.Error())
			return CallbackResult{Ack: "Failed to enable SSH service: " + err.Error(), Alert: true}
		}
		keyboard := MainMenu()
		return CallbackResult{
			Ack: "SSH service has been enabled",
			Edit: &Reply{
				Text:     "SSH service has been enabled. Please select an option from the menu below:",
				Keyboard: &keyboard,
			},
		}

	case CallbackSSHOff:
		if err := b.nas.SetSSH(false); err != nil {
			logs.Log("[BOT] failed to disable SSH service: " + err.Error())
			return CallbackResult{Ack: "Failed to disable SSH service: " + err.Error(), Alert: true}
		}
		keyboard := MainMenu()
		return CallbackResult{
			Ack: "SSH service has been disabled",
			Edit: &Reply{
				Text:     "SSH service has been disabled. Please select an option from the menu below:",
				Keyboard: &keyboard,
			},
		}

	case CallbackLogout:
		if err := b.nas.Logout(); err != nil {
			logs.Log("[BOT] failed to logout from the NAS: " + err.Error())
			return CallbackResult{Ack: "Failed to logout from the NAS: " + err.Error(), Alert: true}
		}
		keyboard := MainMenu()
		return CallbackResult{
			Ack: "Logged out from the NAS",
			Edit: &Reply{
				Text:     "Logged out from the NAS. Please select an option from the menu below:",
				Keyboard: &keyboard,
			},
		}

	case CallbackListFiles:
		return CallbackResult{
			Message: "Please enter the path to list files using the format:\n/ls path",
		}

	case CallbackBack:
		keyboard := MainMenu()
		return CallbackResult{Edit: &Reply{
			Text:     "Please select an option from the menu below:",
			Keyboard: &keyboard,
		}}

	default:
		return CallbackResult{Ack: "Unknown command"}
	}
}

// formatFileList renders a directory listing, one entry per line.
func formatFileList(files []models.FileInfo) string {
	if len(files) == 0 {
		return "No files found."
	}

	var sb strings.Builder
	sb.WriteString("Files:")
	for _, file := range files {
		icon := "📄"
		if file.IsDir {
			icon = "📁"
		}
		sb.WriteString("\n" + icon + " " + file.Name)
	}
	return sb.String()
}

func enabledText(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
