/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package bot

import "strings"

// Command is the closed set of actions the bridge understands. Parameters
// (the /ssh flag, the /ls path) are resolved here, before dispatch: only
// the file-listing path travels alongside the command.
type Command int

const (
	CmdUnknown Command = iota
	CmdStart
	CmdHelp
	CmdPing
	CmdSSHStatus
	CmdSSHEnable
	CmdSSHDisable
	CmdSSHUsage
	CmdListFiles
	CmdListUsage
	CmdLogout
)

// ParseCommand maps raw message text to a Command plus its argument (the
// folder path for CmdListFiles, empty otherwise). The bot-name suffix
// Telegram appends in groups ("/ssh@somebot on") is stripped.
func ParseCommand(text string) (Command, string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return CmdUnknown, ""
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}

	switch strings.ToLower(name) {
	case "start":
		return CmdStart, ""
	case "help":
		return CmdHelp, ""
	case "ping":
		return CmdPing, ""
	case "logout":
		return CmdLogout, ""
	case "ls":
		if len(fields) < 2 {
			return CmdListUsage, ""
		}
		return CmdListFiles, fields[1]
	case "ssh":
		if len(fields) == 1 {
			return CmdSSHStatus, ""
		}
		switch strings.ToLower(fields[1]) {
		case "on", "enable":
			return CmdSSHEnable, ""
		case "off", "disable":
			return CmdSSHDisable, ""
		default:
			return CmdSSHUsage, ""
		}
	default:
		return CmdUnknown, ""
	}
}
