/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package configuration

import (
	"os"
	"strconv"
	"time"
)

type Configuration struct {
	TelegramBotToken   string        `json:"telegram_bot_token"`
	NASBaseURL         string        `json:"nas_base_url"`
	NASUsername        string        `json:"nas_username"`
	NASPassword        string        `json:"nas_password"`
	AllowedChatID      int64         `json:"allowed_chat_id"`
	NASForceIPv4       bool          `json:"nas_force_ipv4"`
	NASTimeout         time.Duration `json:"nas_timeout"`
	ListenAddress      string        `json:"listen_address"`
	AuditFile          string        `json:"audit_file"`
	SessionIdleTimeout time.Duration `json:"session_idle_timeout"`
}

var Config = Configuration{}

func Init() {
	// read bot token from ENV
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" {
		Config.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	} else {
		os.Stderr.WriteString("TELEGRAM_BOT_TOKEN variable is empty. ")
		os.Exit(1)
	}

	// read NAS base URL
	if os.Getenv("NAS_BASE_URL") != "" {
		Config.NASBaseURL = os.Getenv("NAS_BASE_URL")
	} else {
		os.Stderr.WriteString("NAS_BASE_URL variable is empty. ")
		os.Exit(1)
	}

	// read NAS credentials
	if os.Getenv("NAS_USERNAME") != "" {
		Config.NASUsername = os.Getenv("NAS_USERNAME")
	} else {
		os.Stderr.WriteString("NAS_USERNAME variable is empty. ")
		os.Exit(1)
	}

	if os.Getenv("NAS_PASSWORD") != "" {
		Config.NASPassword = os.Getenv("NAS_PASSWORD")
	} else {
		os.Stderr.WriteString("NAS_PASSWORD variable is empty. ")
		os.Exit(1)
	}

	// read allowed chat id, must be a valid integer
	if os.Getenv("ALLOWED_CHAT_ID") != "" {
		chatID, err := strconv.ParseInt(os.Getenv("ALLOWED_CHAT_ID"), 10, 64)
		if err != nil {
			os.Stderr.WriteString("ALLOWED_CHAT_ID variable is not a valid integer. ")
			os.Exit(1)
		}
		Config.AllowedChatID = chatID
	} else {
		os.Stderr.WriteString("ALLOWED_CHAT_ID variable is empty. ")
		os.Exit(1)
	}

	// set IPv4 forcing flag
	Config.NASForceIPv4 = os.Getenv("NAS_FORCE_IPV4") == "true" || os.Getenv("NAS_FORCE_IPV4") == "1"

	// set NAS request timeout
	if os.Getenv("NAS_TIMEOUT") != "" {
		seconds, err := strconv.Atoi(os.Getenv("NAS_TIMEOUT"))
		if err != nil || seconds <= 0 {
			os.Stderr.WriteString("NAS_TIMEOUT variable is not a valid number of seconds. ")
			os.Exit(1)
		}
		Config.NASTimeout = time.Duration(seconds) * time.Second
	} else {
		Config.NASTimeout = 30 * time.Second
	}

	// set listen address
	if os.Getenv("LISTEN_ADDRESS") != "" {
		Config.ListenAddress = os.Getenv("LISTEN_ADDRESS")
	} else {
		Config.ListenAddress = "127.0.0.1:8080"
	}

	// set audit file, empty disables the audit trail
	Config.AuditFile = os.Getenv("AUDIT_FILE")

	// set NAS session idle timeout
	if os.Getenv("SESSION_IDLE_TIMEOUT") != "" {
		minutes, err := strconv.Atoi(os.Getenv("SESSION_IDLE_TIMEOUT"))
		if err != nil || minutes <= 0 {
			os.Stderr.WriteString("SESSION_IDLE_TIMEOUT variable is not a valid number of minutes. ")
			os.Exit(1)
		}
		Config.SessionIdleTimeout = time.Duration(minutes) * time.Minute
	} else {
		Config.SessionIdleTimeout = 60 * time.Minute
	}
}
