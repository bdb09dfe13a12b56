/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import "encoding/json"

// NASResponse is the envelope returned by every Synology webapi call.
type NASResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *NASError       `json:"error,omitempty"`
}

type NASError struct {
	Code    int      `json:"code"`
	Details []string `json:"errors,omitempty"`
}

type AuthData struct {
	Sid string `json:"sid"`
}

// ServiceStatusData carries the SSH service flag. Firmware versions disagree
// on the field name, so all known variants are accepted.
type ServiceStatusData struct {
	ServiceStatus bool  `json:"service_status"`
	EnableSSH     *bool `json:"enable_ssh"`
	Enable        *bool `json:"enable"`
	Status        *bool `json:"status"`
	SSHStatus     *bool `json:"ssh_status"`
}

func (s ServiceStatusData) Enabled() bool {
	if s.ServiceStatus {
		return true
	}
	for _, flag := range []*bool{s.EnableSSH, s.Enable, s.Status, s.SSHStatus} {
		if flag != nil && *flag {
			return true
		}
	}
	return false
}

// FileListData is the payload of a FileStation list call.
type FileListData struct {
	Files  []FileInfo `json:"files"`
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
}

type FileInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"isdir"`
}
