/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package audit

import (
	"encoding/json"
	"os"

	"github.com/nethesis/nas-telegram-bridge/configuration"
	"github.com/nethesis/nas-telegram-bridge/logs"
	"github.com/nethesis/nas-telegram-bridge/models"
)

// Store appends an audit record as a JSON line to the configured audit
// file. A write failure is logged, never fatal: the audit trail must not
// take the bridge down. No-op when AUDIT_FILE is not configured.
func Store(record models.Audit) {
	if configuration.Config.AuditFile == "" {
		return
	}

	line, err := json.Marshal(record)
	if err != nil {
		logs.Log("[AUDIT] cannot marshal audit record: " + err.Error())
		return
	}

	f, err := os.OpenFile(configuration.Config.AuditFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		logs.Log("[AUDIT] cannot open audit file: " + err.Error())
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		logs.Log("[AUDIT] cannot write audit record: " + err.Error())
	}
}
