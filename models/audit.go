/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import "time"

type Audit struct {
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
