/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package synology

import "fmt"

// Vendor error codes with a dedicated meaning for the session lifecycle.
const (
	codePermissionDenied = 105
	codeSessionTimeout   = 106
	codeDuplicateLogin   = 107
	codeInvalidSession   = 119
)

// TransportError is returned when the NAS cannot be reached at all
// (connection failure or request timeout). The session token, if any,
// is left untouched.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach the NAS (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError is returned when login or logout fails.
type AuthError struct {
	Code   int
	Reason string
}

func (e *AuthError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("NAS authentication failed with error code %d - %s", e.Code, ErrorDescription(e.Code))
	}
	return "NAS authentication failed: " + e.Reason
}

// PermissionError is returned for vendor code 105. On DSM the terminal API
// rejects sessions opened over IPv6 with this code, so the message carries
// the remedy.
type PermissionError struct {
	Code int
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("NAS API error %d - %s If the NAS is reached over IPv6 the terminal API denies access: set NAS_FORCE_IPV4=true to pin the connection to IPv4.",
		e.Code, ErrorDescription(e.Code))
}

// APIError is returned for any other non-success vendor response.
type APIError struct {
	Code    int
	Op      string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("NAS API error %d - %s (%s)", e.Code, ErrorDescription(e.Code), e.Op)
	}
	return fmt.Sprintf("NAS API error (%s): %s", e.Op, e.Message)
}

// ErrorDescription maps a Synology webapi error code to the description
// published in the vendor API guide.
func ErrorDescription(code int) string {
	switch code {
	case 100:
		return "Unknown error."
	case 101:
		return "No parameter of API, method or version."
	case 102:
		return "The requested API does not exist."
	case 103:
		return "The requested method does not exist."
	case 104:
		return "The requested version does not support the functionality."
	case 105:
		return "The logged in session does not have permission."
	case 106:
		return "Session timeout."
	case 107:
		return "Session interrupted by duplicated login."
	case 108:
		return "Failed to upload the file."
	case 109, 110, 111, 117, 118:
		return "The network connection is unstable or the system is busy."
	case 112, 113:
		return "Preserve for other purpose."
	case 114:
		return "Lost parameters for this API."
	case 115:
		return "Not allowed to upload a file."
	case 116:
		return "Not allowed to perform for a demo site."
	case 119:
		return "Invalid session."
	case 150:
		return "Request source IP does not match the login IP."
	default:
		if code >= 120 && code <= 149 {
			return "Preserve for other purpose."
		}
		return "Unknown error code."
	}
}
