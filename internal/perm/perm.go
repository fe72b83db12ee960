package perm

import (
	"docdesk/internal/model"
)

// CanModifyDocument enforces DMS ownership rules before destructive actions.
//
// It returns a human-readable denial reason, or "" when the action is
// allowed. Rules are checked in priority order; the first match wins:
//  1. documents created by another user are off limits,
//  2. VERIFIED documents are frozen,
//  3. AWAITING FOR USER ACCEPTANCE documents belong to their assignee,
//  4. IN PROGRESS documents are being worked on,
//  5. COMPLETED documents are closed.
//
// The check is pure: same inputs, same answer. Edit/upload flows do not
// consult it (the server enforces its own rules there); only delete does.
func CanModifyDocument(doc *model.DocumentRecord, s model.Session) string {
	if doc == nil {
		return "Access Denied: No document selected."
	}
	if doc.UserName != s.CurrentUserName {
		return "Access Denied: This document is created by another user."
	}

	switch doc.StatusUpper() {
	case model.StatusVerified:
		return "Access Denied: This document has been verified and approved for processing."
	case model.StatusAwaitingAcceptance:
		return "Access Denied: This document has been assigned to " + doc.AssignedUser + "."
	case model.StatusInProgress:
		return "Access Denied: This document is in progress status."
	case model.StatusCompleted:
		return "Access Denied: This document has been processed and completed."
	}
	return ""
}
