package tui

import (
	"fmt"
	"time"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoading      = "Loading…"
	MsgRefreshing   = "Refreshing…"
	MsgRefreshed    = "Reloaded from the Help Center"
	MsgNoArticles   = "No articles"
	MsgNoCategories = "No categories"
	MsgNoSections   = "No sections"
	MsgOpenedLink   = "Opened in browser"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

var timeNow = time.Now

// status is the transient line shown above the key help.
type status struct {
	text    string
	kind    StatusKind
	expires time.Time
}

func (s status) active(now time.Time) bool {
	return s.text != "" && (s.expires.IsZero() || now.Before(s.expires))
}

func (s status) render() string {
	switch s.kind {
	case StatusSuccess:
		return StatusSuccessStyle.Render("✓ " + s.text)
	case StatusWarn:
		return StatusWarnStyle.Render(s.text)
	case StatusError:
		return StatusErrorStyle.Render("✗ " + s.text)
	default:
		return StatusInfoStyle.Render(s.text)
	}
}
