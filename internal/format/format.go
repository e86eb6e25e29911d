// Package format provides output formatting utilities for CLI display.
//
// Command implementations hand their results to these functions, which
// handle column alignment and tree rendering.
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/store"
)

// HumanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func HumanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// Engines prints one engine id per line, marking the selected target.
func Engines(w io.Writer, s engine.Settings) error {
	for _, e := range s.Engines {
		mark := " "
		if e.ID == s.SelectedTargetEngineID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\n", mark, e.ID)
	}
	return nil
}

// EnginesLong prints engines as an aligned table.
//
// Fixed-width columns come first; NAME and URL vary most and go last.
func EnginesLong(w io.Writer, s engine.Settings) error {
	if len(s.Engines) == 0 {
		return nil
	}

	maxID, maxDomain, maxName := 2, 6, 4
	for _, e := range s.Engines {
		maxID = max(maxID, len(e.ID))
		maxDomain = max(maxDomain, len(e.Domain))
		maxName = max(maxName, len([]rune(e.Name)))
	}

	fmt.Fprintf(w, "  %-*s  %-13s  %-*s  %-6s  %-5s  %-*s  %s\n",
		maxID, "ID", "ROLES", maxDomain, "DOMAIN", "PARAM", "BADGE", maxName, "NAME", "URL")
	for _, e := range s.Engines {
		mark := " "
		if e.ID == s.SelectedTargetEngineID {
			mark = "*"
		}
		domain, param := dash(e.Domain), dash(e.Param)
		name := e.Name
		pad := maxName - len([]rune(name))
		fmt.Fprintf(w, "%s %-*s  %-13s  %-*s  %-6s  %-5s  %s%*s  %s\n",
			mark, maxID, e.ID, e.Roles(), maxDomain, domain, param, e.BadgeText(),
			name, pad, "", e.URL)
	}
	return nil
}

// Menu prints the context menu as a tree under its root item.
func Menu(w io.Writer, m present.Menu) error {
	if len(m) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%s (%s)\n", m[0].Title, m[0].ID)
	children := m[1:]
	for i, item := range children {
		connector := "├── "
		if i == len(children)-1 {
			connector = "└── "
		}
		fmt.Fprintf(w, "%s%s  %s\n", connector, item.Title, item.ID)
	}
	return nil
}

// Badge prints the toolbar badge state.
func Badge(w io.Writer, b present.Badge) error {
	if !b.Visible {
		fmt.Fprintln(w, "badge: hidden")
		return nil
	}
	fmt.Fprintf(w, "badge: %s (%s)\n", b.Text, b.Engine)
	return nil
}

// History prints settings revisions, newest first.
func History(w io.Writer, revs []store.Revision) error {
	for _, r := range revs {
		t := time.Unix(r.CreatedAt, 0)
		author := r.Author
		if author == "" {
			author = "-"
		}
		change := HumanSize(int64(len(r.Value)))
		if r.Value == nil {
			change = "removed"
		}
		fmt.Fprintf(w, "%6d  %s  %-24s  %-16s  %s\n",
			r.ID, t.Format("2006-01-02 15:04"), r.Key, author, change)
	}
	return nil
}

// Log prints audit log entries, newest first.
func Log(w io.Writer, entries []log.Entry) error {
	for _, e := range entries {
		t := time.Unix(e.Start, 0)
		status := "ok"
		if !e.Success {
			status = "error: " + e.Error
		}
		fmt.Fprintf(w, "%s  %-20s  %-10s  %-12s  %s\n",
			t.Format("2006-01-02 15:04:05"), e.Source, e.Action, dash(e.Resolved), status)
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
