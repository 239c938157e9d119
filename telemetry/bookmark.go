package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkAssemblySettled BookmarkType = "assembly_settled"
	BookmarkAttachRejected  BookmarkType = "attach_rejected"
	BookmarkPowerStarved    BookmarkType = "power_starved"
	BookmarkBatteryDepleted BookmarkType = "battery_depleted"
	BookmarkFirstInspection BookmarkType = "first_inspection"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments of a run from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	sawPending   bool // requests were pending since the last settle
	depleted     bool // minimum charge is at zero
	inspectedAny bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkAssemblySettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.NewlyRejected > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkAttachRejected,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d attach requests rejected", stats.NewlyRejected),
		})
	}
	if b := bd.checkPowerStarved(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBatteryDepleted(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if stats.Inspections > 0 && !bd.inspectedAny {
		bd.inspectedAny = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstInspection,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("First gauge inspection completed after %.1fs", stats.SimTimeSec),
		})
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkAssemblySettled(stats WindowStats) *Bookmark {
	if stats.Pending > 0 || stats.Committed > 0 {
		bd.sawPending = true
	}
	if !bd.sawPending || stats.Pending > 0 {
		return nil
	}
	bd.sawPending = false

	return &Bookmark{
		Type:        BookmarkAssemblySettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Assembly settled with %d items and %d joints", stats.Items, stats.Joints),
	}
}

func (bd *BookmarkDetector) checkPowerStarved(stats WindowStats) *Bookmark {
	if stats.CommandsDropped < 10 || stats.DropRate <= 0.5 {
		return nil
	}

	// Only report the onset, not every starved window
	if len(bd.getHistory()) > 0 {
		prev := bd.history[(bd.historyIdx+bd.historySize-1)%bd.historySize]
		if prev.DropRate > 0.5 {
			return nil
		}
	}

	return &Bookmark{
		Type:        BookmarkPowerStarved,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%.0f%% of commands dropped for lack of power", stats.DropRate*100),
	}
}

func (bd *BookmarkDetector) checkBatteryDepleted(stats WindowStats) *Bookmark {
	if stats.PoweredRobots == 0 {
		return nil
	}
	if stats.ChargeMin > 0 {
		bd.depleted = false
		return nil
	}
	if bd.depleted {
		return nil
	}
	bd.depleted = true

	return &Bookmark{
		Type:        BookmarkBatteryDepleted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("A robot ran out of charge (mean charge %.2f)", stats.ChargeMean),
	}
}
