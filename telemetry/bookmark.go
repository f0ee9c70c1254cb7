package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPoolSaturated   BookmarkType = "pool_saturated"
	BookmarkBucketOverflow  BookmarkType = "bucket_overflow"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkSteadyState     BookmarkType = "steady_state"
)

// saturationThreshold is the pool utilization treated as full.
const saturationThreshold = 0.99

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

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	saturated          bool // last window was saturated
	overflowing        bool // last window dropped particles from the index
	recentActivePeak   int  // peak active count since the last crash
	steadyWindowsCount int  // consecutive windows with stable active count
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkOverflow(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkSteadyState(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Active > bd.recentActivePeak {
		bd.recentActivePeak = stats.Active
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

// checkSaturation fires once when the pool becomes full.
func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	saturated := stats.Utilization >= saturationThreshold
	defer func() { bd.saturated = saturated }()

	if !saturated || bd.saturated {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPoolSaturated,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Pool full: %d/%d particles active", stats.Active, stats.Capacity),
	}
}

// checkOverflow fires once when particles start being left out of the index.
func (bd *BookmarkDetector) checkOverflow(stats WindowStats) *Bookmark {
	overflowing := stats.Dropped > 0
	defer func() { bd.overflowing = overflowing }()

	if !overflowing || bd.overflowing {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBucketOverflow,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d particle-steps dropped from the spatial index", stats.Dropped),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentActivePeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Active)/float64(bd.recentActivePeak)
	if dropPercent > 0.30 && stats.Active < bd.recentActivePeak-100 {
		// Reset peak after crash
		oldPeak := bd.recentActivePeak
		bd.recentActivePeak = stats.Active

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Active particles fell %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Active),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Active < 100 {
		bd.steadyWindowsCount = 0
		return nil
	}

	window := bd.recent(4)
	if len(window) < 4 {
		return nil
	}

	var sum float64
	for _, h := range window {
		sum += float64(h.Active)
	}
	mean := sum / 4

	var variance float64
	for _, h := range window {
		d := float64(h.Active) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.0025 means the active count varies by less than 5%
	if mean > 0 && variance/(mean*mean) < 0.0025 {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady state around %.0f active particles", mean),
		}
	}

	return nil
}
