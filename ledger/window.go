/*
window.go - Time windows and the daily-reset policy

PURPOSE:
  A balance is always projected over a Window [Start, End], both bounds
  inclusive. Which window applies depends on who holds the stock:

  - Representatives: local midnight of today -> now. Vehicle stock is
    intentionally NOT cumulative across days. Anything not transferred or
    returned by end of day silently disappears from the next day's
    projection (it remains in the full history for audit). The upstream
    system relies on this; reproduce it exactly.

  - Warehouse and shops: epoch -> now. Cumulative.

  "Local midnight" means midnight in the operation's configured timezone,
  not the server's. The Clock collaborator supplies both now() and the
  timezone so tests stay deterministic.
*/
package ledger

import "time"

// =============================================================================
// WINDOW - [Start, End], inclusive on both ends
// =============================================================================

type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
// A movement one second before Start or one second after End is out.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) String() string {
	return "[" + w.Start.Format(time.RFC3339) + ", " + w.End.Format(time.RFC3339) + "]"
}

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies the current time and the operating timezone.
// Injectable so projections and windows are deterministic under test.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock is the production clock. A nil Loc means the process-local zone.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time { return time.Now() }

func (c SystemClock) Location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// =============================================================================
// DAILY RESET POLICY
// =============================================================================

// DailyResetPolicy defines the projection window per actor kind.
type DailyResetPolicy struct {
	// Loc is the operating timezone used to find local midnight.
	// Nil falls back to the process-local zone.
	Loc *time.Location
}

func (p DailyResetPolicy) location() *time.Location {
	if p.Loc == nil {
		return time.Local
	}
	return p.Loc
}

// CurrentWindow returns local midnight of the calendar day containing now
// through now. This is the representative window: each day starts the
// vehicle stock at zero from the ledger's point of view, even when no
// explicit return movement was recorded the evening before.
func (p DailyResetPolicy) CurrentWindow(now time.Time) Window {
	local := now.In(p.location())
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.location())
	return Window{Start: midnight, End: now}
}

// CumulativeWindow returns epoch through now. Warehouse and shop balances
// never reset.
func (p DailyResetPolicy) CumulativeWindow(now time.Time) Window {
	return Window{Start: time.Unix(0, 0).UTC(), End: now}
}

// WindowFor dispatches on actor kind: only representative balances use the
// daily reset.
func (p DailyResetPolicy) WindowFor(kind ActorKind, now time.Time) Window {
	if kind == ActorRepresentative {
		return p.CurrentWindow(now)
	}
	return p.CumulativeWindow(now)
}
