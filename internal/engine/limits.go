package engine

// Iteration ceilings. These are guards against pathological calendar
// definitions (zero-length months, never-firing searches), not tuning
// knobs: hitting one degrades to a non-match or a truncated result instead
// of looping forever.
const (
	// computedSearchLimit bounds forward searches inside computed-date
	// chains (firstAfter steps, event anchors).
	computedSearchLimit = 200

	// dayScanLimit bounds day-by-day occurrence scans for kinds with no
	// closed form (seasonal, moon, random, range, linked).
	dayScanLimit = 10_000

	// globalIterationLimit bounds total work in a single enumeration call
	// across all strategies.
	globalIterationLimit = 50_000
)

// moonPhaseTolerance is the slack allowed when matching a moon condition's
// phase window against a phase table entry's boundaries.
const moonPhaseTolerance = 0.01

// maxLinkDepth bounds delegation through linked events and computed event
// anchors so definition cycles resolve to non-match instead of recursing.
const maxLinkDepth = 8
