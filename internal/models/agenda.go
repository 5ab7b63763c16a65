package models

// AgendaItemKind tags the active case of AgendaItem.
type AgendaItemKind string

const (
	AgendaLesson AgendaItemKind = "LESSON"
	AgendaBreak  AgendaItemKind = "BREAK"
)

// BreakTier buckets a break by its length for display.
type BreakTier string

const (
	BreakTierLong   BreakTier = "LONG"
	BreakTierMarked BreakTier = "MARKED"
	BreakTierShort  BreakTier = "SHORT"
)

// AgendaItem is one entry of a day timeline: a lesson or the break after it.
type AgendaItem struct {
	Kind            AgendaItemKind `json:"kind"`
	Lesson          *Lesson        `json:"lesson,omitempty"`
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	Tier            BreakTier      `json:"tier,omitempty"`
	Label           string         `json:"label,omitempty"`
}

// IsBreak reports whether the item is a break.
func (i AgendaItem) IsBreak() bool {
	return i.Kind == AgendaBreak
}
