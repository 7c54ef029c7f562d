package v1

import "time"

// PlayerTotals are the monotonically increasing per-player counters.
type PlayerTotals struct {
	Games       int64 `json:"games"`
	LessonSteps int64 `json:"lessonSteps"`
}

// Player is the rolling aggregate kept per user, merged on every accepted
// event. Exactly one record exists per UserID; it is created lazily on the
// first event and its counters only ever increase.
type Player struct {
	UserID        int64        `json:"userId"`
	Totals        PlayerTotals `json:"totals"`
	LastSeenAt    time.Time    `json:"lastSeenAt,omitzero"`
	LastEventType string       `json:"lastEventType,omitempty"`
	LastEventAt   int64        `json:"lastEventAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt,omitzero"`
}

// EmptyPlayer is the zero-valued summary served for users with no events yet.
func EmptyPlayer(userID int64) *Player {
	return &Player{UserID: userID}
}
