package v1

import (
	"fmt"
	"time"
)

// GameStatus is the lifecycle state of a match record.
type GameStatus string

const (
	StatusRunning  GameStatus = "running"
	StatusFinished GameStatus = "finished"
)

// Side identifies one seat of a match.
type Side struct {
	UserID  int64  `json:"userId"`
	Name    string `json:"name,omitempty"`
	AI      bool   `json:"ai,omitempty"`
	AILevel int    `json:"aiLevel,omitempty"`
}

// Ply is a single half-move. Notation is the only field the notation
// formatter consumes; a ply without notation terminates the movetext.
type Ply struct {
	Notation string `json:"notation"`
}

// Game is the stored match record. Header fields are present from creation;
// finalize fields appear once the match finishes.
type Game struct {
	GameID      string     `json:"gameId"`
	Variant     string     `json:"variant"`
	Mode        string     `json:"mode,omitempty"`
	Rated       bool       `json:"rated"`
	TimeControl string     `json:"timeControl,omitempty"`
	White       Side       `json:"white"`
	Black       Side       `json:"black"`
	StartFEN    string     `json:"startFen"`
	Status      GameStatus `json:"status"`

	Result    string                 `json:"result,omitempty"`
	EndReason string                 `json:"endReason,omitempty"`
	FinalFEN  string                 `json:"finalFen,omitempty"`
	Moves     []Ply                  `json:"moves,omitempty"`
	Stats     map[string]interface{} `json:"stats,omitempty"`
	Ratings   map[string]interface{} `json:"ratings,omitempty"`
	EndAt     time.Time              `json:"endAt,omitzero"`

	// PDN cache, computed at finalize time.
	PDNTags map[string]string `json:"pdnTags,omitempty"`
	PDN     string            `json:"pdn,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// GameHeader is the match-start payload.
type GameHeader struct {
	GameID      string `json:"gameId"`
	Variant     string `json:"variant"`
	Mode        string `json:"mode"`
	Rated       bool   `json:"rated"`
	TimeControl string `json:"timeControl"`
	White       Side   `json:"white"`
	Black       Side   `json:"black"`
	StartFEN    string `json:"startFen"`
}

// Validate checks the header carries every required field.
func (h *GameHeader) Validate() error {
	if h.GameID == "" {
		return fmt.Errorf("gameId is required")
	}

	if h.Variant == "" {
		return fmt.Errorf("variant is required")
	}

	if h.White.UserID <= 0 && !h.White.AI {
		return fmt.Errorf("white is required")
	}

	if h.Black.UserID <= 0 && !h.Black.AI {
		return fmt.Errorf("black is required")
	}

	if h.StartFEN == "" {
		return fmt.Errorf("startFen is required")
	}

	return nil
}

// GameFinal is the match-end payload. It repeats the header fields so a
// finalize with no prior header upsert still produces a complete record.
type GameFinal struct {
	GameID      string `json:"gameId"`
	Variant     string `json:"variant"`
	Mode        string `json:"mode"`
	Rated       bool   `json:"rated"`
	TimeControl string `json:"timeControl"`
	White       Side   `json:"white"`
	Black       Side   `json:"black"`
	StartFEN    string `json:"startFen"`

	Result    string                 `json:"result"`
	EndReason string                 `json:"endReason"`
	FinalFEN  string                 `json:"finalFen"`
	Moves     []Ply                  `json:"moves"`
	Stats     map[string]interface{} `json:"stats"`
	Ratings   map[string]interface{} `json:"ratings"`
}

// Validate checks the finalize payload carries every required field.
func (f *GameFinal) Validate() error {
	if f.GameID == "" {
		return fmt.Errorf("gameId is required")
	}

	if f.Result == "" {
		return fmt.Errorf("result is required")
	}

	if f.FinalFEN == "" {
		return fmt.Errorf("finalFen is required")
	}

	if f.Moves == nil {
		return fmt.Errorf("moves is required")
	}

	return nil
}
