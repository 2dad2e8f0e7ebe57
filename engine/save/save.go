// Package save implements the versioned JSON save record: building it
// from a session, and merging it back onto a fresh world.
package save

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/types"
)

// Version is the current save format major version. Load rejects
// records from other majors.
const Version = 1

// ErrVersion indicates a record from an incompatible format version.
type ErrVersion struct {
	Got int
}

func (e *ErrVersion) Error() string {
	return fmt.Sprintf("save format version %d not supported (want %d)", e.Got, Version)
}

// Record is the JSON-serializable snapshot of one session.
type Record struct {
	Version         int                          `json:"version"`
	SavedAt         time.Time                    `json:"saved_at"`
	SessionID       string                       `json:"session_id"`
	CurrentRoom     string                       `json:"current_room"`
	Inventory       []string                     `json:"inventory"`
	GameState       types.GameState              `json:"game_state"`
	ObjectLocations map[string]string            `json:"object_locations"`
	RoomExits       map[string]map[string]string `json:"room_exits"`
	RNGSeed         int64                        `json:"rng_seed"`
	RNGPos          int64                        `json:"rng_pos"`
}

// Build snapshots a session into a Record.
func Build(ctx *world.Context, sessionID string, rngSeed, rngPos int64) Record {
	return Record{
		Version:         Version,
		SavedAt:         time.Now().UTC(),
		SessionID:       sessionID,
		CurrentRoom:     ctx.CurrentRoom(),
		Inventory:       append([]string{}, ctx.Inventory()...),
		GameState:       *ctx.State,
		ObjectLocations: ctx.ObjectLocationsSnapshot(),
		RoomExits:       ctx.RoomExitsSnapshot(),
		RNGSeed:         rngSeed,
		RNGPos:          rngPos,
	}
}

// Marshal serializes a Record to indented JSON.
func Marshal(rec Record) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// Unmarshal parses and validates a Record. Unknown format versions are
// rejected with ErrVersion; the caller's state stays untouched.
func Unmarshal(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse save record: %w", err)
	}
	if rec.Version != Version {
		return nil, &ErrVersion{Got: rec.Version}
	}
	// Maps and slices are never nil after a successful load.
	if rec.Inventory == nil {
		rec.Inventory = []string{}
	}
	if rec.GameState.Flags == nil {
		rec.GameState.Flags = map[string]bool{}
	}
	if rec.GameState.Awards == nil {
		rec.GameState.Awards = map[string]bool{}
	}
	if rec.ObjectLocations == nil {
		rec.ObjectLocations = map[string]string{}
	}
	if rec.RoomExits == nil {
		rec.RoomExits = map[string]map[string]string{}
	}
	return &rec, nil
}

// Apply merges a Record onto a session. Object locations and room
// exits are merged per entry: IDs the current content doesn't know are
// skipped, and exits present in the world but absent from the record
// are left alone.
func Apply(ctx *world.Context, rec *Record) {
	gs := rec.GameState
	if gs.MaxScore == 0 {
		gs.MaxScore = ctx.State.MaxScore
	}
	*ctx.State = gs

	for id, loc := range rec.ObjectLocations {
		if obj, ok := ctx.World.Objects[id]; ok {
			obj.Location = loc
		}
	}

	for roomID, exits := range rec.RoomExits {
		room, ok := ctx.World.Rooms[roomID]
		if !ok {
			continue
		}
		if room.Exits == nil {
			room.Exits = map[string]string{}
		}
		for dir, target := range exits {
			room.Exits[dir] = target
		}
	}

	// Keep only inventory entries the content still defines, in saved
	// order, and make locations agree.
	var inv []string
	for _, id := range rec.Inventory {
		if obj, ok := ctx.World.Objects[id]; ok {
			obj.Location = types.LocInventory
			inv = append(inv, id)
		}
	}
	ctx.SetInventory(inv)

	ctx.SetCurrentRoom(rec.CurrentRoom)
}
