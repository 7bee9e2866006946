package session

import (
	"encoding/json"
	"fmt"

	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

// StorageKey names the persisted session entry.
const StorageKey = "resume-store"

// SnapshotVersion is the current persisted layout version.
const SnapshotVersion = 2

// PersistedState is the serialisable subset of State.
type PersistedState struct {
	FileURL     *string             `json:"fileUrl"`
	Prompt      string              `json:"prompt"`
	Result      *Result             `json:"result"`
	Error       *string             `json:"error"`
	Parsed      *model.ParsedResume `json:"parsed"`
	Refinements *refine.Refinements `json:"refinements"`
}

// Snapshot is the persisted envelope.
type Snapshot struct {
	State   PersistedState `json:"state"`
	Version int            `json:"version"`
}

// Partialize extracts the persisted fields from st.
func Partialize(st State) PersistedState {
	c := st.clone()
	return PersistedState{
		FileURL:     c.FileURL,
		Prompt:      c.Prompt,
		Result:      c.Result,
		Error:       c.Error,
		Parsed:      c.Parsed,
		Refinements: c.Refinements,
	}
}

// EncodeSnapshot serialises the persisted subset of st at the current version.
func EncodeSnapshot(st State) ([]byte, error) {
	return json.Marshal(Snapshot{State: Partialize(st), Version: SnapshotVersion})
}

// DecodeSnapshot parses and migrates a persisted snapshot. It returns
// ok=false for snapshots written by a newer version, which are ignored.
func DecodeSnapshot(data []byte) (p PersistedState, ok bool, err error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return PersistedState{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	switch {
	case snap.Version > SnapshotVersion:
		return PersistedState{}, false, nil
	case snap.Version < SnapshotVersion:
		snap.State = migrate(snap.State, snap.Version)
	}
	return snap.State, true, nil
}

// migrate upgrades older layouts. Version 1 had no parsed or refinements
// fields, so anything found there is discarded.
func migrate(p PersistedState, from int) PersistedState {
	if from < 2 {
		p.Parsed = nil
		p.Refinements = nil
	}
	return p
}
