package session

import (
	"sync"

	"resume-formatter/internal/handles"
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

// Handles mints and revokes blob handles.
type Handles interface {
	Create(f handles.File) string
	Revoke(handle string)
}

// Listener receives a copy of the state after every transition. Listeners
// run synchronously in registration order and must not call back into the
// store.
type Listener func(State)

type listenerEntry struct {
	id int
	fn Listener
}

// Store is the resume session state machine. Every mutation goes through a
// named operation; none of them fail.
type Store struct {
	handles Handles

	mu    sync.Mutex
	state State

	// notifyMu keeps listener delivery in transition order.
	notifyMu  sync.Mutex
	listeners []listenerEntry
	nextID    int
}

// NewStore creates an idle store using h for handle lifecycle.
func NewStore(h Handles) *Store {
	return &Store{handles: h, state: initialState()}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.notifyMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			defer s.notifyMu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// update applies mutate under the state lock, revokes the handles it returns,
// bumps the revision and notifies listeners.
func (s *Store) update(mutate func(st *State) (revoke []string)) State {
	s.mu.Lock()
	revoke := mutate(&s.state)
	s.state.Revision++
	snapshot := s.state.clone()
	s.notifyMu.Lock()
	s.mu.Unlock()

	for _, h := range revoke {
		s.revoke(h)
	}
	listeners := append([]listenerEntry(nil), s.listeners...)
	for _, l := range listeners {
		l.fn(snapshot.clone())
	}
	s.notifyMu.Unlock()
	return snapshot
}

func (s *Store) mint(f File) string {
	if s.handles == nil {
		return ""
	}
	return s.handles.Create(handles.File{Key: f.Key, Name: f.Name, MimeType: f.MimeType, Size: f.Size})
}

func (s *Store) revoke(handle string) {
	if handle == "" || s.handles == nil {
		return
	}
	s.handles.Revoke(handle)
}

func resultURL(st *State) string {
	if st.Result == nil {
		return ""
	}
	return st.Result.PDFURL
}

func fileURL(st *State) string {
	if st.FileURL == nil {
		return ""
	}
	return *st.FileURL
}

// SetFile replaces the source file. The previous file handle is revoked and
// the previous result handle is left alone.
func (s *Store) SetFile(f File) State {
	return s.update(func(st *State) []string {
		prev := fileURL(st)
		fc := f
		st.File = &fc
		st.FileURL = strPtr(s.mint(f))
		st.Result = nil
		st.Parsed = nil
		st.Status = StatusIdle
		st.Error = nil
		return []string{prev}
	})
}

// ReplaceFile swaps the source file and revokes both the previous file and
// result handles.
func (s *Store) ReplaceFile(f File) State {
	return s.update(func(st *State) []string {
		revoke := []string{fileURL(st), resultURL(st)}
		fc := f
		st.File = &fc
		st.FileURL = strPtr(s.mint(f))
		st.Result = nil
		st.Parsed = nil
		st.Status = StatusIdle
		st.Error = nil
		return revoke
	})
}

// ClearFile drops the source file. Result, parsed data and prompt survive.
func (s *Store) ClearFile() State {
	return s.update(func(st *State) []string {
		prev := fileURL(st)
		st.File = nil
		st.FileURL = nil
		return []string{prev}
	})
}

// SetPrompt stores the tailoring prompt.
func (s *Store) SetPrompt(prompt string) State {
	return s.update(func(st *State) []string {
		st.Prompt = prompt
		return nil
	})
}

// StartUploading moves to uploading and clears the error.
func (s *Store) StartUploading() State {
	return s.update(func(st *State) []string {
		st.Status = StatusUploading
		st.Error = nil
		return nil
	})
}

// StartGenerating moves to generating and clears the error.
func (s *Store) StartGenerating() State {
	return s.update(func(st *State) []string {
		st.Status = StatusGenerating
		st.Error = nil
		return nil
	})
}

// SetResult installs a new result, revoking the previous result handle.
func (s *Store) SetResult(r Result) State {
	return s.update(func(st *State) []string {
		prev := resultURL(st)
		rc := r
		st.Result = &rc
		st.Status = StatusReady
		st.Error = nil
		if prev == r.PDFURL {
			return nil
		}
		return []string{prev}
	})
}

// Fail moves to error with message. Result, parsed data and file survive.
func (s *Store) Fail(message string) State {
	return s.update(func(st *State) []string {
		st.Status = StatusError
		st.Error = strPtr(message)
		return nil
	})
}

// SetError sets or clears the error message without touching status.
func (s *Store) SetError(message *string) State {
	return s.update(func(st *State) []string {
		st.Error = cloneString(message)
		return nil
	})
}

// SetParsed stores the structured resume.
func (s *Store) SetParsed(p *model.ParsedResume) State {
	return s.update(func(st *State) []string {
		st.Parsed = p.Clone()
		return nil
	})
}

// SetRefinements stores the refinement record.
func (s *Store) SetRefinements(r *refine.Refinements) State {
	return s.update(func(st *State) []string {
		st.Refinements = r.Clone()
		return nil
	})
}

// Reset revokes every live handle and returns to the initial state. The
// hydration flag is kept.
func (s *Store) Reset() State {
	return s.update(func(st *State) []string {
		revoke := []string{fileURL(st), resultURL(st)}
		hydrated := st.Hydrated
		rev := st.Revision
		*st = initialState()
		st.Hydrated = hydrated
		st.Revision = rev
		return revoke
	})
}

// Hydrate loads persisted fields and marks the store hydrated. Status and
// file are not persisted and keep their current values.
func (s *Store) Hydrate(p *PersistedState) State {
	return s.update(func(st *State) []string {
		if p != nil {
			st.FileURL = cloneString(p.FileURL)
			st.Prompt = p.Prompt
			if p.Result != nil {
				r := *p.Result
				st.Result = &r
			} else {
				st.Result = nil
			}
			st.Error = cloneString(p.Error)
			st.Parsed = p.Parsed.Clone()
			st.Refinements = p.Refinements.Clone()
		}
		st.Hydrated = true
		return nil
	})
}
