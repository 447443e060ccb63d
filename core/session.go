package orchestration

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/memorylane/core/events"
	"github.com/koscakluka/memorylane/core/memories"
)

type Page string

const (
	PageEntry      Page = "entry"
	PageProcessing Page = "processing"
	PageMemory     Page = "memory"
)

// session is the single owner of page and workflow state. Every transition
// and every new workflow run starts a new visit, and results addressed to an
// older visit are refused with ErrSuperseded.
type session struct {
	mu sync.Mutex

	page    Page
	visitID string

	query         string
	searchSteps   []memories.AgentStep
	searchOutcome *SearchOutcome

	activePhoto      *memories.Photo
	memorySteps      []memories.AgentStep
	narrationOutcome *NarrationOutcome

	emitEvent eventEmitter
}

func newSession() *session {
	return &session{
		page:      PageEntry,
		visitID:   uuid.NewString(),
		emitEvent: noopEventEmitter,
	}
}

func (s *session) SetEventEmitter(emitEvent eventEmitter) {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	s.mu.Lock()
	s.emitEvent = emitEvent
	s.mu.Unlock()
}

// beginSearch moves Entry to Processing and clears everything a previous
// search left behind.
func (s *session) beginSearch(query string) (*pageVisit, error) {
	s.mu.Lock()
	if s.page != PageEntry {
		page := s.page
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot search from %s page", ErrIllegalTransition, page)
	}

	s.query = query
	s.searchSteps = nil
	s.searchOutcome = nil
	visit := s.transitionLocked(PageProcessing)
	s.mu.Unlock()

	s.emitPageChanged(PageEntry, PageProcessing, visit.id)
	return visit, nil
}

// selectPhoto moves Processing to Memory for one of the current results.
func (s *session) selectPhoto(photoID string) (*pageVisit, memories.Photo, error) {
	s.mu.Lock()
	if s.page != PageProcessing {
		page := s.page
		s.mu.Unlock()
		return nil, memories.Photo{}, fmt.Errorf("%w: cannot open a memory from %s page", ErrIllegalTransition, page)
	}

	var photo *memories.Photo
	if s.searchOutcome != nil {
		for _, candidate := range s.searchOutcome.Photos {
			if candidate.ID == photoID {
				photo = &candidate
				break
			}
		}
	}
	if photo == nil {
		s.mu.Unlock()
		return nil, memories.Photo{}, fmt.Errorf("%w: %q", ErrUnknownPhoto, photoID)
	}

	s.activePhoto = photo
	s.memorySteps = nil
	s.narrationOutcome = nil
	visit := s.transitionLocked(PageMemory)
	s.mu.Unlock()

	s.emitPageChanged(PageProcessing, PageMemory, visit.id)
	return visit, *photo, nil
}

// restartNarration starts a new narration run for the active photo,
// discarding any run still in flight.
func (s *session) restartNarration() (*pageVisit, memories.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != PageMemory || s.activePhoto == nil {
		return nil, memories.Photo{}, ErrNoActivePhoto
	}

	s.memorySteps = nil
	s.narrationOutcome = nil
	s.visitID = uuid.NewString()
	return &pageVisit{session: s, id: s.visitID, page: PageMemory}, *s.activePhoto, nil
}

// back leaves the current screen and clears its transient state.
func (s *session) back() (Page, error) {
	s.mu.Lock()
	from := s.page
	var to Page
	switch from {
	case PageProcessing:
		to = PageEntry
		s.query = ""
		s.searchSteps = nil
		s.searchOutcome = nil
	case PageMemory:
		to = PageProcessing
		s.activePhoto = nil
		s.memorySteps = nil
		s.narrationOutcome = nil
	default:
		s.mu.Unlock()
		return from, fmt.Errorf("%w: no page before %s", ErrIllegalTransition, from)
	}
	visit := s.transitionLocked(to)
	s.mu.Unlock()

	s.emitPageChanged(from, to, visit.id)
	return to, nil
}

func (s *session) transitionLocked(to Page) *pageVisit {
	s.page = to
	s.visitID = uuid.NewString()
	return &pageVisit{session: s, id: s.visitID, page: to}
}

func (s *session) emitPageChanged(from, to Page, visitID string) {
	s.mu.Lock()
	emitEvent := s.emitEvent
	s.mu.Unlock()
	emitEvent(events.NewPageChanged(string(from), string(to), visitID))
}

func (s *session) applySearch(visitID string, outcome SearchOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visitID != visitID {
		return ErrSuperseded
	}

	s.searchOutcome = &outcome
	return nil
}

func (s *session) applyNarration(visitID string, outcome NarrationOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visitID != visitID {
		return ErrSuperseded
	}

	s.narrationOutcome = &outcome
	return nil
}

// checkVisit reports ErrSuperseded once visitID is no longer the active
// page visit.
func (s *session) checkVisit(visitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visitID != visitID {
		return ErrSuperseded
	}
	return nil
}

func (s *session) currentNarration() (*NarrationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != PageMemory || s.activePhoto == nil {
		return nil, ErrNoActivePhoto
	}
	if s.narrationOutcome == nil {
		return nil, ErrNoAudio
	}
	outcome := *s.narrationOutcome
	return &outcome, nil
}

func (s *session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SessionSnapshot is a point-in-time copy of the session, safe to render.
type SessionSnapshot struct {
	Page    Page
	VisitID string

	Query         string
	SearchSteps   []memories.AgentStep
	SearchOutcome *SearchOutcome

	ActivePhoto      *memories.Photo
	MemorySteps      []memories.AgentStep
	NarrationOutcome *NarrationOutcome
}

func (s *session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := SessionSnapshot{
		Page:        s.page,
		VisitID:     s.visitID,
		Query:       s.query,
		SearchSteps: append([]memories.AgentStep(nil), s.searchSteps...),
		MemorySteps: append([]memories.AgentStep(nil), s.memorySteps...),
	}
	if s.searchOutcome != nil {
		outcome := *s.searchOutcome
		snapshot.SearchOutcome = &outcome
	}
	if s.activePhoto != nil {
		photo := *s.activePhoto
		snapshot.ActivePhoto = &photo
	}
	if s.narrationOutcome != nil {
		outcome := *s.narrationOutcome
		snapshot.NarrationOutcome = &outcome
	}
	return snapshot
}

// pageVisit records steps for the visit it was created for. Once the session
// moves on it refuses every write with ErrSuperseded.
type pageVisit struct {
	session *session
	id      string
	page    Page
}

func (v *pageVisit) steps() *[]memories.AgentStep {
	if v.page == PageMemory {
		return &v.session.memorySteps
	}
	return &v.session.searchSteps
}

func (v *pageVisit) workflow() string {
	if v.page == PageMemory {
		return workflowNarration
	}
	return workflowSearch
}

func (v *pageVisit) StartStep(step memories.AgentStep) (int, error) {
	s := v.session
	s.mu.Lock()
	if s.visitID != v.id {
		s.mu.Unlock()
		return 0, ErrSuperseded
	}
	steps := v.steps()
	*steps = append(*steps, step)
	index := len(*steps) - 1
	emitEvent := s.emitEvent
	s.mu.Unlock()

	emitEvent(events.NewStepStarted(v.workflow(), index, step))
	return index, nil
}

func (v *pageVisit) CompleteStep(index int, result any) error {
	s := v.session
	s.mu.Lock()
	if s.visitID != v.id {
		s.mu.Unlock()
		return ErrSuperseded
	}
	step, err := completeStep(*v.steps(), index, result)
	emitEvent := s.emitEvent
	s.mu.Unlock()
	if err != nil {
		return err
	}

	emitEvent(events.NewStepCompleted(v.workflow(), index, step))
	return nil
}
