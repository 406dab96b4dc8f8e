// Package session holds the candidates of one roster import while the
// operator curates them before commit.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/inbtp/appariteur/pkg/student"
)

// Patch carries a partial edit. Nil fields are left unchanged.
type Patch struct {
	Nom           *string
	PostNom       *string
	PreNom        *string
	Sexe          *string
	DateNaissance *string
	LieuNaissance *string
	Adresse       *string
	EtudiantID    *string
	Email         *string
	Telephone     *string
	OptID         *string
	Section       *string
	Option        *string
	Pourcentage   *string
	PromotionID   *string
	AnneeID       *string
}

// Session owns the live candidate collection of one import. Every mutation
// replaces the collection, so slices returned earlier are never modified.
type Session struct {
	id  string
	log *zap.Logger

	mu         sync.Mutex
	candidates []student.Candidate
	nextID     uint64
}

// New starts a session over the validated candidates, assigning temporary
// ids in order starting at 1.
func New(log *zap.Logger, candidates []student.Candidate) (*Session, error) {
	if log == nil {
		return nil, errs.New("log is required")
	}
	id := uuid.NewString()
	s := &Session{
		id:  id,
		log: log.With(zap.String("session", id)),
	}
	s.Append(candidates...)
	return s, nil
}

// ID identifies the session in logs and reports.
func (s *Session) ID() string { return s.id }

// Append adds candidates at the end with fresh temporary ids.
func (s *Session) Append(candidates ...student.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]student.Candidate, 0, len(s.candidates)+len(candidates))
	next = append(next, s.candidates...)
	for _, c := range candidates {
		s.nextID++
		c = c.Clone()
		c.TempID = s.nextID
		next = append(next, c)
	}
	s.candidates = next
}

// ToggleSelect flips the selection of one candidate. It returns false if no
// candidate has the id.
func (s *Session) ToggleSelect(tempID uint64) bool {
	return s.modify(tempID, func(c *student.Candidate) {
		c.Selected = !c.Selected
	})
}

// SelectAll sets the selection of every candidate, including candidates
// with defects.
func (s *Session) SelectAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]student.Candidate, len(s.candidates))
	for i, c := range s.candidates {
		c = c.Clone()
		c.Selected = selected
		next[i] = c
	}
	s.candidates = next
}

// Remove drops one candidate. Its id is never reused.
func (s *Session) Remove(tempID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tempID)
	if idx < 0 {
		return false
	}
	next := make([]student.Candidate, 0, len(s.candidates)-1)
	next = append(next, s.candidates[:idx]...)
	next = append(next, s.candidates[idx+1:]...)
	s.candidates = next
	s.log.Debug("Candidate removed", zap.Uint64("temp-id", tempID))
	return true
}

// Update merges patch into one candidate. Defects are not recomputed; call
// Revalidate for that.
func (s *Session) Update(tempID uint64, patch Patch) bool {
	return s.modify(tempID, func(c *student.Candidate) {
		apply(&c.Nom, patch.Nom)
		apply(&c.PostNom, patch.PostNom)
		apply(&c.PreNom, patch.PreNom)
		apply(&c.Sexe, patch.Sexe)
		apply(&c.DateNaissance, patch.DateNaissance)
		apply(&c.LieuNaissance, patch.LieuNaissance)
		apply(&c.Adresse, patch.Adresse)
		apply(&c.EtudiantID, patch.EtudiantID)
		apply(&c.Email, patch.Email)
		apply(&c.Telephone, patch.Telephone)
		apply(&c.OptID, patch.OptID)
		apply(&c.Section, patch.Section)
		apply(&c.Option, patch.Option)
		apply(&c.Pourcentage, patch.Pourcentage)
		apply(&c.Placement.PromotionID, patch.PromotionID)
		apply(&c.Placement.AnneeID, patch.AnneeID)
	})
}

// Revalidate recomputes the defects of one candidate after edits.
func (s *Session) Revalidate(tempID uint64) bool {
	return s.modify(tempID, func(c *student.Candidate) {
		c.Revalidate()
	})
}

// Get returns a copy of one candidate.
func (s *Session) Get(tempID uint64) (student.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tempID)
	if idx < 0 {
		return student.Candidate{}, false
	}
	return s.candidates[idx].Clone(), true
}

// Candidates returns a copy of the collection in order.
func (s *Session) Candidates() []student.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.candidates, func(student.Candidate) bool { return true })
}

// Selected returns a snapshot of the selected candidates in collection
// order. Later edits to the session do not affect it.
func (s *Session) Selected() []student.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.candidates, func(c student.Candidate) bool { return c.Selected })
}

func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candidates)
}

func (s *Session) SelectedCount() int {
	return s.count(func(c student.Candidate) bool { return c.Selected })
}

func (s *Session) ErrorCount() int {
	return s.count(func(c student.Candidate) bool { return c.HasError })
}

func (s *Session) count(pred func(student.Candidate) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, c := range s.candidates {
		if pred(c) {
			n++
		}
	}
	return n
}

func (s *Session) modify(tempID uint64, fn func(*student.Candidate)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(tempID)
	if idx < 0 {
		return false
	}
	next := make([]student.Candidate, len(s.candidates))
	copy(next, s.candidates)
	c := next[idx].Clone()
	fn(&c)
	next[idx] = c
	s.candidates = next
	return true
}

func (s *Session) indexOf(tempID uint64) int {
	for i, c := range s.candidates {
		if c.TempID == tempID {
			return i
		}
	}
	return -1
}

func cloneAll(candidates []student.Candidate, keep func(student.Candidate) bool) []student.Candidate {
	out := make([]student.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
