package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yaduvivaah/agent-portal-api/internal/storage"
)

type enrollmentKind string

const (
	enrollRegister enrollmentKind = "register"
	enrollLogin    enrollmentKind = "login"
)

// enrollmentTTL bounds how long a wizard may sit between requesting a code
// and confirming it. The verification service enforces its own, usually
// shorter, expiry.
const enrollmentTTL = 10 * time.Minute

// RegistrationFiles are the document images held in memory between the two
// wizard steps. Nothing is uploaded until the code is confirmed.
type RegistrationFiles struct {
	DisplayPicture *storage.File
	AadhaarFront   *storage.File
	AadhaarBack    *storage.File
}

// enrollment is the flow-local context of one wizard instance. It owns the
// pending challenge handle and files, and is discarded on completion or
// expiry; there is no process-global wizard state.
type enrollment struct {
	ID              string
	Kind            enrollmentKind
	Fields          RegistrationFields
	Files           RegistrationFiles
	NormalizedPhone string
	ChallengeHandle string
	CreatedAt       time.Time
}

// enrollmentStore keeps in-flight enrollments in memory. Expired entries are
// evicted lazily on access; there are no background sweepers.
type enrollmentStore struct {
	mu  sync.Mutex
	m   map[string]*enrollment
	now func() time.Time
}

func newEnrollmentStore(now func() time.Time) *enrollmentStore {
	return &enrollmentStore{m: make(map[string]*enrollment), now: now}
}

func (s *enrollmentStore) put(e *enrollment) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, old := range s.m {
		if s.now().Sub(old.CreatedAt) > enrollmentTTL {
			delete(s.m, id)
		}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.now()
	s.m[e.ID] = e
	return e.ID
}

// get returns the enrollment, or nil when unknown or expired. The entry is
// kept so a mistyped code can be corrected without restarting the wizard.
func (s *enrollmentStore) get(id string) *enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return nil
	}

	if s.now().Sub(e.CreatedAt) > enrollmentTTL {
		delete(s.m, id)
		return nil
	}
	return e
}

// remove discards the enrollment once the flow completes or its challenge
// handle is spent.
func (s *enrollmentStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}
