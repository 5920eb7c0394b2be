package learning

import (
	"context"
	"sync"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

var ErrSessionNotFound = core.NewNotFoundError("learning session")

type sessionKey struct {
	userID   string
	courseID int
}

// Registry keeps the open session of each (user, course) pair.
type Registry struct {
	mu       sync.Mutex
	tracker  Tracker
	sessions map[sessionKey]*Session
}

func NewRegistry(tracker Tracker) *Registry {
	return &Registry{
		tracker:  tracker,
		sessions: make(map[sessionKey]*Session),
	}
}

// Start opens a new session for the user and course, replacing the previous one.
func (r *Registry) Start(ctx context.Context, userID string, crs course.Course, selector string) (*Session, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	s, err := Start(ctx, r.tracker, userID, crs, selector)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionKey{userID, crs.ID}] = s
	return s, nil
}

func (r *Registry) Get(userID string, courseID int) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionKey{userID, courseID}]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

func (r *Registry) Close(userID string, courseID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionKey{userID, courseID})
}
