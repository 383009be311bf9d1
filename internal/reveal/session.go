package reveal

import "time"

// SessionName identifies one of the named animated transitions.
type SessionName string

const (
	SessionPackOpen   SessionName = "pack-open"
	SessionCycleTop   SessionName = "cycle-top"
	SessionPhaseBlend SessionName = "phase-blend"
)

// sessionOrder fixes the order in which live sessions are advanced.
var sessionOrder = [...]SessionName{SessionPackOpen, SessionCycleTop, SessionPhaseBlend}

type session struct {
	driver   ProgressDriver
	progress float64
}

// Sessions holds at most one live progress driver per transition name.
type Sessions struct {
	newDriver func() ProgressDriver
	live      map[SessionName]*session
}

// NewSessions returns an empty set. newDriver may be nil, in which case each
// session gets a fresh Tween.
func NewSessions(newDriver func() ProgressDriver) *Sessions {
	if newDriver == nil {
		newDriver = func() ProgressDriver { return NewTween() }
	}
	return &Sessions{newDriver: newDriver, live: make(map[SessionName]*session)}
}

// Start cancels any live session called name and begins a new one.
// onComplete runs after the session has been removed, so it may start
// another session under the same name.
func (s *Sessions) Start(name SessionName, d time.Duration, easing Easing, onComplete func()) {
	s.Cancel(name)

	sess := &session{driver: s.newDriver()}
	s.live[name] = sess
	sess.driver.Start(d, easing,
		func(p float64) {
			if s.live[name] == sess {
				sess.progress = p
			}
		},
		func() {
			if s.live[name] != sess {
				return
			}
			delete(s.live, name)
			if onComplete != nil {
				onComplete()
			}
		},
	)
}

// Cancel stops the named session if it is live.
func (s *Sessions) Cancel(name SessionName) {
	if sess, ok := s.live[name]; ok {
		delete(s.live, name)
		sess.driver.Cancel()
	}
}

// CancelAll stops every live session.
func (s *Sessions) CancelAll() {
	for _, name := range sessionOrder {
		s.Cancel(name)
	}
}

// Live reports whether the named session is running.
func (s *Sessions) Live(name SessionName) bool {
	_, ok := s.live[name]
	return ok
}

// Progress returns the latest eased progress of a live session.
func (s *Sessions) Progress(name SessionName) (float64, bool) {
	sess, ok := s.live[name]
	if !ok {
		return 0, false
	}
	return sess.progress, true
}

// Advance steps every live session by dt. Sessions started or cancelled by
// a completion callback during this call are not advanced until the next.
func (s *Sessions) Advance(dt time.Duration) {
	var snapshot []*session
	var names []SessionName
	for _, name := range sessionOrder {
		if sess, ok := s.live[name]; ok {
			snapshot = append(snapshot, sess)
			names = append(names, name)
		}
	}
	for i, sess := range snapshot {
		if s.live[names[i]] != sess {
			continue
		}
		sess.driver.Advance(dt)
	}
}
