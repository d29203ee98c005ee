package session

// Pin holds a session entry the way an in-flight Get or Dispatch does between
// lookup and locking.
func (s *Store) Pin(sid string) (unpin func()) {
	e := s.acquire(sid)
	return func() { s.release(e) }
}
