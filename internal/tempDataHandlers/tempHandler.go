package tempdatahandlers

// Store keeps the bot form each user is filling in: the step it waits for
// and the values entered so far. It is not safe for concurrent use; the bot
// handles updates one at a time.
type Store struct {
	states map[int64]string
	data   map[int64]map[string]string
}

func NewStore() *Store {
	return &Store{
		states: make(map[int64]string),
		data:   make(map[int64]map[string]string),
	}
}

// Start opens a new form for userID, dropping anything left from a previous one.
func (s *Store) Start(userID int64, state string, defaults map[string]string) {
	s.Clear(userID)
	s.states[userID] = state
	for k, v := range defaults {
		s.Set(userID, k, v)
	}
}

func (s *Store) State(userID int64) (string, bool) {
	state, ok := s.states[userID]
	return state, ok
}

func (s *Store) SetState(userID int64, state string) {
	s.states[userID] = state
}

func (s *Store) Set(userID int64, key, value string) {
	if _, exists := s.data[userID]; !exists {
		s.data[userID] = make(map[string]string)
	}
	s.data[userID][key] = value
}

// Get returns the stored value, empty when unset.
func (s *Store) Get(userID int64, key string) string {
	return s.data[userID][key]
}

func (s *Store) Clear(userID int64) {
	delete(s.states, userID)
	delete(s.data, userID)
}
