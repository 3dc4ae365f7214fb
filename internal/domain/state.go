package domain

// State is an entry in the state-of-origin directory.
type State struct {
	ID   int64
	Name string
}

// LGA is a local government area within a state.
type LGA struct {
	ID      int64
	Name    string
	StateID int64
}
