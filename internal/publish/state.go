package publish

import "github.com/gohugoio/publishrelease/internal/common/mapsh"

// State is a step in a publish run.
type State int

const (
	Checking State = iota
	NotFound
	Blocked
	Creating
	DraftReady
	Uploading
	AllUploaded
	Publishing
	Published
	Failed
)

var stateString = map[State]string{
	Checking:    "CHECKING",
	NotFound:    "NOT_FOUND",
	Blocked:     "BLOCKED",
	Creating:    "CREATING",
	DraftReady:  "DRAFT_READY",
	Uploading:   "UPLOADING",
	AllUploaded: "ALL_UPLOADED",
	Publishing:  "PUBLISHING",
	Published:   "PUBLISHED",
	Failed:      "FAILED",
}

var stringState = mapsh.Invert(stateString)

func (s State) String() string {
	return stateString[s]
}

// ParseState parses the name of a State, e.g. "DRAFT_READY".
func ParseState(s string) (State, bool) {
	st, found := stringState[s]
	return st, found
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == Blocked || s == Published || s == Failed
}

// Failed is reachable from every non-terminal state.
var transitions = map[State][]State{
	Checking:    {NotFound, Blocked},
	NotFound:    {Creating},
	Creating:    {DraftReady},
	DraftReady:  {Uploading},
	Uploading:   {AllUploaded},
	AllUploaded: {Publishing},
	Publishing:  {Published},
}

func canTransition(from, to State) bool {
	if from.IsTerminal() {
		return false
	}
	if to == Failed {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
