package fetch

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// Status is the tri-state of a resource key.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// State is what subscribers of a key observe.
type State struct {
	Status    Status
	Data      json.RawMessage
	Err       error
	UpdatedAt time.Time
}

// Resolved reports whether the state carries a result, successful or not.
func (s State) Resolved() bool {
	return s.Status != StatusLoading
}

// Decode unmarshals the payload of a successful state.
func Decode[T any](state State) (T, error) {
	var value T
	switch state.Status {
	case StatusSuccess:
	case StatusError:
		if state.Err != nil {
			return value, state.Err
		}
		return value, eris.New("resource failed to load")
	default:
		return value, eris.New("resource is still loading")
	}

	if err := json.Unmarshal(state.Data, &value); err != nil {
		return value, eris.Wrap(err, "decoding resource payload")
	}
	return value, nil
}
