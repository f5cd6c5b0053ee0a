package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SessionState represents the lifecycle state of a POS session
type SessionState int

const (
	SessionStateOpened  SessionState = 0
	SessionStateClosing SessionState = 1
	SessionStateClosed  SessionState = 2
)

func (s SessionState) String() string {
	switch s {
	case SessionStateOpened:
		return "opened"
	case SessionStateClosing:
		return "closing_control"
	case SessionStateClosed:
		return "closed"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// AcceptsOrders reports whether new orders may be synced into the session.
func (s SessionState) AcceptsOrders() bool {
	return s == SessionStateOpened
}

func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SessionState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SessionState(i)
		return nil
	}
	switch str {
	case "opened":
		*s = SessionStateOpened
	case "closing_control":
		*s = SessionStateClosing
	case "closed":
		*s = SessionStateClosed
	default:
		return fmt.Errorf("unknown session state %q", str)
	}
	return nil
}

func (s SessionState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SessionState) Scan(value interface{}) error {
	if value == nil {
		*s = SessionStateOpened
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SessionState(v)
	case int:
		*s = SessionState(v)
	default:
		return fmt.Errorf("cannot scan %T into SessionState", value)
	}
	return nil
}
