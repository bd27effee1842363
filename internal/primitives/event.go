// Event identifiers are the only record carried through the mailbox.
//
// An EventID is a plain 32-bit value: it is the trigger used as the key for
// transition and free-event matching. The zero value is reserved and is
// delivered only to the initial state's entry callback.
package primitives

import "fmt"

// EventID identifies an event (its trigger).
type EventID uint32

// NoEvent is the synthetic trigger passed to the initial OnEnter call.
const NoEvent EventID = 0

func (e EventID) String() string {
	if e == NoEvent {
		return "none"
	}
	return fmt.Sprintf("evt(%d)", uint32(e))
}
