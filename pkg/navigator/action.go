package navigator

import (
	"fmt"
	"strings"
)

// ActionKind identifies an Action.
type ActionKind int

// Action kinds, one per constructor.
const (
	ActionPush ActionKind = iota
	ActionNavigate
	ActionSend
	ActionSendValues
	ActionReset
	ActionDismissAny
	ActionDismissAll
	ActionPopAll
	ActionPopAllIn
	ActionPopTo
	ActionPopLast
	ActionSelect
	ActionAuthenticationRequired
	ActionReturnToCheckpoint
	ActionCheckpoint
)

var actionNames = [...]string{
	ActionPush:                   "push",
	ActionNavigate:               "navigate",
	ActionSend:                   "send",
	ActionSendValues:             "send_values",
	ActionReset:                  "reset",
	ActionDismissAny:             "dismiss_any",
	ActionDismissAll:             "dismiss_all",
	ActionPopAll:                 "pop_all",
	ActionPopAllIn:               "pop_all_in",
	ActionPopTo:                  "pop_to",
	ActionPopLast:                "pop_last",
	ActionSelect:                 "select",
	ActionAuthenticationRequired: "authentication_required",
	ActionReturnToCheckpoint:     "return_to_checkpoint",
	ActionCheckpoint:             "checkpoint",
}

// String returns the snake_case action name.
func (k ActionKind) String() string {
	if k >= 0 && int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is one step of an action list. Build actions with the
// constructors below; the zero Action is not valid.
type Action struct {
	kind    ActionKind
	value   any
	values  []any
	stackID string
	n       int
	name    string
}

// Kind returns the action kind.
func (a Action) Kind() ActionKind { return a.kind }

// String returns a readable form such as "pop_all_in(home)".
func (a Action) String() string {
	switch a.kind {
	case ActionPush, ActionNavigate, ActionSend:
		return fmt.Sprintf("%s(%+v)", a.kind, a.value)
	case ActionSendValues:
		parts := make([]string, len(a.values))
		for i, v := range a.values {
			parts[i] = fmt.Sprintf("%+v", v)
		}
		return fmt.Sprintf("%s(%s)", a.kind, strings.Join(parts, ", "))
	case ActionPopAllIn, ActionSelect:
		return fmt.Sprintf("%s(%s)", a.kind, a.stackID)
	case ActionPopTo, ActionPopLast:
		return fmt.Sprintf("%s(%d)", a.kind, a.n)
	case ActionReturnToCheckpoint, ActionCheckpoint:
		return fmt.Sprintf("%s(%s)", a.kind, a.name)
	default:
		return a.kind.String()
	}
}

// Push pushes d onto the target stack. If d is a StackTargeter the target
// moves to its stack first.
func Push(d any) Action { return Action{kind: ActionPush, value: d} }

// Navigate presents d on the target stack using d's own method. If d is a
// StackTargeter the target moves to its stack first.
func Navigate(d any) Action { return Action{kind: ActionNavigate, value: d} }

// Send broadcasts v. If v is a StackTargeter the target moves to its stack
// once receivers have run.
func Send(v any) Action { return Action{kind: ActionSend, value: v} }

// SendValues broadcasts the first value with the rest as its remainder.
// Targeting follows the first value.
func SendValues(values ...any) Action {
	return Action{kind: ActionSendValues, values: append([]any(nil), values...)}
}

// Reset dismisses every modal and empties every path below the list's
// root, and moves the target back to the root.
func Reset() Action { return Action{kind: ActionReset} }

// DismissAny dismisses the target stack's modal, or the first one below
// it.
func DismissAny() Action { return Action{kind: ActionDismissAny} }

// DismissAll dismisses every modal on and below the target stack.
func DismissAll() Action { return Action{kind: ActionDismissAll} }

// PopAll empties the target stack's path.
func PopAll() Action { return Action{kind: ActionPopAll} }

// PopAllIn empties the path of the stack with the given id. Stacks that
// are not mounted are skipped.
func PopAllIn(stackID string) Action { return Action{kind: ActionPopAllIn, stackID: stackID} }

// PopTo truncates the target stack's path to position entries.
func PopTo(position int) Action { return Action{kind: ActionPopTo, n: position} }

// PopLast removes the last k entries from the target stack.
func PopLast(k int) Action { return Action{kind: ActionPopLast, n: k} }

// Pop removes the top of the target stack.
func Pop() Action { return PopLast(1) }

// Select moves the target to the stack with the given id.
func Select(stackID string) Action { return Action{kind: ActionSelect, stackID: stackID} }

// AuthenticationRequired suspends the rest of the list until the
// session's Gate opens.
func AuthenticationRequired() Action { return Action{kind: ActionAuthenticationRequired} }

// ReturnToCheckpoint returns to the named checkpoint and moves the target
// to the stack that captured it.
func ReturnToCheckpoint(name string) Action {
	return Action{kind: ActionReturnToCheckpoint, name: name}
}

// CaptureCheckpoint captures a checkpoint on the target stack.
func CaptureCheckpoint(name string) Action { return Action{kind: ActionCheckpoint, name: name} }
