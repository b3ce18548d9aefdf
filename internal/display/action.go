package display

import "fmt"

// Action is one user input event.
type Action string

const (
	ActionModeTotal      Action = "mode-total"
	ActionModePercent    Action = "mode-percent"
	ActionToggleMode     Action = "toggle-mode"
	ActionToggleOptional Action = "toggle-optional"
	ActionTogglePause    Action = "toggle-pause"
	ActionNext           Action = "next"
	ActionPrev           Action = "prev"
)

// Actions lists every accepted action in a stable order.
var Actions = []Action{
	ActionModeTotal,
	ActionModePercent,
	ActionToggleMode,
	ActionToggleOptional,
	ActionTogglePause,
	ActionNext,
	ActionPrev,
}

// keyActions maps keyboard key names, as browsers report them in
// KeyboardEvent.key, to actions.
var keyActions = map[string]Action{
	"ArrowRight": ActionNext,
	"ArrowLeft":  ActionPrev,
}

// ParseAction accepts an action name or a mapped key name.
func ParseAction(s string) (Action, error) {
	if a, ok := keyActions[s]; ok {
		return a, nil
	}
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("display: unknown action %q", s)
}
