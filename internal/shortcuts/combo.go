package shortcuts

import (
	"fmt"
	"slices"
	"strings"
)

// Modifier is a platform-neutral modifier key.
type Modifier string

const (
	ModCommandOrControl Modifier = "cmdorctrl"
	ModControl          Modifier = "ctrl"
	ModCommand          Modifier = "cmd"
	ModAlt              Modifier = "alt"
	ModShift            Modifier = "shift"
	ModSuper            Modifier = "super"
)

var modifierAliases = map[string]Modifier{
	"commandorcontrol": ModCommandOrControl,
	"cmdorctrl":        ModCommandOrControl,
	"control":          ModControl,
	"ctrl":             ModControl,
	"command":          ModCommand,
	"cmd":              ModCommand,
	"alt":              ModAlt,
	"option":           ModAlt,
	"shift":            ModShift,
	"super":            ModSuper,
	"meta":             ModSuper,
	"win":              ModSuper,
}

var namedKeys = map[string]string{
	"space":  "Space",
	"enter":  "Return",
	"return": "Return",
	"escape": "Escape",
	"esc":    "Escape",
	"tab":    "Tab",
	"delete": "Delete",
	"up":     "Up",
	"down":   "Down",
	"left":   "Left",
	"right":  "Right",
}

// Combo is a parsed key combination such as CommandOrControl+Shift+Space.
type Combo struct {
	Modifiers []Modifier
	Key       string
}

// String renders the combo in canonical form.
func (c Combo) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, mod := range c.Modifiers {
		parts = append(parts, string(mod))
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Parse validates a combo string: zero or more modifiers followed by exactly
// one key, joined with '+'.
func Parse(raw string) (Combo, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Combo{}, fmt.Errorf("shortcut is empty")
	}

	tokens := strings.Split(trimmed, "+")
	combo := Combo{}
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return Combo{}, fmt.Errorf("shortcut %q has an empty segment", raw)
		}

		last := i == len(tokens)-1
		if mod, ok := modifierAliases[strings.ToLower(token)]; ok {
			if last {
				return Combo{}, fmt.Errorf("shortcut %q must end with a key, not a modifier", raw)
			}
			if slices.Contains(combo.Modifiers, mod) {
				return Combo{}, fmt.Errorf("shortcut %q repeats modifier %s", raw, token)
			}
			combo.Modifiers = append(combo.Modifiers, mod)
			continue
		}

		if !last {
			return Combo{}, fmt.Errorf("shortcut %q has more than one key", raw)
		}
		key, ok := normalizeKey(token)
		if !ok {
			return Combo{}, fmt.Errorf("shortcut %q uses unsupported key %q", raw, token)
		}
		combo.Key = key
	}

	return combo, nil
}

// Validate reports whether raw is empty (unbound) or a well-formed combo.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	_, err := Parse(raw)
	return err
}

func normalizeKey(token string) (string, bool) {
	lower := strings.ToLower(token)
	if named, ok := namedKeys[lower]; ok {
		return named, true
	}
	if len(token) == 1 {
		ch := strings.ToUpper(token)[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return string(ch), true
		}
		return "", false
	}
	if lower[0] == 'f' {
		switch lower[1:] {
		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12":
			return "F" + lower[1:], true
		}
	}
	return "", false
}
