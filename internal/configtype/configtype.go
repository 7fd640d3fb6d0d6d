// Package configtype maps config type tokens to slots and file names.
//
// A token such as "server", ".secrets" or "_" names one config file in the
// config directory:
//
//	_         -> config.json
//	server    -> config.server.json
//	.secrets  -> .config.secrets.json
//	._        -> .config.json
package configtype

import (
	"fmt"
	"strings"

	"poseidon/internal/messages"
)

const (
	// DefaultSlot is the reserved slot of the unclassified config file.
	DefaultSlot = "_"

	// SelfSlot is reserved for the store itself on the accessor surface.
	SelfSlot = "$"

	// HiddenSymbol marks a token whose file name starts with a dot.
	HiddenSymbol = "."

	// DefaultPrefix is the file name prefix used when none is configured.
	DefaultPrefix = "config"

	// Ext is the extension of every config file.
	Ext = ".json"
)

// Type describes one config file. Treat it as immutable; copies are cheap.
type Type struct {
	Slot      string // trimmed, never empty
	Hidden    string // "" or HiddenSymbol
	IsDefault bool   // Slot == DefaultSlot
}

// Default returns the Type of the unclassified, visible config file.
func Default() Type {
	return Type{Slot: DefaultSlot, IsDefault: true}
}

// Parse resolves token into a Type. When parseHidden is true a leading
// HiddenSymbol is stripped from the slot and recorded in Hidden.
func Parse(token string, parseHidden bool) (Type, error) {
	return ParseWith(token, parseHidden, messages.T)
}

// ParseWith is Parse with error text rendered by t.
func ParseWith(token string, parseHidden bool, t messages.Func) (Type, error) {
	slot := strings.TrimSpace(token)
	hidden := ""
	if parseHidden && strings.HasPrefix(slot, HiddenSymbol) {
		slot = strings.TrimSpace(strings.TrimPrefix(slot, HiddenSymbol))
		hidden = HiddenSymbol
	}

	if slot == "" {
		return Type{}, fmt.Errorf("%w: %s", ErrInvalidArgument, t("type.empty", map[string]any{"value": fmt.Sprintf("%q", token)}))
	}
	if strings.ContainsAny(slot, `/\`) {
		return Type{}, fmt.Errorf("%w: %s", ErrInvalidArgument, t("type.separator", map[string]any{"value": fmt.Sprintf("%q", token)}))
	}

	return Type{Slot: slot, Hidden: hidden, IsDefault: slot == DefaultSlot}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(token string) Type {
	t, err := Parse(token, true)
	if err != nil {
		panic(err)
	}
	return t
}

// Token renders the canonical token; Parse(t.Token(), true) == t.
func (t Type) Token() string {
	return t.Hidden + t.Slot
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return t.Token()
}

// Stem returns the file name without its extension, e.g. ".config.db".
func (t Type) Stem(prefix string) string {
	if t.IsDefault {
		return t.Hidden + prefix
	}
	return t.Hidden + prefix + "." + t.Slot
}

// FileName returns the config file name for t under prefix.
func (t Type) FileName(prefix string) string {
	return t.Stem(prefix) + Ext
}

// SplitList splits a comma-separated preload list. Empty entries, and an
// empty list, denote the default slot.
func SplitList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			p = DefaultSlot
		}
		out = append(out, p)
	}
	return out
}
