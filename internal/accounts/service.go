package accounts

import (
	"strings"

	"github.com/cleared-dev/billconv/internal/model"
)

// CompoundSep joins several payment accounts in one raw field.
const CompoundSep = "&"

// Resolver maps raw provider account labels onto the shared account vocabulary.
type Resolver struct {
	aliases map[string]string
	shared  map[string]bool
}

// NewResolver creates a Resolver. aliases rename raw labels; shared lists the
// canonical names that are owned per household member.
func NewResolver(aliases map[string]string, shared []string) *Resolver {
	a := make(map[string]string, len(aliases))
	for k, v := range aliases {
		a[k] = v
	}
	s := make(map[string]bool, len(shared))
	for _, name := range shared {
		s[name] = true
	}
	return &Resolver{aliases: a, shared: s}
}

// Canonical returns the canonical name of raw. Compound values resolve to
// their first listed account.
func (r *Resolver) Canonical(raw string) string {
	name, _, _ := strings.Cut(raw, CompoundSep)
	name = strings.TrimSpace(name)
	if alias, ok := r.aliases[name]; ok {
		return alias
	}
	return name
}

// IsShared reports whether the canonical account name is owned per member.
func (r *Resolver) IsShared(name string) bool {
	return r.shared[name]
}

// Resolve returns the canonical name of raw, with m's suffix when the
// account is shared. Empty input stays empty.
func (r *Resolver) Resolve(raw string, m model.Member) string {
	name := r.Canonical(raw)
	if name == "" || !r.IsShared(name) {
		return name
	}
	return name + m.Suffix()
}
