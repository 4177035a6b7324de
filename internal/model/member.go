package model

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/billconv/internal/common"
)

// Member identifies whose export is being converted. Shared wallet accounts
// are suffixed per member so both owners' balances stay separate.
type Member string

const (
	MemberYang Member = "yang"
	MemberHan  Member = "han"
)

// Members lists every recognized household member.
var Members = []Member{MemberYang, MemberHan}

// ParseMember resolves a member selector. Unknown values are config errors.
func ParseMember(s string) (Member, error) {
	switch Member(strings.ToLower(strings.TrimSpace(s))) {
	case MemberYang:
		return MemberYang, nil
	case MemberHan:
		return MemberHan, nil
	}
	return "", fmt.Errorf("%w: unknown user %q (want one of %s)", common.ErrConfig, s, joinMembers())
}

// Suffix returns the decoration appended to shared account names.
func (m Member) Suffix() string {
	switch m {
	case MemberYang:
		return "-杨"
	case MemberHan:
		return "-韩"
	}
	return ""
}

func joinMembers() string {
	names := make([]string, len(Members))
	for i, m := range Members {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
