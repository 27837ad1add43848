package symbols

import (
	"fmt"

	"codedom/internal/types"
)

// EntryKind classifies a completion or namespace listing entry.
type EntryKind uint8

const (
	EntryNamespace EntryKind = iota + 1
	EntryType
	EntryMember
)

func (k EntryKind) String() string {
	switch k {
	case EntryNamespace:
		return "namespace"
	case EntryType:
		return "type"
	case EntryMember:
		return "member"
	default:
		return fmt.Sprintf("EntryKind(%d)", k)
	}
}

// Entry is one element of a completion list: a namespace name, a type or a
// member. Exactly one of Namespace, Type and Member is meaningful.
type Entry struct {
	Kind      EntryKind
	Namespace string
	Type      *types.TypeDecl
	Member    *types.Member
}

// NamespaceEntry returns an entry for a fully qualified namespace name.
func NamespaceEntry(name string) Entry {
	return Entry{Kind: EntryNamespace, Namespace: name}
}

// TypeEntry returns an entry for decl.
func TypeEntry(decl *types.TypeDecl) Entry {
	if decl == nil {
		panic("symbols.TypeEntry: nil declaration")
	}
	return Entry{Kind: EntryType, Type: decl}
}

// MemberEntry returns an entry for m.
func MemberEntry(m *types.Member) Entry {
	if m == nil {
		panic("symbols.MemberEntry: nil member")
	}
	return Entry{Kind: EntryMember, Member: m}
}

// Name returns the short name shown to the user.
func (e Entry) Name() string {
	switch e.Kind {
	case EntryNamespace:
		_, short := types.SplitName(e.Namespace)
		return short
	case EntryType:
		return e.Type.Name
	case EntryMember:
		return e.Member.Name
	default:
		return ""
	}
}

// Detail returns a one-line description: the namespace path, the type's
// kind and full name, or the member signature.
func (e Entry) Detail() string {
	switch e.Kind {
	case EntryNamespace:
		return "namespace " + e.Namespace
	case EntryType:
		return e.Type.String()
	case EntryMember:
		return e.Member.Kind.String() + " " + types.MemberLabel(e.Member)
	default:
		return ""
	}
}

// Same reports whether both entries denote the same element. Types and
// members compare by identity, namespaces by name.
func (e Entry) Same(other Entry) bool {
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case EntryNamespace:
		return e.Namespace == other.Namespace
	case EntryType:
		return e.Type == other.Type
	case EntryMember:
		return e.Member == other.Member
	default:
		return false
	}
}

func (e Entry) String() string {
	return e.Kind.String() + " " + e.Name()
}
