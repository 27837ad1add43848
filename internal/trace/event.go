package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller scopes are coarser.
type Scope uint8

const (
	// ScopeCommand covers a whole CLI command.
	ScopeCommand Scope = iota + 1
	// ScopePhase covers workspace phases (load, import, build, rebuild).
	ScopePhase
	// ScopeTable covers work on a single symbol table or bundle.
	ScopeTable
	// ScopeResolve covers a single resolution or completion request.
	ScopeResolve
)

var scopeNames = [...]string{
	ScopeCommand: "command",
	ScopePhase:   "phase",
	ScopeTable:   "table",
	ScopeResolve: "resolve",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value annotation of an event. Attrs keep the order in
// which they were added.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record. Span ends carry the span's duration and
// attributes.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // e.g. "import", "resolve", "table:mscorlib"
	Detail   string
	Failed   bool
	Elapsed  time.Duration
	Attrs    []Attr
}

// Attr returns the value stored under key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
