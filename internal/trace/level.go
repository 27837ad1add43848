package trace

import (
	"fmt"
	"strings"
)

// Level controls how much is recorded.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError records phases and tables into a ring that is only
	// written out when the command fails.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// Records reports whether events of scope are kept at this level.
func (l Level) Records(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePhase
	case LevelError, LevelDetail:
		return scope <= ScopeTable
	case LevelDebug:
		return true
	}
	return false
}
