package types

import "sync/atomic"

// mapLookup is a minimal Lookup for tests.
type mapLookup struct {
	types map[string]*TypeDecl
	gen   uint64
	calls atomic.Int32
}

func newMapLookup(decls ...*TypeDecl) *mapLookup {
	l := &mapLookup{types: make(map[string]*TypeDecl)}
	for _, d := range decls {
		l.add(d)
	}
	return l
}

func (l *mapLookup) add(d *TypeDecl) {
	l.types[d.FullName] = d
	l.gen++
}

func (l *mapLookup) GetType(name string) (*TypeDecl, bool) {
	l.calls.Add(1)
	d, ok := l.types[name]
	return d, ok
}

func (l *mapLookup) Generation() uint64 { return l.gen }
