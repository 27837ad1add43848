package diag

import "fmt"

// Location points at the subject of a diagnostic. File and line are optional:
// reflected declarations only have a Subject (their qualified name).
type Location struct {
	File    string
	Line    int
	Column  int
	Subject string
}

func (l Location) String() string {
	switch {
	case l.File != "" && l.Line > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	case l.File != "":
		return l.File
	default:
		return l.Subject
	}
}

type Note struct {
	Location Location
	Msg      string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Msg: msg})
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Primary, d.Severity, d.Code.ID(), d.Message)
}
