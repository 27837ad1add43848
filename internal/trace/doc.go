// Package trace records what codedom does while it loads a workspace and
// answers queries.
//
// Spans and points go to a Tracer taken from the context. Without one, every
// call lands on Nop and costs a single interface check.
//
//	codedom complete --trace=- --trace-level=detail 'list.Add'
//	codedom watch --trace=watch.ndjson --trace-heartbeat=5s
//
// Levels pick scopes: phase keeps command and phase spans, detail adds
// per-table work, debug adds every resolution. The error level records like
// detail into a ring and the CLI writes the ring out only when a command
// fails.
//
// Span ends carry the span's duration and the attributes set with Attr:
//
//	ctx, span := trace.Start(ctx, trace.ScopeTable, "table:"+name)
//	defer span.Attr("types", strconv.Itoa(n)).End("")
package trace
