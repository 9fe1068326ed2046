package logx

// nop drops every entry.
type nop struct{}

// Nop returns a Logger that discards everything. Handy for tests and optional wiring.
func Nop() Logger { return nop{} }

func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}
func (nop) With(...Field) Logger   { return nop{} }
func (nop) Sync() error            { return nil }

var _ Logger = nop{}
