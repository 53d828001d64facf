package scope

// Tracker records which variable names have already been declared in the
// emitted code for the function currently being translated. The source
// language has function-level scoping, so nested blocks (if/while/for
// bodies) never push a scope of their own; only function bodies do. The
// bottom scope is the implicit module scope and can never be popped.
type Tracker struct {
	scopes []map[string]bool
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.scopes = append(t.scopes, make(map[string]bool))
	return t
}

// EnterFunction pushes a fresh scope for a function body.
func (t *Tracker) EnterFunction() {
	t.scopes = append(t.scopes, make(map[string]bool))
}

// ExitFunction pops the current function scope. Popping the module scope is
// a no-op.
func (t *Tracker) ExitFunction() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Declare marks a name as declared in the active scope. It reports true if
// the name was newly declared, false if it was already present; the caller
// uses that to choose declaration-with-initializer vs plain assignment.
func (t *Tracker) Declare(name string) bool {
	top := t.scopes[len(t.scopes)-1]
	if top[name] {
		return false
	}
	top[name] = true
	return true
}

// IsDeclared reports whether a name is declared in the active scope.
func (t *Tracker) IsDeclared(name string) bool {
	return t.scopes[len(t.scopes)-1][name]
}

// Depth reports how many scopes are live, the module scope included.
func (t *Tracker) Depth() int {
	return len(t.scopes)
}

// Reset drops everything back to a single empty module scope.
func (t *Tracker) Reset() {
	t.scopes = t.scopes[:0]
	t.scopes = append(t.scopes, make(map[string]bool))
}
