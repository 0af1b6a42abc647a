package eval

import (
	"fmt"
	"sort"
	"strings"
)

type binding struct {
	value   Value
	mutable bool
}

// Env is one scope frame. Frames are linked to their lexically enclosing frame;
// a Function keeps the frame it was created in alive for as long as it is reachable.
type Env struct {
	parent *Env
	values map[string]*binding
}

func newEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]*binding),
	}
}

func (env *Env) String() string {
	names := make([]string, 0, len(env.values))
	for name := range env.values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for _, name := range names {
		v := env.values[name]
		if v.mutable {
			b.WriteString(fmt.Sprintf(" mut %s:%v", name, v.value))
		} else {
			b.WriteString(fmt.Sprintf(" %s:%v", name, v.value))
		}
	}
	b.WriteString(" }")
	if env.parent != nil {
		b.WriteString("\n\t&")
		b.WriteString(env.parent.String())
	}
	return b.String()
}

// declared reports whether name is bound in this frame, ignoring parents.
func (env *Env) declared(name string) bool {
	_, ok := env.values[name]
	return ok
}

func (env *Env) define(name string, v Value, mutable bool) {
	env.values[name] = &binding{value: v, mutable: mutable}
}

// lookup finds the innermost binding of name.
func (env *Env) lookup(name string) *binding {
	for e := env; e != nil; e = e.parent {
		if b, ok := e.values[name]; ok {
			return b
		}
	}
	return nil
}
