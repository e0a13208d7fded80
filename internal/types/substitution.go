package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Substitution maps type-variable names to their bound type. It is kept
// idempotent after every Unify (spec.md §3.4 invariant 1): no key's value
// may itself contain that same key transitively.
type Substitution map[string]Type

// substCacheLimit bounds the bare-variable substitution cache so long REPL
// sessions don't grow it without bound (spec.md §4.1, §9 "Caches").
const substCacheLimit = 1000

// substCache memoizes the common case of substituting a bare *Variable,
// keyed by variable name plus a compact hash of the substitution in effect.
// It is process-wide but self-limiting: once full, new entries are dropped
// rather than evicted, since the cache is a speed optimization rather than
// a correctness requirement.
var substCacheMu sync.Mutex
var substCache = map[string]Type{}

func substCacheGet(key string) (Type, bool) {
	substCacheMu.Lock()
	defer substCacheMu.Unlock()
	t, ok := substCache[key]
	return t, ok
}

func substCachePut(key string, t Type) {
	substCacheMu.Lock()
	defer substCacheMu.Unlock()
	if len(substCache) < substCacheLimit {
		substCache[key] = t
	}
}

func substCacheKey(varName string, sub Substitution) string {
	// A cheap, order-independent hash: sort keys, concatenate key=ptr-ish
	// identity via the value's String() form. Collisions only cost a cache
	// miss (re-derived correctly), never incorrect results, since the cache
	// is consulted only as a shortcut to the real Substitute walk.
	names := make([]string, 0, len(sub))
	for k := range sub {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(varName)
	b.WriteByte('|')
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(sub[n].String())
		b.WriteByte(';')
	}
	return b.String()
}

// Substitute walks t, replacing each variable by its σ-image transitively,
// with a per-call visited set guarding against substitution cycles (spec.md
// §4.1). Cycles should never occur given the occurs check in Unify, but the
// guard keeps a latent bug from hanging the inferencer instead of merely
// producing a wrong type.
func Substitute(t Type, sub Substitution) Type {
	if len(sub) == 0 {
		return t
	}
	return substituteVisited(t, sub, map[string]bool{})
}

func substituteVisited(t Type, sub Substitution, visited map[string]bool) Type {
	switch tt := t.(type) {
	case *Variable:
		if len(tt.Constraints) == 0 && len(visited) == 0 {
			key := substCacheKey(tt.Name, sub)
			if cached, ok := substCacheGet(key); ok {
				return cached
			}
			result := substituteVariable(tt, sub, visited)
			substCachePut(key, result)
			return result
		}
		return substituteVariable(tt, sub, visited)

	case *Function:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = substituteVisited(p, sub, visited)
		}
		cs := make([]Constraint, len(tt.Constraints))
		for i, c := range tt.Constraints {
			cs[i] = substituteConstraint(c, sub, visited)
		}
		return &Function{
			Params:      params,
			Return:      substituteVisited(tt.Return, sub, visited),
			Effects:     tt.Effects,
			Constraints: cs,
		}

	case *List:
		return &List{Element: substituteVisited(tt.Element, sub, visited)}

	case *Tuple:
		elems := make([]Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = substituteVisited(e, sub, visited)
		}
		return &Tuple{Elements: elems}

	case *Record:
		fields := make(map[string]Type, len(tt.Fields))
		for n, ft := range tt.Fields {
			fields[n] = substituteVisited(ft, sub, visited)
		}
		return &Record{Fields: fields}

	case *Variant:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = substituteVisited(a, sub, visited)
		}
		return &Variant{Name: tt.Name, Args: args}

	case *Union:
		alts := make([]Type, len(tt.Alternatives))
		for i, a := range tt.Alternatives {
			alts[i] = substituteVisited(a, sub, visited)
		}
		return &Union{Alternatives: alts}

	case *Constrained:
		// Substitute the base and leave the constraint table's keys
		// untouched (spec.md §4.1): constraints attach to *variable names*,
		// which substitution resolves structurally, not by renaming here.
		cs := make([]Constraint, len(tt.Constraints))
		for i, c := range tt.Constraints {
			cs[i] = c
		}
		return &Constrained{Base: substituteVisited(tt.Base, sub, visited), Constraints: cs}

	case *nestedHas:
		fields := make(map[string]Type, len(tt.Fields))
		for n, ft := range tt.Fields {
			fields[n] = substituteVisited(ft, sub, visited)
		}
		return &nestedHas{Has: &Has{TVar: tt.TVar, Fields: fields}}

	default:
		return t
	}
}

func substituteVariable(v *Variable, sub Substitution, visited map[string]bool) Type {
	if visited[v.Name] {
		// Cycle guard (spec.md §4.1, §9): never relax the occurs check, but
		// don't hang here either if one somehow slipped through.
		return v
	}
	image, ok := sub[v.Name]
	if !ok {
		return v
	}
	visited = markVisited(visited, v.Name)
	return substituteVisited(image, sub, visited)
}

func markVisited(visited map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(visited)+1)
	for k := range visited {
		out[k] = true
	}
	out[name] = true
	return out
}

func substituteConstraint(c Constraint, sub Substitution, visited map[string]bool) Constraint {
	switch cc := c.(type) {
	case *Implements:
		return cc
	case *Has:
		fields := make(map[string]Type, len(cc.Fields))
		for n, ft := range cc.Fields {
			fields[n] = substituteVisited(ft, sub, visited)
		}
		return &Has{TVar: cc.TVar, Fields: fields}
	case *HasField:
		return &HasField{TVar: cc.TVar, Field: cc.Field, Type: substituteVisited(cc.Type, sub, visited)}
	case *Is:
		return cc
	case *Custom:
		args := make([]Type, len(cc.Args))
		for i, a := range cc.Args {
			args[i] = substituteVisited(a, sub, visited)
		}
		return &Custom{TVar: cc.TVar, Name: cc.Name, Args: args}
	default:
		return c
	}
}

// ComposeSubstitutions extends base with the bindings of extra, applying
// base to every image in extra first so the result stays idempotent.
func ComposeSubstitutions(base, extra Substitution) Substitution {
	out := make(Substitution, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = Substitute(v, base)
	}
	return out
}

// checkIdempotent is a test/debug helper asserting invariant 1 of spec.md
// §3.4: substituting an already-substituted type is a no-op.
func checkIdempotent(t Type, sub Substitution) error {
	once := Substitute(t, sub)
	twice := Substitute(once, sub)
	if !once.Equals(twice) {
		return fmt.Errorf("substitution not idempotent: %s != %s", once, twice)
	}
	return nil
}
