package jsonpath

import (
	"slices"
)

// Get returns every value the path selects in doc. It returns nil when
// nothing matches.
func (p *Path) Get(doc any) []any {
	current := []any{doc}
	for _, seg := range p.segments {
		var next []any
		for _, node := range current {
			for _, c := range children(node, seg) {
				next = append(next, c.value)
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// Modify replaces every selected value with fn(value) and returns the
// resulting document along with the number of nodes changed. Maps and
// slices are updated in place; the returned document differs from doc only
// when the root itself is selected.
func (p *Path) Modify(doc any, fn func(any) any) (any, int) {
	return modify(doc, p.segments, fn)
}

// Remove deletes every selected node. Array elements are removed and the
// array shrinks. It returns the resulting document and the number of nodes
// removed.
func (p *Path) Remove(doc any) (any, int, error) {
	if p.IsRoot() {
		return doc, 0, ErrRoot
	}
	out, n := remove(doc, p.segments)
	return out, n, nil
}

type child struct {
	key   string
	index int
	value any
}

// children lists the direct children of node selected by seg.
func children(node any, seg segment) []child {
	switch v := node.(type) {
	case map[string]any:
		switch seg.kind {
		case segChild:
			if val, ok := v[seg.key]; ok {
				return []child{{key: seg.key, value: val}}
			}
		case segWildcard:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			out := make([]child, 0, len(keys))
			for _, k := range keys {
				out = append(out, child{key: k, value: v[k]})
			}
			return out
		}
	case []any:
		switch seg.kind {
		case segIndex:
			if i, ok := normalizeIndex(seg.index, len(v)); ok {
				return []child{{index: i, value: v[i]}}
			}
		case segWildcard:
			out := make([]child, 0, len(v))
			for i, val := range v {
				out = append(out, child{index: i, value: val})
			}
			return out
		}
	}
	return nil
}

func normalizeIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

func modify(node any, segs []segment, fn func(any) any) (any, int) {
	if len(segs) == 0 {
		return fn(node), 1
	}
	total := 0
	for _, c := range children(node, segs[0]) {
		nv, n := modify(c.value, segs[1:], fn)
		if n == 0 {
			continue
		}
		total += n
		switch v := node.(type) {
		case map[string]any:
			v[c.key] = nv
		case []any:
			v[c.index] = nv
		}
	}
	return node, total
}

func remove(node any, segs []segment) (any, int) {
	matched := children(node, segs[0])
	if len(segs) > 1 {
		total := 0
		for _, c := range matched {
			nv, n := remove(c.value, segs[1:])
			if n == 0 {
				continue
			}
			total += n
			switch v := node.(type) {
			case map[string]any:
				v[c.key] = nv
			case []any:
				v[c.index] = nv
			}
		}
		return node, total
	}

	switch v := node.(type) {
	case map[string]any:
		for _, c := range matched {
			delete(v, c.key)
		}
		return v, len(matched)
	case []any:
		if len(matched) == 0 {
			return v, 0
		}
		drop := make(map[int]bool, len(matched))
		for _, c := range matched {
			drop[c.index] = true
		}
		kept := make([]any, 0, len(v)-len(drop))
		for i, val := range v {
			if !drop[i] {
				kept = append(kept, val)
			}
		}
		return kept, len(matched)
	}
	return node, 0
}
