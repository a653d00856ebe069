package schema

import (
	"github.com/blobforge/blobforge/errors"
)

// Plan returns a dependency-respecting emission order for the requested root
// types: a depth-first post-order walk that visits nested composites before
// the composites that contain them, deduplicated so each type appears exactly
// once. Ties between independently reachable subtypes are broken by
// first-discovery order from the root list, so the result is stable for a
// given root list.
func (r *Registry) Plan(roots []string) ([]*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var chain []string
	var order []*Type

	var visit func(name string) error
	visit = func(name string) error {
		if inPath[name] {
			return errors.CyclicType(errors.PhasePlan, append(append([]string(nil), chain...), name))
		}
		if visited[name] {
			return nil
		}

		t, ok := r.types[name]
		if !ok {
			// Enums carry no dependencies and no emission order of their
			// own; they are planned separately by the assembler.
			if _, isEnum := r.enums[name]; isEnum {
				return nil
			}
			return errors.UnknownType(errors.PhasePlan, name)
		}

		inPath[name] = true
		chain = append(chain, name)

		for _, f := range t.fields {
			if dep := f.Ref.TypeName(); dep != "" {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		chain = chain[:len(chain)-1]
		inPath[name] = false
		visited[name] = true
		order = append(order, t)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return order, nil
}
