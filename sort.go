package params

import "slices"

// dependencyOrder returns the names of params in an order where every
// parameter comes after the parameters it depends on.
//
// It is Kahn's algorithm with ties broken by insertion order, so lists
// without dependencies are prepared in the order they were declared.
// Self references, references to undeclared parameters and cycles are
// returned as *ConfigurationError.
func dependencyOrder(list string, order []string, params map[string]*Parameter) ([]string, error) {
	inDegree := make(map[string]int, len(order))
	dependents := make(map[string][]string, len(order))

	for _, name := range order {
		for _, dep := range params[name].Dependencies() {
			if dep == name {
				return nil, &ConfigurationError{List: list, Names: []string{name}, Err: ErrSelfDependency}
			}
			if _, ok := params[dep]; !ok {
				return nil, &ConfigurationError{List: list, Names: []string{name, dep}, Err: ErrUnknownDependency}
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	sorted := make([]string, 0, len(order))
	done := make(map[string]bool, len(order))

	for len(sorted) < len(order) {
		next := slices.IndexFunc(order, func(name string) bool {
			return !done[name] && inDegree[name] == 0
		})

		if next < 0 {
			remaining := slices.DeleteFunc(slices.Clone(order), func(name string) bool {
				return done[name]
			})
			return nil, &ConfigurationError{List: list, Names: remaining, Err: ErrCircularDependency}
		}

		name := order[next]
		done[name] = true
		sorted = append(sorted, name)
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
		}
	}

	return sorted, nil
}
