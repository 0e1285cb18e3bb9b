// Package resolver builds the descriptor tree from a set of
// already-introspected class definitions: it invokes each class's
// argument supplier, normalizes the result into arguments, orders
// siblings, applies class/argument filtering, and prunes empty nodes.
package resolver

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/verifyica-go/verifyica/internal/argument"
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/filter"
	"github.com/verifyica-go/verifyica/internal/introspect"
	"github.com/verifyica-go/verifyica/internal/verrors"
)

// Options configures a Resolve call.
type Options struct {
	// ClassFilter keeps/drops whole classes by name. Nil keeps everything.
	ClassFilter *filter.Set

	// TagFilter, if non-empty, keeps only classes carrying at least one
	// of these tags.
	TagFilter []string

	// ArgumentIndices, if non-empty, restricts each class's arguments to
	// these unique-id-indicated positions.
	ArgumentIndices map[string][]int

	// EngineArgumentParallelism is the engine-wide ceiling folded into
	// every class's declared argument parallelism.
	EngineArgumentParallelism int
}

// Resolve builds a pruned, ordered EngineDescriptor from defs.
func Resolve(defs []introspect.ClassDefinition, opts Options) (*descriptor.EngineDescriptor, error) {
	if err := validateLifecycleUniqueness(defs); err != nil {
		return nil, err
	}

	sorted := append([]introspect.ClassDefinition(nil), defs...)
	sortClasses(sorted)

	root := descriptor.NewEngineDescriptor()

	for _, def := range sorted {
		if len(opts.TagFilter) > 0 && !hasAnyTag(def.Tags, opts.TagFilter) {
			continue
		}
		if opts.ClassFilter != nil && !opts.ClassFilter.Matches(def.Name) {
			continue
		}

		classParallelism := def.ArgumentParallelism
		if opts.EngineArgumentParallelism > 0 && classParallelism > opts.EngineArgumentParallelism {
			classParallelism = opts.EngineArgumentParallelism
		}

		classNode := descriptor.NewClassDescriptor(
			root.ID(), def.Name, def.DisplayName, def.Order, def.ScenarioMode,
			def.Prepare, def.Conclude, classParallelism,
		)

		args, err := supplyArguments(def)
		if err != nil {
			return nil, &verrors.SupplierError{TestClass: def.Name, Cause: err}
		}

		if keep, ok := opts.ArgumentIndices[def.Name]; ok {
			args = filterIndices(args, keep)
		}

		sortedTests := append([]introspect.TestMethod(nil), def.Tests...)
		sortTests(sortedTests)

		for i, arg := range args {
			argNode := descriptor.NewArgumentDescriptor(classNode.ID(), def.Name, i, arg, def.BeforeAll, def.AfterAll)

			for _, tm := range sortedTests {
				if tm.Disabled {
					continue
				}
				argNode.AddMethod(descriptor.NewTestMethodDescriptor(
					argNode.ID(), tm.DisplayName, orderOf(tm), def.BeforeEach, tm.Method, def.AfterEach, false,
				))
			}

			classNode.AddArgument(argNode)
		}

		root.AddClass(classNode)
	}

	root.Prune()
	return root, nil
}

// supplyArguments invokes def's supplier and normalizes its return value
// into a []argument.Argument: a single value, a single Argument, a slice,
// or a channel (this package's stand-in for a Java iterator/enumeration/
// lazy sequence) are all accepted. A nil return prunes the class by
// yielding zero arguments.
func supplyArguments(def introspect.ClassDefinition) ([]argument.Argument, error) {
	if def.ArgumentSupplier == nil {
		return nil, fmt.Errorf("class %s declares no argument supplier", def.Name)
	}

	raw, err := def.ArgumentSupplier.Supply()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	if a, ok := raw.(argument.Argument); ok {
		return []argument.Argument{a}, nil
	}

	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]argument.Argument, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, toArgument(i, v.Index(i).Interface()))
		}
		return out, nil

	case reflect.Chan:
		var out []argument.Argument
		i := 0
		for {
			item, ok := v.Recv()
			if !ok {
				break
			}
			out = append(out, toArgument(i, item.Interface()))
			i++
		}
		return out, nil

	default:
		return []argument.Argument{toArgument(0, raw)}, nil
	}
}

func toArgument(i int, v any) argument.Argument {
	if a, ok := v.(argument.Argument); ok {
		return a
	}
	return argument.Indexed(i, v)
}

func filterIndices(args []argument.Argument, keep []int) []argument.Argument {
	wanted := make(map[int]bool, len(keep))
	for _, i := range keep {
		wanted[i] = true
	}
	var out []argument.Argument
	for i, a := range args {
		if wanted[i] {
			out = append(out, a)
		}
	}
	return out
}

func hasAnyTag(tags, wanted []string) bool {
	set := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		set[w] = true
	}
	for _, t := range tags {
		if set[t] {
			return true
		}
	}
	return false
}

func orderOf(tm introspect.TestMethod) int { return tm.Method.Order }

func sortClasses(defs []introspect.ClassDefinition) {
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Order != defs[j].Order {
			return defs[i].Order < defs[j].Order
		}
		return defs[i].DisplayName < defs[j].DisplayName
	})
}

func sortTests(tests []introspect.TestMethod) {
	sort.SliceStable(tests, func(i, j int) bool {
		oi, oj := tests[i].Method.Order, tests[j].Method.Order
		if oi != oj {
			return oi < oj
		}
		return tests[i].DisplayName < tests[j].DisplayName
	})
}

// validateLifecycleUniqueness enforces at most one method per declaring
// class per lifecycle role: Prepare, Conclude, BeforeAll, AfterAll,
// BeforeEach, AfterEach are each declared at most once. Test methods are
// exempt (a class may declare many).
func validateLifecycleUniqueness(defs []introspect.ClassDefinition) error {
	for _, def := range defs {
		if len(def.Prepare) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one Prepare method", def.Name)}
		}
		if len(def.Conclude) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one Conclude method", def.Name)}
		}
		if len(def.BeforeAll) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one BeforeAll method", def.Name)}
		}
		if len(def.AfterAll) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one AfterAll method", def.Name)}
		}
		if len(def.BeforeEach) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one BeforeEach method", def.Name)}
		}
		if len(def.AfterEach) > 1 {
			return &verrors.DiscoveryError{Reason: fmt.Sprintf("class %s declares more than one AfterEach method", def.Name)}
		}
	}
	return nil
}
