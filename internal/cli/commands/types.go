package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/objconv/internal/cli/ui"
	"github.com/conduit-lang/objconv/internal/meta"
)

// NewTypesCommand creates the 'types' command
func NewTypesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "types [pattern]",
		Short: "List registered types",
		Long: `List the types loaded from the schema.

Shows each type's kind, supertype, flags and property count. Wrapper
types referenced by properties are listed with the type they wrap.
Builtin scalars are hidden unless --all is given.`,
		Example: `  # List every type
  objconv types

  # List types whose name starts with Shape
  objconv types 'Shape*'

  # Include builtin scalars
  objconv types --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			table := ui.NewTable(cmd.OutOrStdout(), noColor, "NAME", "KIND", "EXTENDS", "FLAGS", "PROPERTIES")
			for _, info := range s.registry.Find(pattern) {
				if info.Kind == meta.KindScalar && !all {
					continue
				}
				table.AddRow(describeType(s.registry, info)...)
			}

			if table.Len() == 0 {
				fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf("no types match %q", pattern), noColor))
				return nil
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include builtin scalar types")

	return cmd
}

// describeType returns the table cells for one registry entry
func describeType(r *meta.Registry, info meta.TypeInfo) []string {
	var extends, flags, props string

	switch info.Kind {
	case meta.KindObject:
		t := info.Object
		if t.Super != nil {
			extends = t.Super.Name
		}
		var f []string
		if t.Polymorphic {
			f = append(f, "polymorphic")
		}
		if t.Abstract {
			f = append(f, "abstract")
		}
		if t.OwnedByParent {
			f = append(f, "owned")
		}
		flags = strings.Join(f, ",")
		props = fmt.Sprintf("%d", len(t.AllProperties()))
	case meta.KindWrapper:
		flags = info.Ownership.String()
		if elem, ok := r.Lookup(info.Elem); ok {
			flags += " of " + elem.Name
		}
	}

	return []string{info.Name, info.Kind.String(), extends, flags, props}
}
