package cmd

import (
	"fmt"
	"strings"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
	"github.com/spf13/cobra"
)

var SubtypeCmd = &cobra.Command{
	Use:   "subtype <sub> <sup>",
	Short: "Report whether one type is a subtype of another",
	Long: `Types are given as tree dumps of type annotations, for example

  hunch subtype '{kind: type_identifier, text: Int}' '{kind: nullable_type, fields: {type: {kind: type_identifier, text: Float}}}'

With --in, names declared by a program (entities, sealed hierarchies and aliases) may be used too.`,
	RunE:         runSubtype,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var subtypeIn *string

func init() {
	subtypeIn = SubtypeCmd.Flags().String("in", "", "program whose declared types are in scope")
}

func runSubtype(cmd *cobra.Command, args []string) error {
	var lookup types.Lookup
	if *subtypeIn != "" {
		t, err := resolveTarget(*subtypeIn)
		if err != nil {
			return err
		}
		u, err := t.load()
		if err != nil {
			return err
		}
		symbols := u.Check().Symbols
		lookup = func(name string) (types.Type, bool) {
			sym, ok := symbols.LookupType(name)
			if !ok {
				return nil, false
			}
			return sym.Type, true
		}
	}

	sub, err := parseType(args[0], lookup)
	if err != nil {
		return err
	}
	sup, err := parseType(args[1], lookup)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%v <: %v: %t\n", sub, sup, types.IsSubtype(sub, sup))
	return err
}

func parseType(arg string, lookup types.Lookup) (types.Type, error) {
	n, err := cst.Load(strings.NewReader(arg))
	if err != nil {
		return nil, fmt.Errorf("could not read type '%s': %w", arg, err)
	}
	var problems []string
	t := types.FromNode(n, lookup, func(err error) {
		problems = append(problems, err.Error())
	})
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid type '%s': %s", arg, strings.Join(problems, "; "))
	}
	return t, nil
}
