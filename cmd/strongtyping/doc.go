package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDocCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "doc [type...]",
		Short:             "Print the generated documentation of struct types",
		Long:              "Print the generated documentation of the named struct types, or of every declared type when none is named.",
		ValidArgsFunction: a.completeTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = a.typeNames()
			}
			for i, name := range args {
				t, err := a.lookupType(name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), t.Doc())
			}
			return nil
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:               "schema <type>",
		Short:             "Print the JSON Schema of a struct type",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookupType(args[0])
			if err != nil {
				return err
			}
			var out []byte
			if compact {
				out, err = json.Marshal(t.JSONSchema())
			} else {
				out, err = json.MarshalIndent(t.JSONSchema(), "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the schema on a single line")
	return cmd
}
