package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/denwav/hypo/types"
)

func newTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <descriptor-or-signature>",
		Short: "Parse a JVM type descriptor or generic signature and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpType(cmd, args[0])
		},
	}
	return cmd
}

func dumpType(cmd *cobra.Command, text string) error {
	// Try the richer grammars first: a plain descriptor is also a valid
	// signature, but not the other way around.
	if sig, err := types.ParseMethodSignature(text); err == nil {
		printMethodSignature(cmd, sig)
		return nil
	}
	if sig, err := types.ParseTypeSignature(text); err == nil {
		cmd.Printf("type signature %s\n", sig)
		printSignatureTree(cmd, sig, 1)
		return nil
	}
	if sig, err := types.ParseClassSignature(text); err == nil {
		printClassSignature(cmd, sig)
		return nil
	}
	if desc, err := types.ParseMethodDescriptor(text); err == nil {
		cmd.Printf("method descriptor %s\n", desc)
		for i, p := range desc.Params() {
			cmd.Printf("  param %d: %s\n", i, p)
		}
		cmd.Printf("  returns: %s\n", desc.Ret())
		return nil
	}
	if desc, err := types.ParseTypeDescriptor(text); err == nil {
		cmd.Printf("type descriptor %s\n", desc)
		return nil
	}
	return fmt.Errorf("%q is not a valid descriptor or signature", text)
}

func printMethodSignature(cmd *cobra.Command, sig *types.MethodSignature) {
	cmd.Printf("method signature %s\n", sig)
	for _, p := range sig.TypeParams() {
		cmd.Printf("  type param %s\n", p.Name())
	}
	for i, p := range sig.Params() {
		cmd.Printf("  param %d: %s\n", i, p)
		printSignatureTree(cmd, p, 2)
	}
	cmd.Printf("  returns: %s\n", sig.Ret())
	for _, t := range sig.Throws() {
		cmd.Printf("  throws: %s\n", t)
	}
}

func printClassSignature(cmd *cobra.Command, sig *types.ClassSignature) {
	cmd.Printf("class signature %s\n", sig)
	for _, p := range sig.TypeParams() {
		cmd.Printf("  type param %s\n", p.Name())
	}
	if sig.SuperClass() != nil {
		cmd.Printf("  extends: %s\n", sig.SuperClass())
	}
	for _, i := range sig.Interfaces() {
		cmd.Printf("  implements: %s\n", i)
	}
}

func printSignatureTree(cmd *cobra.Command, sig types.TypeSignature, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := sig.(type) {
	case *types.ClassTypeSignature:
		for _, arg := range s.Args() {
			cmd.Printf("%sarg: %s\n", indent, arg)
		}
	case *types.ArrayTypeSignature:
		cmd.Printf("%sarray of %s (dims %d)\n", indent, s.Base(), s.Dims())
	case *types.TypeVariable:
		state := "bound"
		if s.IsUnbound() {
			state = "unbound"
		}
		cmd.Printf("%svariable %s (%s)\n", indent, s.Name(), state)
	}
}
