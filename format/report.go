// Package format builds and encodes analysis reports: a serializable
// view of the hydrated class graph with the derived bridge, super-call,
// lambda and local-class facts.
package format

import (
	"sort"

	"github.com/denwav/hypo/hydrate"
	"github.com/denwav/hypo/model"
)

// MethodRef identifies a method across the report.
type MethodRef struct {
	Owner      string `json:"owner" yaml:"owner" cbor:"owner"`
	Name       string `json:"name" yaml:"name" cbor:"name"`
	Descriptor string `json:"descriptor" yaml:"descriptor" cbor:"descriptor"`
}

func refOf(m *model.MethodData) MethodRef {
	return MethodRef{Owner: m.Owner().Name(), Name: m.Name(), Descriptor: m.DescriptorText()}
}

type BridgeReport struct {
	Bridge MethodRef `json:"bridge" yaml:"bridge" cbor:"bridge"`
	Target MethodRef `json:"target" yaml:"target" cbor:"target"`
}

type ParamLink struct {
	Source int `json:"source" yaml:"source" cbor:"source"`
	Target int `json:"target" yaml:"target" cbor:"target"`
}

type SuperCallReport struct {
	Constructor MethodRef   `json:"constructor" yaml:"constructor" cbor:"constructor"`
	Target      MethodRef   `json:"target" yaml:"target" cbor:"target"`
	Params      []ParamLink `json:"params,omitempty" yaml:"params,omitempty" cbor:"params,omitempty"`
}

type LambdaReport struct {
	Containing     MethodRef  `json:"containing" yaml:"containing" cbor:"containing"`
	Implementation MethodRef  `json:"implementation" yaml:"implementation" cbor:"implementation"`
	Interface      *MethodRef `json:"interface,omitempty" yaml:"interface,omitempty" cbor:"interface,omitempty"`
	Captured       []int      `json:"captured,omitempty" yaml:"captured,omitempty" cbor:"captured,omitempty"`
}

type LocalClassReport struct {
	LocalClass string    `json:"localClass" yaml:"localClass" cbor:"localClass"`
	Containing MethodRef `json:"containing" yaml:"containing" cbor:"containing"`
	Captured   []int     `json:"captured,omitempty" yaml:"captured,omitempty" cbor:"captured,omitempty"`
}

type ClassReport struct {
	Name       string   `json:"name" yaml:"name" cbor:"name"`
	Kind       string   `json:"kind" yaml:"kind" cbor:"kind"`
	Visibility string   `json:"visibility" yaml:"visibility" cbor:"visibility"`
	SuperClass string   `json:"superClass,omitempty" yaml:"superClass,omitempty" cbor:"superClass,omitempty"`
	Interfaces []string `json:"interfaces,omitempty" yaml:"interfaces,omitempty" cbor:"interfaces,omitempty"`

	Bridges      []BridgeReport     `json:"bridges,omitempty" yaml:"bridges,omitempty" cbor:"bridges,omitempty"`
	SuperCalls   []SuperCallReport  `json:"superCalls,omitempty" yaml:"superCalls,omitempty" cbor:"superCalls,omitempty"`
	Lambdas      []LambdaReport     `json:"lambdas,omitempty" yaml:"lambdas,omitempty" cbor:"lambdas,omitempty"`
	LocalClasses []LocalClassReport `json:"localClasses,omitempty" yaml:"localClasses,omitempty" cbor:"localClasses,omitempty"`
}

type Report struct {
	Classes []ClassReport `json:"classes" yaml:"classes" cbor:"classes"`
}

// BuildReport walks every class the context can reach and collects the
// hydration facts into a stable, name-sorted report.
func BuildReport(ctx *model.Context) (*Report, error) {
	names, err := ctx.AllClassNames()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	report := &Report{}
	for _, name := range names {
		class, err := ctx.TryClass(name)
		if err != nil || class == nil {
			continue
		}
		report.Classes = append(report.Classes, buildClassReport(class))
	}
	return report, nil
}

func buildClassReport(class *model.ClassData) ClassReport {
	cr := ClassReport{
		Name:       class.Name(),
		Kind:       string(class.Kind()),
		Visibility: string(class.Visibility()),
		SuperClass: class.File().SuperClassName(),
		Interfaces: class.File().InterfaceNames(),
	}

	for _, method := range class.Methods() {
		if target, ok := model.Get(&method.Data, hydrate.KeyBridgeTarget); ok {
			cr.Bridges = append(cr.Bridges, BridgeReport{Bridge: refOf(method), Target: refOf(target)})
		}
		if call, ok := model.Get(&method.Data, hydrate.KeySuperCall); ok {
			sc := SuperCallReport{Constructor: refOf(call.Source), Target: refOf(call.Target)}
			for _, p := range call.Params {
				sc.Params = append(sc.Params, ParamLink{Source: p.SourceIndex, Target: p.TargetIndex})
			}
			cr.SuperCalls = append(cr.SuperCalls, sc)
		}
		if closures, ok := model.Get(&method.Data, hydrate.KeyLambdaClosures); ok {
			for _, c := range closures {
				if c.Containing != method {
					// Reported once, at the containing side.
					continue
				}
				lr := LambdaReport{
					Containing:     refOf(c.Containing),
					Implementation: refOf(c.Implementation),
					Captured:       c.CapturedLocals,
				}
				if c.InterfaceMethod != nil {
					ref := refOf(c.InterfaceMethod)
					lr.Interface = &ref
				}
				cr.Lambdas = append(cr.Lambdas, lr)
			}
		}
		if closures, ok := model.Get(&method.Data, hydrate.KeyLocalClasses); ok {
			for _, c := range closures {
				cr.LocalClasses = append(cr.LocalClasses, LocalClassReport{
					LocalClass: c.LocalClass.Name(),
					Containing: refOf(c.Containing),
					Captured:   c.CapturedLocals,
				})
			}
		}
	}
	return cr
}
