package mappings

import (
	"github.com/denwav/hypo/hydrate"
	"github.com/denwav/hypo/model"
)

// Propagate copies mappings across the links hydration discovered:
// a bridge and its target share one source-level method, a delegating
// constructor threads parameter names to the constructor it calls, and
// a lambda implementation inherits the parameter names of the
// functional interface method it implements. Existing entries are never
// overwritten, only filled in.
func Propagate(ctx *model.Context, set *MappingSet) error {
	names, err := ctx.AllClassNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		class, err := ctx.TryClass(name)
		if err != nil || class == nil {
			continue
		}
		for _, method := range class.Methods() {
			propagateMethod(set, method)
		}
	}
	return nil
}

func propagateMethod(set *MappingSet, method *model.MethodData) {
	if target, ok := model.Get(&method.Data, hydrate.KeyBridgeTarget); ok {
		// Bridge and target are the same method at the source level.
		fillBoth(entry(set, method), entry(set, target))
	}

	if call, ok := model.Get(&method.Data, hydrate.KeySuperCall); ok {
		src := entry(set, call.Source)
		tgt := entry(set, call.Target)
		for _, p := range call.Params {
			fillParam(src, p.SourceIndex, tgt.ParamName(p.TargetIndex))
			fillParam(tgt, p.TargetIndex, src.ParamName(p.SourceIndex))
		}
	}

	if iface, ok := model.Get(&method.Data, hydrate.KeyLambdaInterface); ok {
		propagateLambda(set, method, iface)
	}
}

// propagateLambda copies the interface method's parameter names onto
// the implementation. The implementation's leading parameters are the
// captured values, so interface parameter i lands at i plus the capture
// count.
func propagateLambda(set *MappingSet, impl, iface *model.MethodData) {
	implDesc, err := impl.Descriptor()
	if err != nil {
		return
	}
	ifaceDesc, err := iface.Descriptor()
	if err != nil {
		return
	}
	captured := len(implDesc.Params()) - len(ifaceDesc.Params())
	if captured < 0 {
		return
	}

	src := entry(set, iface)
	dst := entry(set, impl)
	if dst.Mapped == "" {
		dst.Mapped = src.Mapped
	}
	for i := range ifaceDesc.Params() {
		fillParam(dst, i+captured, src.ParamName(i))
	}
}

func entry(set *MappingSet, method *model.MethodData) *MethodMapping {
	owner := set.GetOrCreateClass(method.Owner().Name())
	return owner.GetOrCreateMethod(method.Name(), method.DescriptorText())
}

func fillBoth(a, b *MethodMapping) {
	if a.Mapped == "" {
		a.Mapped = b.Mapped
	} else if b.Mapped == "" {
		b.Mapped = a.Mapped
	}
	for i, name := range a.Params {
		fillParam(b, i, name)
	}
	for i, name := range b.Params {
		fillParam(a, i, name)
	}
}

func fillParam(m *MethodMapping, index int, name string) {
	if name == "" || m.ParamName(index) != "" {
		return
	}
	m.SetParamName(index, name)
}
