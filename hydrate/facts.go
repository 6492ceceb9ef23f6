package hydrate

import (
	"github.com/denwav/hypo/model"
)

// ParamMapping links a parameter of a delegating constructor to the
// parameter of the constructor it delegates to. Indices count declared
// source-level parameters, so the receiver and any implicit outer-class
// capture slot are already excluded.
type ParamMapping struct {
	SourceIndex int
	TargetIndex int
}

// SuperCall records the constructor delegation recovered from a
// constructor's bytecode prologue: the exact super() or this() target
// and the parameter positions that thread straight through.
type SuperCall struct {
	Source *model.MethodData
	Target *model.MethodData
	Params []ParamMapping
}

// LambdaClosure records a single lambda (or method reference) call site:
// the method containing the invokedynamic instruction, the implementation
// method the metafactory bootstraps, the functional interface method it
// implements when resolvable, and the local variable slots captured at
// the call site in load order.
type LambdaClosure struct {
	Containing      *model.MethodData
	Implementation  *model.MethodData
	InterfaceMethod *model.MethodData
	CapturedLocals  []int
}

// LocalClassClosure records a local or anonymous class scoped to a
// method body, together with the local variable slots it captures.
type LocalClassClosure struct {
	Containing     *model.MethodData
	LocalClass     *model.ClassData
	CapturedLocals []int
}

// Fact keys. Hydrators publish their results on the extension stores of
// the methods and classes involved, always on both ends of a link.
var (
	// On a bridge method: the method it forwards to.
	KeyBridgeTarget = model.NewKey[*model.MethodData]("hydrate.bridgeTarget")
	// On a bridged method: every synthetic bridge that forwards to it.
	KeyBridgeSources = model.NewKey[[]*model.MethodData]("hydrate.bridgeSources")

	// On a constructor: the delegation it performs.
	KeySuperCall = model.NewKey[*SuperCall]("hydrate.superCall")
	// On a constructor: every constructor that delegates to it.
	KeySuperCallSources = model.NewKey[[]*SuperCall]("hydrate.superCallSources")

	// On a containing method: lambdas instantiated in its body.
	// On a lambda implementation method: the same closures, seen from
	// the other end.
	KeyLambdaClosures = model.NewKey[[]*LambdaClosure]("hydrate.lambdaClosures")
	// On a lambda implementation method: the functional interface
	// method it implements. Set once, first call site wins.
	KeyLambdaInterface = model.NewKey[*model.MethodData]("hydrate.lambdaInterface")

	// On a containing method: local classes scoped to its body.
	KeyLocalClasses = model.NewKey[[]*LocalClassClosure]("hydrate.localClasses")
	// On a local class: its enclosing scope record.
	KeyLocalClassScope = model.NewKey[*LocalClassClosure]("hydrate.localClassScope")
)
