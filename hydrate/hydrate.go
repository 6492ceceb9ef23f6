// Package hydrate recovers source-level structure that javac erases
// when it lowers a program to bytecode. Each hydrator inspects the
// instruction streams of a loaded class and publishes what it finds as
// facts on the extension stores of the methods and classes involved:
// bridge forwarding targets, constructor delegation, lambda closures
// and local class scoping.
package hydrate

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/denwav/hypo/model"
)

// A Hydrator analyzes one class at a time. Implementations must be safe
// for concurrent use: the manager runs each pass over many classes in
// parallel, and facts about a shared target (a bridged method, a super
// constructor) may be published from several goroutines at once.
type Hydrator interface {
	Name() string
	HydrateClass(ctx *model.Context, class *model.ClassData) error
}

// Default returns the standard hydrator sequence. The local class pass
// comes after the lambda pass so that classes instantiated only inside
// lambda bodies are already attributable to their enclosing method.
func Default() []Hydrator {
	return []Hydrator{
		NewBridgeHydrator(),
		NewSuperCallHydrator(),
		NewLambdaHydrator(),
		NewLocalClassHydrator(),
	}
}

// Manager drives hydration passes over every class a context can reach.
// Passes run strictly in order, one worker pool per pass, so a hydrator
// may rely on the facts of every pass before it. Every run of a manager
// is tagged with its session id so log lines from concurrent analyses
// stay attributable.
type Manager struct {
	hydrators []Hydrator
	workers   int
	session   string
	log       commonlog.Logger
}

func NewManager(workers int, hydrators ...Hydrator) *Manager {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(hydrators) == 0 {
		hydrators = Default()
	}
	return &Manager{
		hydrators: hydrators,
		workers:   workers,
		session:   uuid.NewString(),
		log:       commonlog.GetLogger("hypo.hydrate"),
	}
}

// Session returns the id stamped on this manager's log lines.
func (m *Manager) Session() string { return m.session }

// Run loads every class the context knows about and applies each
// hydrator to each class. A class that fails to load or hydrate is
// logged and skipped; it never aborts the pass.
func (m *Manager) Run(ctx *model.Context) error {
	names, err := ctx.AllClassNames()
	if err != nil {
		return fmt.Errorf("enumerating classes: %w", err)
	}

	classes := make([]*model.ClassData, 0, len(names))
	for _, name := range names {
		class, err := ctx.FindClass(name)
		if err != nil {
			m.log.Errorf("loading %s: %s", name, err)
			continue
		}
		classes = append(classes, class)
	}

	for _, h := range m.hydrators {
		m.log.Infof("[%s] pass %q over %d classes", m.session, h.Name(), len(classes))
		m.runPass(ctx, h, classes)
	}
	return nil
}

func (m *Manager) runPass(ctx *model.Context, h Hydrator, classes []*model.ClassData) {
	work := make(chan *model.ClassData)
	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for class := range work {
				if err := h.HydrateClass(ctx, class); err != nil {
					m.log.Warningf("[%s] %s: %s: %s", m.session, h.Name(), class.Name(), err)
				}
			}
		}()
	}
	for _, class := range classes {
		work <- class
	}
	close(work)
	wg.Wait()
}
