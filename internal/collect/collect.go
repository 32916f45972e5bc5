// Package collect implements descriptor registration and collection: the
// bag-of-producers protocol by which every annotated item in an extension
// becomes discoverable to the generator. Producers registered in-process
// (Go extensions linked with the generator), embedded in a shared library
// section, or written to a standalone bundle file all land in the same
// Set; later stages never depend on discovery order.
package collect

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/logger"
)

// Producer is a nullary procedure returning one descriptor. Producers are
// required to be total; a panic fails collection with ProducerFault.
type Producer func() (entity.Descriptor, error)

// ProducerFault reports a producer that terminated abnormally
type ProducerFault struct {
	Symbol string
	Cause  error
}

func (e *ProducerFault) Error() string {
	return fmt.Sprintf("producer %s terminated abnormally: %v", e.Symbol, e.Cause)
}

func (e *ProducerFault) Unwrap() error { return e.Cause }

// Set is the collected descriptor population of one generator run
type Set struct {
	Descriptors []entity.Descriptor
}

// Registry is an in-process bag of producers. Extension code registers one
// producer per annotated item, usually from init functions, so
// registration order follows package initialization order and carries no
// meaning.
type Registry struct {
	mu        sync.Mutex
	order     []string
	producers map[string]Producer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{producers: make(map[string]Producer)}
}

// Register adds a producer under its mangled symbol name. Re-registering
// a symbol panics: two items cannot mangle to the same producer.
func (r *Registry) Register(symbol string, p Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.producers[symbol]; dup {
		panic("collect: producer registered twice: " + symbol)
	}
	r.order = append(r.order, symbol)
	r.producers[symbol] = p
}

// Manifest returns the registered producer symbol names, sorted
func (r *Registry) Manifest() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	manifest := make([]string, len(r.order))
	copy(manifest, r.order)
	sort.Strings(manifest)
	return manifest
}

// Collect invokes every registered producer and assembles the population
func (r *Registry) Collect() (*Set, error) {
	log := logger.Get()
	manifest := r.Manifest()

	set := &Set{Descriptors: make([]entity.Descriptor, 0, len(manifest))}
	for _, symbol := range manifest {
		r.mu.Lock()
		p := r.producers[symbol]
		r.mu.Unlock()

		d, err := invoke(symbol, p)
		if err != nil {
			return nil, err
		}
		log.Debug("collected descriptor", "symbol", symbol, "kind", d.Kind(), "path", d.FullPath())
		set.Descriptors = append(set.Descriptors, d)
	}
	return set, nil
}

// invoke runs one producer, converting panics into ProducerFault
func invoke(symbol string, p Producer) (d entity.Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ProducerFault{Symbol: symbol, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	d, err = p()
	if err != nil {
		return nil, &ProducerFault{Symbol: symbol, Cause: err}
	}
	if d == nil {
		return nil, &ProducerFault{Symbol: symbol, Cause: fmt.Errorf("returned no descriptor")}
	}
	return d, nil
}

// defaultRegistry backs the package-level registration surface used by
// extensions that link the generator directly
var defaultRegistry = NewRegistry()

// Register adds a producer to the default registry
func Register(symbol string, p Producer) {
	defaultRegistry.Register(symbol, p)
}

// Default returns the default in-process registry
func Default() *Registry {
	return defaultRegistry
}
