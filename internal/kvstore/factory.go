package kvstore

import (
	"fmt"
	"sync"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// DialerFactory is the Strategy interface for creating store dialers.
// Each backend implements this interface and registers itself from init(),
// so adding a backend never touches the wiring code.
type DialerFactory interface {
	// Create creates a new dialer instance.
	Create() (core.Dialer, error)

	// Type returns the type identifier for this factory (e.g. "redis").
	Type() string
}

var (
	// factoryRegistry stores all registered dialer factories.
	factoryRegistry = make(map[string]DialerFactory)

	// registryMutex protects the registry from concurrent access.
	registryMutex sync.RWMutex
)

// RegisterFactory registers a dialer factory.
// This is called automatically by each implementation's init() function.
func RegisterFactory(factory DialerFactory) {
	if factory == nil {
		panic("factory cannot be nil")
	}
	if factory.Type() == "" {
		panic("factory type cannot be empty")
	}

	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := factoryRegistry[factory.Type()]; exists {
		panic(fmt.Sprintf("factory for type %q is already registered", factory.Type()))
	}

	factoryRegistry[factory.Type()] = factory
}

// NewDialer creates a dialer for the given store type.
// Returns an error if no factory is registered for the type.
func NewDialer(storeType string) (core.Dialer, error) {
	registryMutex.RLock()
	factory, exists := factoryRegistry[storeType]
	registryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no store backend registered for type %q", storeType)
	}
	return factory.Create()
}
