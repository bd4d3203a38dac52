// Package server holds the exchange hub: a registry of the configured
// exchange connections, addressed by name. The REST layer resolves every
// request through it, so adding a venue is one Register call.
package server

import (
	"sync"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
)

type Hub struct {
	mutex sync.RWMutex

	exchanges   map[string]exchange.Exchange
	defaultName string
}

func NewHub() *Hub {
	return &Hub{
		exchanges: make(map[string]exchange.Exchange),
	}
}

// Register adds an exchange under its own name. The first registration
// becomes the default.
func (h *Hub) Register(ex exchange.Exchange) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.exchanges[ex.Name()] = ex
	if len(h.defaultName) == 0 {
		h.defaultName = ex.Name()
	}

	config.Logger.Infof("[hub] exchange %s registered", ex.Name())
}

// Get resolves a name to an exchange, the default when the name is empty.
// Nil when nothing matches.
func (h *Hub) Get(name string) exchange.Exchange {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(name) == 0 {
		name = h.defaultName
	}

	return h.exchanges[name]
}

func (h *Hub) Names() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	names := make([]string, 0, len(h.exchanges))
	for name := range h.exchanges {
		names = append(names, name)
	}

	return names
}

// Close closes every registered exchange that exposes a Close method.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for name, ex := range h.exchanges {
		if closer, ok := ex.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				config.Logger.Errorf("[hub] closing %s: %v", name, err)
			}
		}
	}
}
