// Package registry holds the node and source provider factories the host can instantiate.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dukex/operion-privacyflow/pkg/models"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
)

type Registry struct {
	logger            *slog.Logger
	mu                sync.RWMutex
	nodeFactories     map[string]protocol.NodeFactory
	providerFactories map[string]protocol.ProviderFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:            log.With("module", "registry"),
		nodeFactories:     make(map[string]protocol.NodeFactory),
		providerFactories: make(map[string]protocol.ProviderFactory),
	}
}

func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodeFactories[factory.ID()] = factory
	r.logger.Debug("Registered node factory", "node_type", factory.ID())
}

func (r *Registry) RegisterProvider(factory protocol.ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providerFactories[factory.ID()] = factory
	r.logger.Debug("Registered provider factory", "provider_id", factory.ID())
}

// CreateNode creates a node of nodeType with the given id and configuration.
func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (models.Node, error) {
	r.mu.RLock()
	factory, ok := r.nodeFactories[nodeType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	return factory.Create(ctx, id, config)
}

// CreateProvider creates and validates a source provider.
func (r *Registry) CreateProvider(providerID string, config map[string]any) (protocol.Provider, error) {
	r.mu.RLock()
	factory, ok := r.providerFactories[providerID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider '%s' not registered", providerID)
	}

	provider, err := factory.Create(config, r.logger)
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(); err != nil {
		return nil, err
	}

	return provider, nil
}

// GetAvailableNodes returns the registered node factories ordered by ID.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, f := range r.nodeFactories {
		factories = append(factories, f)
	}

	slices.SortFunc(factories, func(a, b protocol.NodeFactory) int { return strings.Compare(a.ID(), b.ID()) })

	return factories
}

// GetAvailableProviders returns the registered provider factories ordered by ID.
func (r *Registry) GetAvailableProviders() []protocol.ProviderFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.ProviderFactory, 0, len(r.providerFactories))
	for _, f := range r.providerFactories {
		factories = append(factories, f)
	}

	slices.SortFunc(factories, func(a, b protocol.ProviderFactory) int { return strings.Compare(a.ID(), b.ID()) })

	return factories
}
