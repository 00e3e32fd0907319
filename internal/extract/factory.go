package extract

import (
	"fmt"

	"intakedocs/internal/config"
	"intakedocs/internal/port"
)

// ProviderFactory is a function that creates a ChatCompleter from a provider config.
type ProviderFactory func(cfg *config.ChatProviderConfig) (port.ChatCompleter, error)

// registry of model provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewChatCompleter creates a ChatCompleter from a provider config using the
// registered factory.
func NewChatCompleter(cfg *config.ChatProviderConfig) (port.ChatCompleter, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
