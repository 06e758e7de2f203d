package bootstrap

import (
	"voice-transcriber/internal/domain"
)

// GetModelCatalog lists every selectable provider model.
func (a *App) GetModelCatalog() []domain.ModelOption {
	return domain.ModelCatalog()
}

// GetModelsFor lists the models a provider offers for one capability.
// Providers without the capability yield an empty, non-nil slice.
func (a *App) GetModelsFor(provider domain.Provider, capability domain.Capability) []domain.ModelOption {
	return filterModels(domain.ModelCatalog(), provider, capability)
}

func filterModels(catalog []domain.ModelOption, provider domain.Provider, capability domain.Capability) []domain.ModelOption {
	out := make([]domain.ModelOption, 0, len(catalog))
	for _, option := range catalog {
		if option.Provider == provider && option.Capability == capability {
			out = append(out, option)
		}
	}
	return out
}
