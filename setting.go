package postvault

import "context"

// Setting keys persisted by SettingService.
const (
	SettingProvider     = "embeddingProvider"
	SettingAPIKey       = "apiKey"
	SettingModel        = "embeddingModel"
	SettingLegacyAPIKey = "geminiApiKey"
)

// SettingService represents a flat key/value store for user settings.
type SettingService interface {
	// GetSettings returns the stored values for keys.
	// Keys without a stored value are absent from the result.
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)

	// SetSettings stores every key/value pair, replacing existing values.
	SetSettings(ctx context.Context, values map[string]string) error

	// RemoveSettings deletes keys. Missing keys are ignored.
	RemoveSettings(ctx context.Context, keys ...string) error
}

// EmbeddingSettings selects the provider used to embed posts.
type EmbeddingSettings struct {
	Provider string
	APIKey   string
	Model    string
}

// Validate returns an error if the settings cannot be used to embed.
func (s *EmbeddingSettings) Validate() error {
	p, ok := Providers[s.Provider]
	if !ok {
		return Errorf(EINVALID, "unknown embedding provider %q", s.Provider)
	}
	if s.APIKey == "" {
		return Errorf(EINVALID, "Please enter an API key")
	}
	if !p.HasKeyPrefix(s.APIKey) {
		return Errorf(EINVALID, "%s API key should start with %q", p.Name, p.KeyPrefix)
	}
	if !p.HasModel(s.Model) {
		return Errorf(EINVALID, "%s does not offer model %q", p.Name, s.Model)
	}
	return nil
}

// ResolveEmbeddingSettings loads the embedding settings, filling in
// defaults. A key stored under the legacy gemini-only setting is moved
// to the generic key and the provider is pinned to gemini.
func ResolveEmbeddingSettings(ctx context.Context, s SettingService) (*EmbeddingSettings, error) {
	values, err := s.GetSettings(ctx, SettingProvider, SettingAPIKey, SettingModel, SettingLegacyAPIKey)
	if err != nil {
		return nil, err
	}

	if legacy := values[SettingLegacyAPIKey]; legacy != "" && values[SettingAPIKey] == "" {
		values[SettingAPIKey] = legacy
		values[SettingProvider] = ProviderGemini
		if err := s.SetSettings(ctx, map[string]string{
			SettingProvider: ProviderGemini,
			SettingAPIKey:   legacy,
		}); err != nil {
			return nil, err
		}
		if err := s.RemoveSettings(ctx, SettingLegacyAPIKey); err != nil {
			return nil, err
		}
	}

	settings := &EmbeddingSettings{
		Provider: values[SettingProvider],
		APIKey:   values[SettingAPIKey],
		Model:    values[SettingModel],
	}
	if settings.Provider == "" {
		settings.Provider = ProviderGemini
	}
	if p, ok := Providers[settings.Provider]; ok && !p.HasModel(settings.Model) {
		settings.Model = p.DefaultModel
	}
	return settings, nil
}
