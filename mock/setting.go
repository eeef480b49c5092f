package mock

import (
	"context"

	"github.com/fwojciec/postvault"
)

var _ postvault.SettingService = (*SettingService)(nil)

// SettingService is a mock implementation of postvault.SettingService.
type SettingService struct {
	GetSettingsFn    func(ctx context.Context, keys ...string) (map[string]string, error)
	SetSettingsFn    func(ctx context.Context, values map[string]string) error
	RemoveSettingsFn func(ctx context.Context, keys ...string) error
}

func (s *SettingService) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	return s.GetSettingsFn(ctx, keys...)
}

func (s *SettingService) SetSettings(ctx context.Context, values map[string]string) error {
	return s.SetSettingsFn(ctx, values)
}

func (s *SettingService) RemoveSettings(ctx context.Context, keys ...string) error {
	return s.RemoveSettingsFn(ctx, keys...)
}
