package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

// SettingService stores business preferences as key/value pairs.
type SettingService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	Upsert(ctx context.Context, key string, req dto.UpsertSettingRequest) (*dto.SettingResponse, error)
}

type settingService struct {
	repo repository.SettingRepository
	now  func() time.Time
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo, now: time.Now}
}

func (s *settingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, st := range list {
		out = append(out, mapSetting(st))
	}
	return out, nil
}

func (s *settingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	st, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, notFound(err, "setting")
	}
	resp := mapSetting(*st)
	return &resp, nil
}

func (s *settingService) Upsert(ctx context.Context, key string, req dto.UpsertSettingRequest) (*dto.SettingResponse, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !settingKeyPattern.MatchString(key) {
		return nil, invalid("key", "key must be 1-64 characters of a-z, 0-9, '_', '.' or '-'")
	}
	value := strings.TrimSpace(req.Value)
	if key == SettingLowStockThreshold {
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return nil, invalid("value", "low stock threshold must be a positive integer")
		}
	}
	st := &model.Setting{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	resp := mapSetting(*st)
	return &resp, nil
}
