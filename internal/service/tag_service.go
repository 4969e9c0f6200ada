package service

import (
	"context"
	"errors"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/dto"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagService interface {
	Create(ctx context.Context, req dto.CreateTagRequest) (dto.TagResponse, error)
	List(ctx context.Context) ([]dto.TagResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTagRequest) (dto.TagResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	repo  repository.TagRepository
	cache *cache.Store
}

func NewTagService(repo repository.TagRepository, store *cache.Store) TagService {
	return &tagService{repo: repo, cache: store}
}

func (s *tagService) Create(ctx context.Context, req dto.CreateTagRequest) (dto.TagResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.TagResponse{}, invalid("name", "name is required")
	}
	if err := s.ensureUniqueName(ctx, name, uuid.Nil); err != nil {
		return dto.TagResponse{}, err
	}
	t := &model.Tag{Name: name, Color: req.Color}
	if t.Color == "" {
		t.Color = defaultColor
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return dto.TagResponse{}, err
	}
	s.cache.Invalidate(ctx, cache.KeyTags)
	return mapTag(*t), nil
}

func (s *tagService) List(ctx context.Context) ([]dto.TagResponse, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyTags, func(ctx context.Context) ([]dto.TagResponse, error) {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		result := make([]dto.TagResponse, 0, len(list))
		for _, t := range list {
			result = append(result, mapTag(t))
		}
		return result, nil
	})
}

func (s *tagService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTagRequest) (dto.TagResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.TagResponse{}, notFound(err, "tag")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.TagResponse{}, invalid("name", "name is required")
		}
		if !strings.EqualFold(name, t.Name) {
			if err := s.ensureUniqueName(ctx, name, id); err != nil {
				return dto.TagResponse{}, err
			}
		}
		t.Name = name
	}
	if req.Color != nil {
		t.Color = *req.Color
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return dto.TagResponse{}, err
	}
	s.cache.Invalidate(ctx, cache.KeyTags)
	return mapTag(*t), nil
}

func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "tag")
	}
	s.cache.Invalidate(ctx, cache.KeyTags)
	return nil
}

func (s *tagService) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return ErrDuplicateName
	}
	return nil
}
