package service

import (
	"context"

	"blogly/internal/models"
	"blogly/internal/observability"
	"blogly/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const tagServiceName = "TagService"

type TagService struct {
	tagRepo repository.TagRepository
}

type TagInput struct {
	Name string `json:"name"`
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

func (s *TagService) ListTags(ctx context.Context) (tags []models.Tag, err error) {
	ctx, span := observability.StartServiceSpan(ctx, tagServiceName, "ListTags")
	defer func() { finish(ctx, span, tagServiceName, "ListTags", err) }()

	return s.tagRepo.List(ctx)
}

// GetTag returns the tag with the posts it labels.
func (s *TagService) GetTag(ctx context.Context, id uint) (tag *models.Tag, err error) {
	ctx, span := observability.StartServiceSpan(ctx, tagServiceName, "GetTag")
	span.AddAttributes(attribute.Int64("tag.id", int64(id)))
	defer func() { finish(ctx, span, tagServiceName, "GetTag", err) }()

	return s.tagRepo.GetByID(ctx, id)
}

func (s *TagService) CreateTag(ctx context.Context, in TagInput) (tag *models.Tag, err error) {
	ctx, span := observability.StartServiceSpan(ctx, tagServiceName, "CreateTag")
	defer func() { finish(ctx, span, tagServiceName, "CreateTag", err) }()

	name, err := requireText("name", in.Name, maxNameLen)
	if err != nil {
		return nil, err
	}
	t := models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) UpdateTag(ctx context.Context, id uint, in TagInput) (tag *models.Tag, err error) {
	ctx, span := observability.StartServiceSpan(ctx, tagServiceName, "UpdateTag")
	span.AddAttributes(attribute.Int64("tag.id", int64(id)))
	defer func() { finish(ctx, span, tagServiceName, "UpdateTag", err) }()

	name, err := requireText("name", in.Name, maxNameLen)
	if err != nil {
		return nil, err
	}
	t := models.Tag{ID: id, Name: name}
	if err := s.tagRepo.Update(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTag removes the tag and its post links. The posts are kept.
func (s *TagService) DeleteTag(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, tagServiceName, "DeleteTag")
	span.AddAttributes(attribute.Int64("tag.id", int64(id)))
	defer func() { finish(ctx, span, tagServiceName, "DeleteTag", err) }()

	return s.tagRepo.Delete(ctx, id)
}
