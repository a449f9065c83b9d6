package service

import (
	"context"

	"blogly/internal/cache"
	"blogly/internal/models"
	"blogly/internal/observability"
	"blogly/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const postServiceName = "PostService"

// DefaultNewestLimit is the size of the home feed.
const DefaultNewestLimit = cache.NewestPostsLimit

type PostService struct {
	postRepo repository.PostRepository
}

type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (in PostInput) validate() (models.Post, []string, error) {
	title, err := requireText("title", in.Title, 0)
	if err != nil {
		return models.Post{}, nil, err
	}
	content, err := requireText("content", in.Content, 0)
	if err != nil {
		return models.Post{}, nil, err
	}
	return models.Post{Title: title, Content: content}, NormalizeTagNames(in.Tags), nil
}

// GetNewestPosts returns up to limit posts, most recent first. A limit of zero
// or less selects DefaultNewestLimit.
func (s *PostService) GetNewestPosts(ctx context.Context, limit int) (posts []models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, postServiceName, "GetNewestPosts")
	defer func() { finish(ctx, span, postServiceName, "GetNewestPosts", err) }()

	if limit <= 0 {
		limit = DefaultNewestLimit
	}
	span.AddAttributes(attribute.Int("posts.limit", limit))
	return s.postRepo.Newest(ctx, limit)
}

// GetPost returns the post with its author and tags.
func (s *PostService) GetPost(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, postServiceName, "GetPost")
	span.AddAttributes(attribute.Int64("post.id", int64(id)))
	defer func() { finish(ctx, span, postServiceName, "GetPost", err) }()

	return s.postRepo.GetByID(ctx, id)
}

// CreatePost stores a post for userID linked to the named tags. The creation
// time is always assigned by the store.
func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, postServiceName, "CreatePost")
	span.AddAttributes(attribute.Int64("user.id", int64(userID)))
	defer func() { finish(ctx, span, postServiceName, "CreatePost", err) }()

	p, tags, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	if err := s.postRepo.Create(ctx, &p, tags); err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int64("post.id", int64(p.ID)), attribute.Int("post.tags", len(p.Tags)))
	return &p, nil
}

// UpdatePost overwrites title and content and replaces the tag set.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, postServiceName, "UpdatePost")
	span.AddAttributes(attribute.Int64("post.id", int64(id)))
	defer func() { finish(ctx, span, postServiceName, "UpdatePost", err) }()

	p, tags, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.postRepo.Update(ctx, &p, tags); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes the post and its tag links.
func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, postServiceName, "DeletePost")
	span.AddAttributes(attribute.Int64("post.id", int64(id)))
	defer func() { finish(ctx, span, postServiceName, "DeletePost", err) }()

	return s.postRepo.Delete(ctx, id)
}
