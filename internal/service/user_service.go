package service

import (
	"context"
	"strings"

	"blogly/internal/models"
	"blogly/internal/observability"
	"blogly/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const userServiceName = "UserService"

type UserService struct {
	userRepo        repository.UserRepository
	defaultImageURL string
}

type UserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

// NewUserService creates a UserService. An empty defaultImageURL selects
// models.DefaultImageURL.
func NewUserService(userRepo repository.UserRepository, defaultImageURL string) *UserService {
	if strings.TrimSpace(defaultImageURL) == "" {
		defaultImageURL = models.DefaultImageURL
	}
	return &UserService{userRepo: userRepo, defaultImageURL: defaultImageURL}
}

func (in UserInput) validate() (models.User, error) {
	first, err := requireText("first_name", in.FirstName, maxNameLen)
	if err != nil {
		return models.User{}, err
	}
	last, err := requireText("last_name", in.LastName, maxNameLen)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		FirstName: first,
		LastName:  last,
		ImageURL:  strings.TrimSpace(in.ImageURL),
	}, nil
}

// ListUsers returns every user ordered by last name, then first name.
func (s *UserService) ListUsers(ctx context.Context) (users []models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "ListUsers")
	defer func() { finish(ctx, span, userServiceName, "ListUsers", err) }()

	return s.userRepo.List(ctx)
}

// GetUser returns the user with its posts, newest first.
func (s *UserService) GetUser(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "GetUser")
	span.AddAttributes(attribute.Int64("user.id", int64(id)))
	defer func() { finish(ctx, span, userServiceName, "GetUser", err) }()

	return s.userRepo.GetByID(ctx, id)
}

// ListUserPosts returns the user's posts, newest first.
func (s *UserService) ListUserPosts(ctx context.Context, id uint) (posts []models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "ListUserPosts")
	span.AddAttributes(attribute.Int64("user.id", int64(id)))
	defer func() { finish(ctx, span, userServiceName, "ListUserPosts", err) }()

	return s.userRepo.ListPosts(ctx, id)
}

// CreateUser stores a new user. A blank image URL is replaced by the placeholder.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "CreateUser")
	defer func() { finish(ctx, span, userServiceName, "CreateUser", err) }()

	u, err := in.validate()
	if err != nil {
		return nil, err
	}
	if u.ImageURL == "" {
		u.ImageURL = s.defaultImageURL
	}
	if err := s.userRepo.Create(ctx, &u); err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int64("user.id", int64(u.ID)))
	return &u, nil
}

// UpdateUser overwrites all three user fields. A blank image URL is stored as blank.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UserInput) (user *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "UpdateUser")
	span.AddAttributes(attribute.Int64("user.id", int64(id)))
	defer func() { finish(ctx, span, userServiceName, "UpdateUser", err) }()

	u, err := in.validate()
	if err != nil {
		return nil, err
	}
	u.ID = id
	if err := s.userRepo.Update(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes the user together with its posts and their tag links.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, userServiceName, "DeleteUser")
	span.AddAttributes(attribute.Int64("user.id", int64(id)))
	defer func() { finish(ctx, span, userServiceName, "DeleteUser", err) }()

	return s.userRepo.Delete(ctx, id)
}
