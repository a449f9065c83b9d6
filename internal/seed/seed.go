// Package seed loads demo data through the service layer.
package seed

import (
	"context"
	"fmt"

	"blogly/internal/middleware"
	"blogly/internal/models"
	"blogly/internal/service"
)

// Seeder writes data through the services so every record passes validation.
type Seeder struct {
	users *service.UserService
	posts *service.PostService
	tags  *service.TagService
}

// Result counts the records a seeding run created.
type Result struct {
	Users int
	Posts int
	Tags  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d users, %d posts, %d tags", r.Users, r.Posts, r.Tags)
}

func NewSeeder(users *service.UserService, posts *service.PostService, tags *service.TagService) *Seeder {
	return &Seeder{users: users, posts: posts, tags: tags}
}

// Load creates the fixture's tags, then its users, then its posts.
func (s *Seeder) Load(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	for _, name := range f.Tags {
		if _, err := s.tags.CreateTag(ctx, service.TagInput{Name: name}); err != nil {
			return res, fmt.Errorf("create tag %q: %w", name, err)
		}
		res.Tags++
	}

	ids := make(map[string]uint, len(f.Users))
	for _, u := range f.Users {
		user, err := s.users.CreateUser(ctx, service.UserInput{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			ImageURL:  u.ImageURL,
		})
		if err != nil {
			return res, fmt.Errorf("create user %q: %w", u.Key, err)
		}
		ids[u.Key] = user.ID
		res.Users++
	}

	for _, p := range f.Posts {
		in := service.PostInput{Title: p.Title, Content: p.Content, Tags: p.Tags}
		if _, err := s.posts.CreatePost(ctx, ids[p.Author], in); err != nil {
			return res, fmt.Errorf("create post %q: %w", p.Title, err)
		}
		res.Posts++
	}

	middleware.Logger.InfoContext(ctx, "fixture loaded",
		"users", res.Users, "posts", res.Posts, "tags", res.Tags)
	return res, nil
}

// Fake creates n random users with up to postsPerUser posts each, tagged from
// the tags already stored.
func (s *Seeder) Fake(ctx context.Context, f *Factory, n, postsPerUser int) (Result, error) {
	var res Result

	existing, err := s.tags.ListTags(ctx)
	if err != nil {
		return res, fmt.Errorf("list tags: %w", err)
	}
	names := tagNames(existing)

	for i := 0; i < n; i++ {
		user, err := s.users.CreateUser(ctx, f.User())
		if err != nil {
			return res, fmt.Errorf("create fake user: %w", err)
		}
		res.Users++

		for j := f.faker.IntRange(1, max(postsPerUser, 1)); j > 0; j-- {
			if _, err := s.posts.CreatePost(ctx, user.ID, f.Post(names)); err != nil {
				return res, fmt.Errorf("create fake post: %w", err)
			}
			res.Posts++
		}
	}

	middleware.Logger.InfoContext(ctx, "fake data created", "users", res.Users, "posts", res.Posts)
	return res, nil
}

func tagNames(tags []models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
