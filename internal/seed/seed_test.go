package seed

import (
	"context"
	"testing"

	"blogly/internal/models"
	"blogly/internal/repository"
	"blogly/internal/service"
	"blogly/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return NewSeeder(
		service.NewUserService(repository.NewUserRepository(db, nil), ""),
		service.NewPostService(repository.NewPostRepository(db, nil)),
		service.NewTagService(repository.NewTagRepository(db, nil)),
	), db
}

func TestDefaultFixture(t *testing.T) {
	f, err := DefaultFixture()
	require.NoError(t, err)
	assert.Len(t, f.Users, 4)
	assert.Len(t, f.Posts, 5)
	assert.Equal(t, []string{"Evil", "Adventure", "Daring", "Funny"}, f.Tags)
}

func TestParseFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "users: [::"},
		{"missing key", "users:\n  - first_name: A\n    last_name: B\n"},
		{"duplicate key", "users:\n  - key: a\n  - key: a\n"},
		{"unknown author", "users:\n  - key: a\nposts:\n  - author: b\n    title: T\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSeeder_LoadDefaultFixture(t *testing.T) {
	s, db := newSeeder(t)
	ctx := context.Background()

	f, err := DefaultFixture()
	require.NoError(t, err)
	res, err := s.Load(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 4, Posts: 5, Tags: 4}, res)

	var links int64
	require.NoError(t, db.Model(&models.PostTag{}).Count(&links).Error)
	assert.EqualValues(t, 4, links)

	users, err := s.users.ListUsers(ctx)
	require.NoError(t, err)
	var bilbo *models.User
	for i := range users {
		if users[i].FirstName == "Bilbo" {
			bilbo = &users[i]
		}
	}
	require.NotNil(t, bilbo)

	posts, err := s.users.ListUserPosts(ctx, bilbo.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "I Love Food", posts[0].Title)

	feed, err := s.posts.GetNewestPosts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, feed, 5)
	wait := feed[len(feed)-1]
	assert.Equal(t, "Wait", wait.Title)
	assert.Equal(t, []string{"Daring", "Funny"}, wait.TagNames())
}

func TestSeeder_LoadTwiceFailsOnDuplicateTag(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()
	f, err := DefaultFixture()
	require.NoError(t, err)

	_, err = s.Load(ctx, f)
	require.NoError(t, err)
	_, err = s.Load(ctx, f)
	require.Error(t, err)
	assert.Equal(t, models.CodeConstraintViolation, models.ErrorCode(err))
}

func TestSeeder_Fake(t *testing.T) {
	s, db := newSeeder(t)
	ctx := context.Background()

	_, err := s.tags.CreateTag(ctx, service.TagInput{Name: "Adventure"})
	require.NoError(t, err)

	res, err := s.Fake(ctx, NewFactory(42), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Users)
	assert.GreaterOrEqual(t, res.Posts, 3)
	assert.LessOrEqual(t, res.Posts, 6)

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, res.Posts, posts)
}

func TestFactory_DeterministicForSeed(t *testing.T) {
	a, b := NewFactory(7), NewFactory(7)
	assert.Equal(t, a.User(), b.User())
	assert.Equal(t, a.Post([]string{"x", "y"}), b.Post([]string{"x", "y"}))
}
