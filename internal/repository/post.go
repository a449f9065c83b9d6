package repository

import (
	"context"

	"blogly/internal/cache"
	"blogly/internal/models"
	"blogly/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Newest(ctx context.Context, limit int) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	Update(ctx context.Context, post *models.Post, tagNames []string) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewPostRepository creates a new post repository. store may be nil.
func NewPostRepository(db *gorm.DB, store *cache.Store) PostRepository {
	return &postRepository{db: db, cache: store, log: observability.NewRepoLogger("posts")}
}

func byName(db *gorm.DB) *gorm.DB {
	return db.Order("name")
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Tags", byName)
}

// Newest returns up to limit posts, most recent first. Only the default
// home-feed size is cached.
func (r *postRepository) Newest(ctx context.Context, limit int) ([]models.Post, error) {
	defer observability.TrackQuery("newest", "posts")()

	var posts []models.Post
	fetch := func() error {
		return withDetails(newestFirst(r.db.WithContext(ctx))).
			Limit(limit).
			Find(&posts).Error
	}

	var err error
	if limit == cache.NewestPostsLimit {
		err = r.cache.Aside(ctx, cache.NewestPostsKey, &posts, cache.NewestPostsTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, translateError(err, "Post", nil)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	err := r.cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return withDetails(r.db.WithContext(ctx)).First(&post, id).Error
	})
	if err != nil {
		return nil, translateError(err, "Post", id)
	}
	return &post, nil
}

// Create inserts post and links it to the named tags. The owning user must
// exist and every name must match a tag, otherwise nothing is written.
// On success post.Tags holds the linked tags.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	defer observability.TrackQuery("create", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, post.UserID).Error; err != nil {
			if translated := translateError(err, "User", post.UserID); models.IsNotFound(translated) {
				return models.WrapConstraintViolation("post owner does not exist", translated)
			}
			return err
		}

		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := linkTags(tx, post.ID, tags); err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return translateError(err, "Post", nil)
	}

	r.cache.Invalidate(ctx, cache.NewestPostsKey)
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "user_id": post.UserID, "tags": len(post.Tags)})
	return nil
}

// Update overwrites title and content of the post with post.ID and replaces
// its tag links with tagNames. On success post holds the stored row with its
// owner and new tags.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagNames []string) error {
	defer observability.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Post
		if err := tx.First(&current, post.ID).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}

		err = tx.Model(&current).Updates(map[string]any{
			"title":   post.Title,
			"content": post.Content,
		}).Error
		if err != nil {
			return err
		}
		if err := unlinkPosts(tx, []uint{post.ID}); err != nil {
			return err
		}
		if err := linkTags(tx, post.ID, tags); err != nil {
			return err
		}

		var updated models.Post
		if err := withDetails(tx).First(&updated, post.ID).Error; err != nil {
			return err
		}
		*post = updated
		return nil
	})
	if err != nil {
		if !models.IsNotFound(translateError(err, "Post", post.ID)) {
			r.log.LogError(ctx, err, "update")
		}
		return translateError(err, "Post", post.ID)
	}

	r.cache.Invalidate(ctx, cache.PostKey(post.ID), cache.NewestPostsKey)
	r.log.LogUpdate(ctx, map[string]any{"id": post.ID, "tags": len(post.Tags)})
	return nil
}

// Delete removes the post and its tag links. Tags are kept.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := unlinkPosts(tx, []uint{id}); err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		if !models.IsNotFound(err) {
			r.log.LogError(ctx, err, "delete")
		}
		return translateError(err, "Post", id)
	}

	r.cache.Invalidate(ctx, cache.PostKey(id), cache.NewestPostsKey)
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
