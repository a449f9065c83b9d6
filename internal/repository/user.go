package repository

import (
	"context"

	"blogly/internal/cache"
	"blogly/internal/models"
	"blogly/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ListPosts(ctx context.Context, userID uint) ([]models.Post, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// userRepository implements UserRepository
type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewUserRepository creates a new user repository. store may be nil.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	return &userRepository{db: db, cache: store, log: observability.NewRepoLogger("users")}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer observability.TrackQuery("list", "users")()

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("last_name").
		Order("first_name").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, translateError(err, "User", nil)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Posts", newestFirst).
		First(&user, id).Error
	if err != nil {
		return nil, translateError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) ListPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	defer observability.TrackQuery("list_posts", "users")()

	var posts []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, userID).Error; err != nil {
			return translateError(err, "User", userID)
		}
		return newestFirst(tx).
			Preload("Tags", byName).
			Where("user_id = ?", userID).
			Find(&posts).Error
	})
	if err != nil {
		return nil, translateError(err, "User", userID)
	}
	return posts, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Omit("Posts").Create(user).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translateError(err, "User", nil)
	}
	r.log.LogCreate(ctx, map[string]any{"id": user.ID})
	return nil
}

// Update overwrites first name, last name and image URL of the user with user.ID.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()

	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.User
		if err := tx.First(&current, user.ID).Error; err != nil {
			return err
		}
		err := tx.Model(&current).Updates(map[string]any{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"image_url":  user.ImageURL,
		}).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("user_id = ?", user.ID).Pluck("id", &postIDs).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return translateError(err, "User", user.ID)
	}

	// cached posts embed their author
	r.cache.Invalidate(ctx, append(cache.PostKeys(postIDs), cache.NewestPostsKey)...)
	r.log.LogUpdate(ctx, map[string]any{"id": user.ID})
	return nil
}

// Delete removes the user, its posts and their tag links in one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := unlinkPosts(tx, postIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
	if err != nil {
		if !models.IsNotFound(err) {
			r.log.LogError(ctx, err, "delete")
		}
		return translateError(err, "User", id)
	}

	r.cache.Invalidate(ctx, append(cache.PostKeys(postIDs), cache.NewestPostsKey)...)
	r.log.LogDelete(ctx, map[string]any{"id": id, "posts": len(postIDs)})
	return nil
}
