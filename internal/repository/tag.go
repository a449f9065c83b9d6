package repository

import (
	"context"
	"fmt"

	"blogly/internal/cache"
	"blogly/internal/models"
	"blogly/internal/observability"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type tagRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewTagRepository creates a new tag repository. store may be nil.
func NewTagRepository(db *gorm.DB, store *cache.Store) TagRepository {
	return &tagRepository{db: db, cache: store, log: observability.NewRepoLogger("tags")}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	defer observability.TrackQuery("list", "tags")()

	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, translateError(err, "Tag", nil)
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	defer observability.TrackQuery("get", "tags")()

	var tag models.Tag
	err := r.db.WithContext(ctx).
		Preload("Posts", newestFirst).
		First(&tag, id).Error
	if err != nil {
		return nil, translateError(err, "Tag", id)
	}
	return &tag, nil
}

// nameTaken reports whether a tag other than exceptID already uses name.
func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Tag{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func duplicateTag(name string) error {
	return models.NewConstraintViolation(fmt.Sprintf("tag %q already exists", name))
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	defer observability.TrackQuery("create", "tags")()

	taken, err := nameTaken(r.db.WithContext(ctx), tag.Name, 0)
	if err != nil {
		return translateError(err, "Tag", nil)
	}
	if taken {
		return duplicateTag(tag.Name)
	}

	if err := r.db.WithContext(ctx).Omit("Posts").Create(tag).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translateError(err, "Tag", nil)
	}
	r.log.LogCreate(ctx, map[string]any{"id": tag.ID, "name": tag.Name})
	return nil
}

// Update renames the tag with tag.ID.
func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	defer observability.TrackQuery("update", "tags")()

	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Tag
		if err := tx.First(&current, tag.ID).Error; err != nil {
			return err
		}
		taken, err := nameTaken(tx, tag.Name, tag.ID)
		if err != nil {
			return err
		}
		if taken {
			return duplicateTag(tag.Name)
		}
		if err := tx.Model(&current).Update("name", tag.Name).Error; err != nil {
			return err
		}
		return tx.Model(&models.PostTag{}).Where("tag_id = ?", tag.ID).Pluck("post_id", &postIDs).Error
	})
	if err != nil {
		return translateError(err, "Tag", tag.ID)
	}

	// cached posts embed their tags
	r.cache.Invalidate(ctx, append(cache.PostKeys(postIDs), cache.NewestPostsKey)...)
	r.log.LogUpdate(ctx, map[string]any{"id": tag.ID, "name": tag.Name})
	return nil
}

// Delete removes the tag and its post links. Posts are kept.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "tags")()

	var postIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostTag{}).Where("tag_id = ?", id).Pluck("post_id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tag", id)
		}
		return nil
	})
	if err != nil {
		if !models.IsNotFound(err) {
			r.log.LogError(ctx, err, "delete")
		}
		return translateError(err, "Tag", id)
	}

	r.cache.Invalidate(ctx, append(cache.PostKeys(postIDs), cache.NewestPostsKey)...)
	r.log.LogDelete(ctx, map[string]any{"id": id, "posts": len(postIDs)})
	return nil
}
