package repository

import (
	"blogly/internal/models"

	"gorm.io/gorm"
)

// resolveTags loads the tags whose names exactly match names. Any name without
// a match fails the lookup with ReferenceNotFound listing the missing names in
// input order.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := tx.Where("name IN ?", names).Order("name").Find(&tags).Error; err != nil {
		return nil, translateError(err, "Tag", nil)
	}

	found := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		found[t.Name] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
			found[name] = struct{}{}
		}
	}
	if len(missing) > 0 {
		return nil, models.NewReferenceNotFoundError("tags", missing)
	}
	return tags, nil
}

// linkTags inserts one post_tags row per tag.
func linkTags(tx *gorm.DB, postID uint, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	links := make([]models.PostTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, models.PostTag{PostID: postID, TagID: t.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return translateError(err, "PostTag", postID)
	}
	return nil
}

// unlinkPosts deletes every post_tags row for the given posts.
func unlinkPosts(tx *gorm.DB, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostTag{}).Error; err != nil {
		return translateError(err, "PostTag", postIDs)
	}
	return nil
}
