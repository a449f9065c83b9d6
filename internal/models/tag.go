package models

// Tag is a reusable label that can be attached to any number of posts.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Posts []Post `gorm:"many2many:post_tags" json:"posts,omitempty"`
}

// PostTag is the join row linking a post to a tag. The pair is its primary key.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
}

// TableName returns the database table name for PostTag.
func (PostTag) TableName() string {
	return "post_tags"
}
