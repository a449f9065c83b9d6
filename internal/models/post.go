package models

import "time"

// Post represents a blog post owned by a single user.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	// CreatedAt is assigned on insert and never written afterwards.
	CreatedAt time.Time `gorm:"<-:create;not null;index" json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags      []Tag     `gorm:"many2many:post_tags" json:"tags,omitempty"`
}

// TagNames returns the names of the post's loaded tags in order.
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
