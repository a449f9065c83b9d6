// Package models contains data structures for the application's domain models.
package models

// DefaultImageURL is the placeholder avatar assigned to users created without an image.
const DefaultImageURL = "https://m.media-amazon.com/images/I/51zLZbEVSTL._AC_SL1200_.jpg"

// User represents an author in the Blogly application.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:50;not null" json:"first_name"`
	LastName  string `gorm:"size:50;not null;index" json:"last_name"`
	ImageURL  string `gorm:"type:text" json:"image_url"`
	Posts     []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// FullName returns the user's first and last name separated by a space.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
