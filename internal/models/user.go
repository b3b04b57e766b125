// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a SpotShare profile.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// Profile is the API shape of a user. The LikedPosts/LikedPostOwners arrays
// are index-aligned and insertion-ordered; mobile clients predating the like
// table still consume them as a pair.
type Profile struct {
	ID              uint      `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email,omitempty"`
	Avatar          string    `json:"avatar"`
	CreatedAt       time.Time `json:"created_at"`
	LikedPosts      []string  `json:"liked_posts"`
	LikedPostOwners []uint    `json:"liked_post_owners"`
}

// ToProfile converts a User and its like rows into the API profile shape.
func (u *User) ToProfile(likes []Like) Profile {
	p := Profile{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Avatar:          u.Avatar,
		CreatedAt:       u.CreatedAt,
		LikedPosts:      make([]string, 0, len(likes)),
		LikedPostOwners: make([]uint, 0, len(likes)),
	}
	for _, l := range likes {
		p.LikedPosts = append(p.LikedPosts, l.PostID)
		p.LikedPostOwners = append(p.LikedPostOwners, l.OwnerID)
	}
	return p
}
