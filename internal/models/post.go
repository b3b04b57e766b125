package models

import (
	"time"

	"gorm.io/gorm"
)

// Weather is the conditions snapshot captured when a post is created.
// It is never refreshed afterwards.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Post represents a photo post tagged with a location and a weather snapshot.
// IDs are short server-assigned hex strings rather than serial integers so
// they can be minted before the row exists (the image upload needs a name).
type Post struct {
	ID        string  `gorm:"primaryKey;size:16" json:"id"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user"`
	Title     string  `gorm:"not null" json:"title"`
	Content   string  `gorm:"type:text;not null" json:"content"`
	ImageURL  string  `gorm:"not null" json:"image_url"`
	PlaceName string  `gorm:"not null" json:"place_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weather   Weather `gorm:"embedded;embeddedPrefix:weather_" json:"weather"`
	LikeCount int     `gorm:"not null;default:0" json:"like_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FeedEntry is a post enriched with its owner's display fields for the feed.
type FeedEntry struct {
	Post
	OwnerUsername string `json:"owner_username"`
	OwnerAvatar   string `json:"owner_avatar"`
}
