package models

import "time"

// Like represents a user's like on a post. The combination of UserID and
// PostID must be unique, which makes liking idempotent at the storage layer.
// OwnerID is the post owner at like time, denormalized so liked-post listings
// do not need a join and legacy clients can read the (post, owner) pair.
//
// There is no foreign key to posts: deleting a post leaves its like rows in
// place and reads filter the dangling entries out.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    string    `gorm:"not null;size:16;uniqueIndex:idx_user_post" json:"post_id"`
	OwnerID   uint      `gorm:"not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
