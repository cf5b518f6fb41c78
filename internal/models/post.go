// Package models defines the domain types for Tech Talk.
package models

import "time"

// Post represents a blog post. Comments is populated only on detail
// reads and carries the first page of the post's comment thread.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	Views        int       `json:"views"`
	Tags         []string  `json:"tags"`
	CommentCount int       `json:"commentCount"`
	URL          string    `json:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Comments     []Comment `json:"comments,omitempty"`
}

// Comment belongs to exactly one post. The ID is always server-assigned.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// URLAnalysis is the result of AI-assisted summarization of a web page
// into a draft post.
type URLAnalysis struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Summary []string `json:"summary"`
	Tags    []string `json:"tags"`
}
