package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyunsol/techtalk/internal/apperr"
)

// PostRow represents a row in the posts table together with its comment count.
type PostRow struct {
	ID           int64
	Title        string
	Content      string
	Tags         []string
	URL          string
	ThumbnailURL string
	Views        int
	CommentCount int
	CreatedAt    time.Time
}

const postColumns = `
	p.id, p.title, p.content, p.tags, p.url, p.thumbnail_url, p.views, p.created_at,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)`

func scanPost(row interface{ Scan(...any) error }) (*PostRow, error) {
	var p PostRow
	var tagsJSON string
	err := row.Scan(&p.ID, &p.Title, &p.Content, &tagsJSON, &p.URL,
		&p.ThumbnailURL, &p.Views, &p.CreatedAt, &p.CommentCount)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		p.Tags = nil
	}
	return &p, nil
}

// CreatePost inserts a new post and returns it with its assigned id.
func (db *DB) CreatePost(title, content string, tags []string, url, thumbnailURL, passwordHash string) (*PostRow, error) {
	tagsJSON, _ := json.Marshal(tags)
	res, err := db.conn.Exec(`
		INSERT INTO posts (title, content, tags, url, thumbnail_url, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, title, content, string(tagsJSON), url, thumbnailURL, passwordHash, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("store: insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: last insert id: %w", err)
	}
	return db.GetPost(id)
}

// GetPost returns a single post or apperr.ErrNotFound.
func (db *DB) GetPost(id int64) (*PostRow, error) {
	p, err := scanPost(db.conn.QueryRow(`SELECT`+postColumns+` FROM posts p WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get post: %w", err)
	}
	return p, nil
}

// IncrementViews bumps the view counter for a post.
func (db *DB) IncrementViews(id int64) error {
	res, err := db.conn.Exec(`UPDATE posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: increment views: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListPosts returns posts newest first along with the total post count.
func (db *DB) ListPosts(limit, offset int) ([]PostRow, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count posts: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT`+postColumns+`
		FROM posts p
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// UpdatePost replaces the mutable fields of a post.
func (db *DB) UpdatePost(id int64, title, content string, tags []string, url, thumbnailURL string) (*PostRow, error) {
	tagsJSON, _ := json.Marshal(tags)
	res, err := db.conn.Exec(`
		UPDATE posts SET title = ?, content = ?, tags = ?, url = ?, thumbnail_url = ?
		WHERE id = ?
	`, title, content, string(tagsJSON), url, thumbnailURL, id)
	if err != nil {
		return nil, fmt.Errorf("store: update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetPost(id)
}

// DeletePost removes a post; its comments cascade.
func (db *DB) DeletePost(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// PostPasswordHash returns the stored bcrypt hash for a post.
func (db *DB) PostPasswordHash(id int64) (string, error) {
	var hash string
	err := db.conn.QueryRow(`SELECT password_hash FROM posts WHERE id = ?`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("store: post password hash: %w", err)
	}
	return hash, nil
}

// ListPostsSince returns posts created at or after the given time, newest first.
// Used by the weekly digest.
func (db *DB) ListPostsSince(since, until time.Time) ([]PostRow, error) {
	rows, err := db.conn.Query(`
		SELECT`+postColumns+`
		FROM posts p
		WHERE p.created_at >= ? AND p.created_at < ?
		ORDER BY p.created_at DESC
	`, since.UTC(), until.UTC())
	if err != nil {
		return nil, fmt.Errorf("store: list posts since: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
