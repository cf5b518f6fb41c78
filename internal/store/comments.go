package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hyunsol/techtalk/internal/apperr"
)

// CommentRow represents a row in the comments table.
type CommentRow struct {
	ID        int64
	PostID    int64
	Content   string
	CreatedAt time.Time
}

// CreateComment inserts a comment under an existing post.
func (db *DB) CreateComment(postID int64, content, passwordHash string) (*CommentRow, error) {
	if _, err := db.GetPost(postID); err != nil {
		return nil, err
	}
	res, err := db.conn.Exec(`
		INSERT INTO comments (post_id, content, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, postID, content, passwordHash, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("store: insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: last insert id: %w", err)
	}
	return db.GetComment(id)
}

// GetComment returns a single comment or apperr.ErrNotFound.
func (db *DB) GetComment(id int64) (*CommentRow, error) {
	var c CommentRow
	err := db.conn.QueryRow(`
		SELECT id, post_id, content, created_at FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get comment: %w", err)
	}
	return &c, nil
}

// ListComments returns one page of a post's comments in chronological
// order, plus the total comment count for the post.
func (db *DB) ListComments(postID int64, offset, limit int) ([]CommentRow, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	total, err := db.CountComments(postID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.conn.Query(`
		SELECT id, post_id, content, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list comments: %w", err)
	}
	defer rows.Close()

	var out []CommentRow
	for rows.Next() {
		var c CommentRow
		if err := rows.Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// CountComments returns the number of comments on a post.
func (db *DB) CountComments(postID int64) (int, error) {
	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&total); err != nil {
		return 0, fmt.Errorf("store: count comments: %w", err)
	}
	return total, nil
}

// UpdateComment replaces the content of a comment.
func (db *DB) UpdateComment(id int64, content string) (*CommentRow, error) {
	res, err := db.conn.Exec(`UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return nil, fmt.Errorf("store: update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetComment(id)
}

// DeleteComment removes a comment.
func (db *DB) DeleteComment(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CommentPasswordHash returns the stored bcrypt hash for a comment.
func (db *DB) CommentPasswordHash(id int64) (string, error) {
	var hash string
	err := db.conn.QueryRow(`SELECT password_hash FROM comments WHERE id = ?`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("store: comment password hash: %w", err)
	}
	return hash, nil
}
