// Package domain contains the core entities of the discussion board:
// topics, users, articles and comments, plus the error taxonomy shared by
// the repository and HTTP layers.
package domain

import (
	"strconv"
	"time"
)

// Entity names used in NotFoundError and event payloads.
const (
	EntityArticle = "article"
	EntityComment = "comment"
	EntityTopic   = "topic"
	EntityUser    = "user"
)

// Topic is a subject area articles are filed under.
type Topic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// User is a registered author of articles and comments.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Article is the full article row, as returned by the single-article view.
type Article struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// ArticleSummary is the list form of an article. It never carries the body;
// CommentCount is derived from the live comment set at query time.
type ArticleSummary struct {
	ArticleID     int       `json:"article_id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// Comment is a reply attached to exactly one article.
type Comment struct {
	CommentID int       `json:"comment_id"`
	Body      string    `json:"body"`
	ArticleID int       `json:"article_id"`
	Author    string    `json:"author"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment is the input for inserting a comment.
type NewComment struct {
	ArticleID int
	Author    string
	Body      string
}

// ParseID parses a path identifier. Identifiers are int4 columns, so anything
// that is not a base-10 integer in the 32-bit range is malformed input, not a
// missing entity.
func ParseID(field, raw string) (int, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, NewValidationError(field, "must be a 32-bit integer")
	}
	return int(id), nil
}
