package domain

// SortColumn names an attribute of the article list form that results may be
// ordered by.
type SortColumn string

// Sortable article attributes.
const (
	SortByAuthor        SortColumn = "author"
	SortByArticleID     SortColumn = "article_id"
	SortByTitle         SortColumn = "title"
	SortByTopic         SortColumn = "topic"
	SortByCreatedAt     SortColumn = "created_at"
	SortByVotes         SortColumn = "votes"
	SortByArticleImgURL SortColumn = "article_img_url"
	SortByCommentCount  SortColumn = "comment_count"
)

// SortColumns lists every sortable attribute.
var SortColumns = []SortColumn{
	SortByAuthor,
	SortByArticleID,
	SortByTitle,
	SortByTopic,
	SortByCreatedAt,
	SortByVotes,
	SortByArticleImgURL,
	SortByCommentCount,
}

// SortOrder is the direction of the primary ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
