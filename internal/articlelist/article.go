package articlelist

import (
	"time"

	"github.com/glabrego/reeder/internal/models"
)

// Article is one row of the article list.
type Article struct {
	ID       models.ArticleID
	FeedID   models.FeedID
	FeedName string
	Title    string
	Author   string
	URL      string
	Summary  string
	Date     time.Time
	Icon     *models.FavIcon
	Unread   models.ReadStatus
	Marked   models.MarkStatus
}

func newArticle(article models.Article, feedName string, icon *models.FavIcon) Article {
	return Article{
		ID:       article.ID,
		FeedID:   article.FeedID,
		FeedName: feedName,
		Title:    article.Title,
		Author:   article.Author,
		URL:      article.URL,
		Summary:  article.Summary,
		Date:     article.Date,
		Icon:     icon,
		Unread:   article.Unread,
		Marked:   article.Marked,
	}
}

// SameContent reports whether a and b describe the same row. Read and marked
// state are ignored.
func (a Article) SameContent(b Article) bool {
	return a.ID == b.ID &&
		a.FeedID == b.FeedID &&
		a.FeedName == b.FeedName &&
		a.Title == b.Title &&
		a.Author == b.Author &&
		a.URL == b.URL &&
		a.Summary == b.Summary &&
		a.Date.Equal(b.Date) &&
		iconURL(a.Icon) == iconURL(b.Icon)
}

func iconURL(icon *models.FavIcon) string {
	if icon == nil {
		return ""
	}
	return icon.URL
}
