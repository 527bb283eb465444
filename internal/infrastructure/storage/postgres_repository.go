package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ArticlePromoter/internal/domain"
	"ArticlePromoter/internal/ports"
)

// PostgresRepository persists articles and their pipeline state.
type PostgresRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the articles table when absent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	query := `CREATE TABLE IF NOT EXISTS articles (
                url TEXT PRIMARY KEY,
                title TEXT NOT NULL,
                content TEXT NOT NULL,
                post TEXT,
                image_urls TEXT[],
                tweet_id TEXT
              )`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	return nil
}

// GetAll loads every article together with its pipeline state.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]domain.Article, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.sb.
		Select("url", "title", "content", "post", "image_urls", "tweet_id").
		From("articles").
		OrderBy("url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var (
			article       domain.Article
			post, tweetID sql.NullString
			imageURLs     pq.StringArray
		)
		if err := rows.Scan(&article.URL, &article.Title, &article.Content, &post, &imageURLs, &tweetID); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		article.Post = post.String
		article.ImageURLs = []string(imageURLs)
		article.TweetID = tweetID.String
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// UpsertSource inserts a freshly scraped article or refreshes the
// title/content of an existing row, leaving pipeline fields untouched.
func (r *PostgresRepository) UpsertSource(ctx context.Context, article domain.Article) error {
	if r.db == nil || article.URL == "" {
		return nil
	}

	query, args, err := r.sb.
		Insert("articles").
		Columns("url", "title", "content").
		Values(article.URL, article.Title, article.Content).
		Suffix("ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert article %s: %w", article.URL, err)
	}
	return nil
}

// Update overwrites the stored row with the in-memory pipeline state.
func (r *PostgresRepository) Update(ctx context.Context, article domain.Article) error {
	if r.db == nil || article.URL == "" {
		return nil
	}

	query, args, err := r.sb.
		Update("articles").
		Set("title", article.Title).
		Set("content", article.Content).
		Set("post", nullable(article.Post)).
		Set("image_urls", pq.StringArray(article.ImageURLs)).
		Set("tweet_id", nullable(article.TweetID)).
		Where(sq.Eq{"url": article.URL}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article %s: %w", article.URL, err)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
