package postgres

import (
	"database/sql"
	"fmt"

	"github.com/learnhub/backend/internal/domain"
)

type ShortLinkRepo struct {
	DB *sql.DB
}

func NewShortLinkRepo(db *sql.DB) *ShortLinkRepo {
	return &ShortLinkRepo{DB: db}
}

// Create inserts a short link row. Returns domain.ErrDuplicate when the
// target (or the derived token) is already stored, so a concurrent loser
// can re-read the winner's row.
func (r *ShortLinkRepo) Create(link *domain.ShortLink) error {
	query := `
	INSERT INTO short_links (token, target, created_at)
	VALUES ($1, $2, NOW());
	`
	_, err := r.DB.Exec(query, link.Token, link.Target)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create short link: %v", err)
	}
	return nil
}

// GetByToken retrieves a short link by its token.
func (r *ShortLinkRepo) GetByToken(token string) (*domain.ShortLink, error) {
	query := `SELECT token, target, created_at FROM short_links WHERE token = $1;`
	return r.scanLink(r.DB.QueryRow(query, token))
}

// GetByTarget retrieves a short link by its original target path.
func (r *ShortLinkRepo) GetByTarget(target string) (*domain.ShortLink, error) {
	query := `SELECT token, target, created_at FROM short_links WHERE target = $1;`
	return r.scanLink(r.DB.QueryRow(query, target))
}

func (r *ShortLinkRepo) scanLink(row *sql.Row) (*domain.ShortLink, error) {
	var link domain.ShortLink
	err := row.Scan(&link.Token, &link.Target, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get short link: %v", err)
	}
	return &link, nil
}
