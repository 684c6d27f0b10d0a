package postgresql

import (
	"context"
	"fmt"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
)

type leaveCommentRepositoryImpl struct {
	db *database.DB
}

func NewLeaveCommentRepository(db *database.DB) leave.CommentRepository {
	return &leaveCommentRepositoryImpl{db: db}
}

func (r *leaveCommentRepositoryImpl) Create(ctx context.Context, comment leave.Comment) (leave.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_comments (id, leave_request_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := q.Exec(ctx, query, comment.ID, comment.LeaveRequestID, comment.AuthorID, comment.Text, comment.CreatedAt); err != nil {
		return leave.Comment{}, fmt.Errorf("insert leave comment: %w", err)
	}

	return comment, nil
}

func (r *leaveCommentRepositoryImpl) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]leave.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.leave_request_id, c.author_id, c.text, c.created_at, u.name
		FROM leave_comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.leave_request_id = $1
		ORDER BY c.created_at, c.id
	`

	rows, err := q.Query(ctx, query, leaveRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []leave.Comment
	for rows.Next() {
		var c leave.Comment
		if err := rows.Scan(&c.ID, &c.LeaveRequestID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
