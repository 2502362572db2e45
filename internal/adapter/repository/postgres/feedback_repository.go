package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

const feedbackColumns = `id, booking_id, tourist_id, rating, comment, created_at`

type FeedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
	INSERT INTO feedback (id, booking_id, tourist_id, rating, comment, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		feedback.ID,
		feedback.BookingID,
		feedback.TouristID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)
	if err != nil {
		return translate(err, "insert feedback")
	}

	return nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	entries := []domain.Feedback{}
	err := conn(ctx, r.db).SelectContext(ctx, &entries, `SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, translate(err, "list feedback")
	}
	return entries, nil
}

func (r *FeedbackRepository) ListByTourist(ctx context.Context, touristID uuid.UUID) ([]domain.Feedback, error) {
	entries := []domain.Feedback{}
	err := conn(ctx, r.db).SelectContext(ctx, &entries, `SELECT `+feedbackColumns+` FROM feedback WHERE tourist_id = $1 ORDER BY created_at DESC`, touristID)
	if err != nil {
		return nil, translate(err, "list feedback")
	}
	return entries, nil
}
