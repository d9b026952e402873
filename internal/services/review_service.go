package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetByOrderID(ctx context.Context, orderID primitive.ObjectID) (*models.Review, error)
	GetByProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Review, error)
	GetAll(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderReader is the read-only slice of the order store the review gate needs.
type OrderReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

// RatingWriter writes the derived rating fields on a professional.
type RatingWriter interface {
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error
}

type ReviewService struct {
	repo   ReviewRepository
	orders OrderReader
	users  RatingWriter
}

func NewReviewService(repo ReviewRepository, orders OrderReader, users RatingWriter) *ReviewService {
	return &ReviewService{repo: repo, orders: orders, users: users}
}

// SubmitReview validates the order state, persists the review and synchronously
// recomputes the professional's rating. The pre-insert existence check is a
// fast path; the unique index on the order reference is what actually decides
// the duplicate race.
func (s *ReviewService) SubmitReview(ctx context.Context, orderID, customerID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.StatusCompleted {
		return nil, models.ErrOrderNotCompleted
	}

	if order.Professional == nil {
		return nil, fmt.Errorf("%w: order has no professional assigned", models.ErrValidation)
	}

	existing, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrAlreadyReviewed
	}

	review := &models.Review{
		Order:        orderID,
		Customer:     customerID,
		Professional: *order.Professional,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, review.Professional); err != nil {
		log.Printf("Rating recomputation failed for professional %s after review %s: %v",
			review.Professional.Hex(), review.ID.Hex(), err)
		return nil, fmt.Errorf("failed to update professional rating: %w", err)
	}

	return review, nil
}

// DeleteReview removes a review (admin moderation) and recomputes the affected
// professional's rating, resetting it to zero when no reviews remain.
func (s *ReviewService) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.recomputeRating(ctx, review.Professional); err != nil {
		log.Printf("Rating recomputation failed for professional %s after deleting review %s: %v",
			review.Professional.Hex(), id.Hex(), err)
		return fmt.Errorf("failed to update professional rating: %w", err)
	}

	return nil
}

// recomputeRating rebuilds the professional's aggregate from all of their
// reviews. Full recomputation rather than an incremental update, so a repeated
// call always converges on the true value.
func (s *ReviewService) recomputeRating(ctx context.Context, professionalID primitive.ObjectID) error {
	reviews, err := s.repo.GetByProfessional(ctx, professionalID)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		return s.users.SetRating(ctx, professionalID, 0, 0)
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	rounded := math.Round(avg*10) / 10

	return s.users.SetRating(ctx, professionalID, rounded, len(reviews))
}

// ReviewStatus answers whether an order has been reviewed yet.
func (s *ReviewService) ReviewStatus(ctx context.Context, orderID primitive.ObjectID) (*models.ReviewStatus, error) {
	review, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &models.ReviewStatus{Reviewed: review != nil, Review: review}, nil
}

func (s *ReviewService) GetReviewsForProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Review, error) {
	return s.repo.GetByProfessional(ctx, professionalID)
}

func (s *ReviewService) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	return s.repo.GetAll(ctx)
}
