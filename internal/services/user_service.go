package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
	"home-services-app/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter bson.M) ([]models.User, error)
}

type UserService struct {
	repo     UserRepository
	jwtUtil  *utils.JWTUtil
	notifier Notifier
	cache    Cache
}

func NewUserService(repo UserRepository, jwtUtil *utils.JWTUtil, notifier Notifier, cache Cache) *UserService {
	return &UserService{repo: repo, jwtUtil: jwtUtil, notifier: notifier, cache: cache}
}

// Register creates an account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, user *models.User) (string, error) {
	existing, err := s.repo.GetByPhone(ctx, user.Phone)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("%w: phone already registered", models.ErrDuplicate)
	}

	if err := user.HashPassword(); err != nil {
		return "", err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Role == models.RoleProfessional {
		user.VerificationStatus = models.VerificationPending
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.jwtUtil.GenerateToken(user.ID.Hex(), user.Role)
}

func (s *UserService) Login(ctx context.Context, phone, password string) (string, *models.User, error) {
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		log.Printf("User not found: %s", phone)
		return "", nil, errors.New("invalid credentials")
	}

	if err := user.ComparePassword(password); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetProfile returns a user, served from the profile cache when possible.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_profile:%s", id.Hex())

	var cached models.User
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, user, 5*time.Minute); err != nil {
		log.Printf("Failed to cache user profile: %v", err)
	}

	return user, nil
}

// GetVerifiedProfessionals lists professionals visible to customers.
func (s *UserService) GetVerifiedProfessionals(ctx context.Context) ([]models.User, error) {
	return s.repo.Find(ctx, bson.M{
		"role":               models.RoleProfessional,
		"verificationStatus": models.VerificationVerified,
	})
}

// GetAllProfessionals lists every professional regardless of status (admin view).
func (s *UserService) GetAllProfessionals(ctx context.Context) ([]models.User, error) {
	return s.repo.Find(ctx, bson.M{"role": models.RoleProfessional})
}

// GetProfessionalsByCategory lists verified, currently available professionals
// for one service category.
func (s *UserService) GetProfessionalsByCategory(ctx context.Context, category string) ([]models.User, error) {
	return s.repo.Find(ctx, bson.M{
		"role":               models.RoleProfessional,
		"serviceCategory":    category,
		"verificationStatus": models.VerificationVerified,
		"isAvailable":        true,
	})
}

func (s *UserService) GetCustomers(ctx context.Context) ([]models.User, error) {
	return s.repo.Find(ctx, bson.M{"role": models.RoleUser})
}

// UpdateProfile updates the user-editable fields. Rating and reviewCount are
// aggregator-owned and cannot be touched here.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, input models.UpdateProfileInput) (*models.User, error) {
	fields := bson.M{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}
	if input.Email != "" {
		fields["email"] = input.Email
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	s.invalidateProfileCache(ctx, id)
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) ToggleAvailability(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, bson.M{"isAvailable": !user.IsAvailable}); err != nil {
		return nil, err
	}

	s.invalidateProfileCache(ctx, id)
	return s.repo.GetByID(ctx, id)
}

// UpdateVerificationStatus is the admin decision on a professional's
// application. The professional is told about the outcome.
func (s *UserService) UpdateVerificationStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error) {
	switch status {
	case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
	default:
		return nil, fmt.Errorf("%w: unknown verification status %q", models.ErrValidation, status)
	}

	if err := s.repo.UpdateFields(ctx, id, bson.M{"verificationStatus": status}); err != nil {
		return nil, err
	}

	switch status {
	case models.VerificationVerified:
		s.notifier.Notify(ctx, id, "Account Verified",
			"Your professional account has been verified. You can now accept jobs.",
			models.TypeSystem, nil)
	case models.VerificationRejected:
		s.notifier.Notify(ctx, id, "Verification Rejected",
			"Your professional application was rejected. Please contact support for details.",
			models.TypeSystem, nil)
	}

	s.invalidateProfileCache(ctx, id)
	return s.repo.GetByID(ctx, id)
}

// UpgradeToProfessional turns a customer account into a professional one,
// pending admin verification.
func (s *UserService) UpgradeToProfessional(ctx context.Context, id primitive.ObjectID, input models.UpgradeToProfessionalInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleProfessional {
		return nil, fmt.Errorf("%w: user is already a professional", models.ErrDuplicate)
	}

	fields := bson.M{
		"role":               models.RoleProfessional,
		"serviceCategory":    input.ServiceCategory,
		"isAvailable":        input.IsAvailable,
		"verificationStatus": models.VerificationPending,
	}
	if input.IDProof != "" {
		fields["idProof"] = input.IDProof
	}
	if input.Experience > 0 {
		fields["experience"] = input.Experience
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	s.invalidateProfileCache(ctx, id)
	return s.repo.GetByID(ctx, id)
}

// AdminUpdateUser applies arbitrary field updates. Password and the derived
// rating fields are stripped before the write.
func (s *UserService) AdminUpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	delete(fields, "password")
	delete(fields, "_id")
	delete(fields, "rating")
	delete(fields, "reviewCount")

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	s.invalidateProfileCache(ctx, id)
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProfileCache(ctx, id)
	return nil
}

// RegisterDeviceToken stores the FCM token the mobile client registered.
func (s *UserService) RegisterDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return s.repo.UpdateFields(ctx, id, bson.M{"fcmToken": token})
}

func (s *UserService) invalidateProfileCache(ctx context.Context, id primitive.ObjectID) {
	cacheKey := fmt.Sprintf("user_profile:%s", id.Hex())
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Printf("Failed to invalidate profile cache: %v", err)
	}
}
