package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser         = "user"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Password string             `bson:"password" json:"-" validate:"required,min=6"`
	Phone    string             `bson:"phone" json:"phone" validate:"required"`
	Address  string             `bson:"address" json:"address" validate:"required"`
	Role     string             `bson:"role" json:"role" validate:"omitempty,oneof=user professional admin"`

	// Professional-only fields.
	VerificationStatus string  `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`
	IDProof            string  `bson:"idProof,omitempty" json:"idProof,omitempty"`
	ProfileImage       string  `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	ServiceCategory    string  `bson:"serviceCategory,omitempty" json:"serviceCategory,omitempty"`
	Experience         int     `bson:"experience,omitempty" json:"experience,omitempty"`
	IsAvailable        bool    `bson:"isAvailable" json:"isAvailable"`
	JobsCompleted      int     `bson:"jobsCompleted" json:"jobsCompleted"`

	// Rating and ReviewCount are derived fields, written only by the
	// review service's rating recomputation.
	Rating      float64 `bson:"rating" json:"rating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`

	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

type UpdateProfileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type UpgradeToProfessionalInput struct {
	ServiceCategory string `json:"serviceCategory" binding:"required"`
	IsAvailable     bool   `json:"isAvailable"`
	IDProof         string `json:"idProof"`
	Experience      int    `json:"experience"`
}
