package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
	"home-services-app/internal/utils"
)

type fakeUserRepo struct {
	users     map[primitive.ObjectID]*models.User
	phoneErr  error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if r.phoneErr != nil {
		return nil, r.phoneErr
	}
	for _, user := range r.users {
		if user.Phone == phone {
			cp := *user
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			user.Name = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "address":
			user.Address = value.(string)
		case "email":
			user.Email = value.(string)
		case "role":
			user.Role = value.(string)
		case "verificationStatus":
			user.VerificationStatus = value.(string)
		case "serviceCategory":
			user.ServiceCategory = value.(string)
		case "isAvailable":
			user.IsAvailable = value.(bool)
		case "fcmToken":
			user.FCMToken = value.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Find(ctx context.Context, filter bson.M) ([]models.User, error) {
	out := []models.User{}
	for _, user := range r.users {
		if role, ok := filter["role"]; ok && user.Role != role {
			continue
		}
		if status, ok := filter["verificationStatus"]; ok && user.VerificationStatus != status {
			continue
		}
		if category, ok := filter["serviceCategory"]; ok && user.ServiceCategory != category {
			continue
		}
		if available, ok := filter["isAvailable"]; ok && user.IsAvailable != available {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func newTestUserService() (*UserService, *fakeUserRepo, *recordNotifier) {
	repo := newFakeUserRepo()
	notifier := &recordNotifier{}
	jwtUtil := utils.NewJWTUtil("test-secret")
	return NewUserService(repo, jwtUtil, notifier, noopCache{}), repo, notifier
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	svc, repo, _ := newTestUserService()

	user := &models.User{
		Name:     "Alice",
		Phone:    "+77010000001",
		Address:  "Main St 1",
		Password: "secret123",
	}
	token, err := svc.Register(context.Background(), user)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}

	stored := repo.users[user.ID]
	if stored.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", stored.Role, models.RoleUser)
	}
	if stored.Password == "secret123" {
		t.Error("password must be stored hashed")
	}
	if err := stored.ComparePassword("secret123"); err != nil {
		t.Error("hashed password must verify against the original")
	}
}

func TestRegister_ProfessionalStartsPending(t *testing.T) {
	svc, repo, _ := newTestUserService()

	user := &models.User{
		Name:     "Bob",
		Phone:    "+77010000002",
		Address:  "Main St 2",
		Password: "secret123",
		Role:     models.RoleProfessional,
	}
	if _, err := svc.Register(context.Background(), user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if repo.users[user.ID].VerificationStatus != models.VerificationPending {
		t.Errorf("verificationStatus = %q, want pending", repo.users[user.ID].VerificationStatus)
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc, _, _ := newTestUserService()

	first := &models.User{Name: "A", Phone: "+77010000003", Address: "x", Password: "secret123"}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("Register: %v", err)
	}

	second := &models.User{Name: "B", Phone: "+77010000003", Address: "y", Password: "secret456"}
	_, err := svc.Register(context.Background(), second)
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestRegister_PhoneLookupFailurePropagates(t *testing.T) {
	svc, repo, _ := newTestUserService()
	repo.phoneErr = errors.New("connection reset")

	user := &models.User{Name: "A", Phone: "+77010000010", Address: "x", Password: "secret123"}
	token, err := svc.Register(context.Background(), user)
	if err == nil {
		t.Fatal("a failed uniqueness lookup must fail registration")
	}
	if token != "" {
		t.Error("no token may be issued when registration fails")
	}
	if len(repo.users) != 0 {
		t.Errorf("created %d users, want 0", len(repo.users))
	}
}

func TestRegister_InsertRaceSurfacesDuplicate(t *testing.T) {
	svc, repo, _ := newTestUserService()
	// The lookup sees nothing but the unique phone index rejects the insert.
	repo.createErr = models.ErrDuplicate

	user := &models.User{Name: "B", Phone: "+77010000011", Address: "x", Password: "secret123"}
	_, err := svc.Register(context.Background(), user)
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestUserService()

	user := &models.User{Name: "A", Phone: "+77010000004", Address: "x", Password: "secret123"}
	if _, err := svc.Register(context.Background(), user); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, got, err := svc.Login(context.Background(), "+77010000004", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || got.ID != user.ID {
		t.Error("login must return a token for the registered user")
	}

	if _, _, err := svc.Login(context.Background(), "+77010000004", "wrong"); err == nil {
		t.Error("wrong password must fail")
	}
	if _, _, err := svc.Login(context.Background(), "+77019999999", "secret123"); err == nil {
		t.Error("unknown phone must fail")
	}
}

func TestUpdateVerificationStatus(t *testing.T) {
	svc, repo, notifier := newTestUserService()

	pro := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Pro",
		Phone:    "+77010000005",
		Role:     models.RoleProfessional,
		Password: "hashed",
	}
	repo.users[pro.ID] = pro

	if _, err := svc.UpdateVerificationStatus(context.Background(), pro.ID, "approved"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for unknown status", err)
	}

	updated, err := svc.UpdateVerificationStatus(context.Background(), pro.ID, models.VerificationVerified)
	if err != nil {
		t.Fatalf("UpdateVerificationStatus: %v", err)
	}
	if updated.VerificationStatus != models.VerificationVerified {
		t.Errorf("verificationStatus = %q, want verified", updated.VerificationStatus)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Account Verified" {
		t.Errorf("unexpected notifications: %+v", notifier.sent)
	}
	if notifier.sent[0].Type != models.TypeSystem {
		t.Errorf("notification type = %q, want system", notifier.sent[0].Type)
	}
}

func TestUpgradeToProfessional(t *testing.T) {
	svc, repo, _ := newTestUserService()

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "C",
		Phone:    "+77010000006",
		Role:     models.RoleUser,
		Password: "hashed",
	}
	repo.users[user.ID] = user

	input := models.UpgradeToProfessionalInput{ServiceCategory: "plumbing", IsAvailable: true}
	upgraded, err := svc.UpgradeToProfessional(context.Background(), user.ID, input)
	if err != nil {
		t.Fatalf("UpgradeToProfessional: %v", err)
	}
	if upgraded.Role != models.RoleProfessional || upgraded.VerificationStatus != models.VerificationPending {
		t.Errorf("upgrade produced %+v", upgraded)
	}

	if _, err := svc.UpgradeToProfessional(context.Background(), user.ID, input); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate for repeat upgrade", err)
	}
}

func TestAdminUpdateUser_StripsProtectedFields(t *testing.T) {
	svc, repo, _ := newTestUserService()

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "D",
		Phone:    "+77010000007",
		Role:     models.RoleProfessional,
		Password: "hashed",
		Rating:   4.8,
	}
	repo.users[user.ID] = user

	updated, err := svc.AdminUpdateUser(context.Background(), user.ID, bson.M{
		"name":     "Renamed",
		"password": "injected",
		"rating":   1.0,
	})
	if err != nil {
		t.Fatalf("AdminUpdateUser: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
	if updated.Password != "hashed" || updated.Rating != 4.8 {
		t.Error("password and rating must not be writable through the admin update")
	}
}

func TestGetProfessionalsByCategory(t *testing.T) {
	svc, repo, _ := newTestUserService()

	visible := &models.User{
		ID: primitive.NewObjectID(), Role: models.RoleProfessional,
		ServiceCategory: "plumbing", VerificationStatus: models.VerificationVerified, IsAvailable: true,
	}
	unverified := &models.User{
		ID: primitive.NewObjectID(), Role: models.RoleProfessional,
		ServiceCategory: "plumbing", VerificationStatus: models.VerificationPending, IsAvailable: true,
	}
	busy := &models.User{
		ID: primitive.NewObjectID(), Role: models.RoleProfessional,
		ServiceCategory: "plumbing", VerificationStatus: models.VerificationVerified, IsAvailable: false,
	}
	repo.users[visible.ID] = visible
	repo.users[unverified.ID] = unverified
	repo.users[busy.ID] = busy

	got, err := svc.GetProfessionalsByCategory(context.Background(), "plumbing")
	if err != nil {
		t.Fatalf("GetProfessionalsByCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != visible.ID {
		t.Errorf("got %d professionals, want only the verified available one", len(got))
	}
}
