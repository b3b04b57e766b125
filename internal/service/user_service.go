package service

import (
	"context"
	"fmt"
	"strings"

	"spotshare/internal/models"
	"spotshare/internal/repository"
	"spotshare/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID            uint
	Username          string
	Avatar            []byte
	AvatarContentType string
	AvatarFilename    string
}

type UserService struct {
	userRepo repository.UserRepository
	likeRepo repository.LikeRepository
	images   *ImageService
}

func NewUserService(
	userRepo repository.UserRepository,
	likeRepo repository.LikeRepository,
	images *ImageService,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		likeRepo: likeRepo,
		images:   images,
	}
}

// Signup validates the registration input, checks for duplicates, and creates
// the user with a bcrypt password hash.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user. Unknown email
// and wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetProfile returns the API profile shape with the parallel liked-post
// arrays derived from the user's like rows in insertion order. The email is
// only included when the user requests their own profile.
func (s *UserService) GetProfile(ctx context.Context, userID uint, includeEmail bool) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile(likes)
	if !includeEmail {
		profile.Email = ""
	}
	return &profile, nil
}

// UpdateProfile applies a username change and/or a new avatar. All validation
// runs before the avatar is uploaded or the row is touched.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	newUsername := strings.TrimSpace(in.Username)
	if newUsername != "" && newUsername != user.Username {
		if err := validation.ValidateUsername(newUsername); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if existing, err := s.userRepo.GetByUsername(ctx, newUsername); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = newUsername
	}

	if len(in.Avatar) > 0 {
		stored, err := s.images.Process(ctx, ProcessImageInput{
			UserID:      in.UserID,
			Name:        fmt.Sprintf("avatars/%d", in.UserID),
			Filename:    in.AvatarFilename,
			ContentType: in.AvatarContentType,
			Content:     in.Avatar,
		})
		if err != nil {
			return nil, err
		}
		user.Avatar = stored.URL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users for the member directory.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}
