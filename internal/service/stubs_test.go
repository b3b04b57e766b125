package service

import (
	"context"

	"spotshare/internal/models"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, string, uint) (*models.Post, error)
	getByUserIDFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByIDsFn      func(context.Context, []string, uint) ([]*models.Post, error)
	listFn          func(context.Context, int, int, uint) ([]*models.Post, error)
	listWithCoordFn func(context.Context, int, int, uint) ([]*models.Post, error)
	deleteFn        func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByIDs(ctx context.Context, ids []string, currentUserID uint) ([]*models.Post, error) {
	return s.getByIDsFn(ctx, ids, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListWithCoordinates(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listWithCoordFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ string, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		getByIDsFn: func(_ context.Context, _ []string, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:     func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listWithCoordFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	likeFn        func(context.Context, uint, string, uint) (bool, error)
	unlikeFn      func(context.Context, uint, string) (bool, error)
	isLikedFn     func(context.Context, uint, string) (bool, error)
	listByUserFn  func(context.Context, uint) ([]models.Like, error)
	listByPostFn  func(context.Context, string) ([]models.Like, error)
	countByPostFn func(context.Context, string) (int64, error)
}

func (s *likeRepoStub) Like(ctx context.Context, userID uint, postID string, ownerID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID, ownerID)
}
func (s *likeRepoStub) Unlike(ctx context.Context, userID uint, postID string) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, userID uint, postID string) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *likeRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *likeRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Like, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *likeRepoStub) CountByPost(ctx context.Context, postID string) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		likeFn:        func(_ context.Context, _ uint, _ string, _ uint) (bool, error) { return true, nil },
		unlikeFn:      func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		isLikedFn:     func(_ context.Context, _ uint, _ string) (bool, error) { return false, nil },
		listByUserFn:  func(_ context.Context, _ uint) ([]models.Like, error) { return nil, nil },
		listByPostFn:  func(_ context.Context, _ string) ([]models.Like, error) { return nil, nil },
		countByPostFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	getByIDsFn      func(context.Context, []uint) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.getByIDsFn(ctx, ids)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		getByIDsFn:      func(_ context.Context, _ []uint) ([]models.User, error) { return nil, nil },
	}
}

// weatherStub is a stub for WeatherProvider counting calls.
type weatherStub struct {
	fn    func(context.Context, float64, float64) (*models.Weather, error)
	calls int
}

func (s *weatherStub) Current(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	s.calls++
	if s.fn != nil {
		return s.fn(ctx, lat, lon)
	}
	return &models.Weather{Temperature: 18.5, Description: "clear sky", Icon: "01d"}, nil
}
