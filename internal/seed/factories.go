package seed

import (
	"fmt"
	"time"

	"spotshare/internal/models"
	"spotshare/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seeding and tests.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := &models.User{
		Username: username,
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	id := service.NewPostID()
	loc := spots[gofakeit.Number(0, len(spots)-1)]
	kind := weatherKinds[gofakeit.Number(0, len(weatherKinds)-1)]

	post := &models.Post{
		ID:        id,
		UserID:    user.ID,
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 2, 5, "\n"),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", id),
		PlaceName: loc.Name,
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Weather: models.Weather{
			Temperature: gofakeit.Float64Range(-5, 32),
			Description: kind.Description,
			Icon:        kind.Icon,
		},
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like from user on post and bumps the counter.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID:  user.ID,
		PostID:  post.ID,
		OwnerID: post.UserID,
	}
	res := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return f.db.Model(post).
		Update("like_count", gorm.Expr("like_count + 1")).Error
}
