// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"spotshare/internal/models"
	"spotshare/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// spot is a curated location posts get tagged with. Coordinates are jittered
// per post so the map view does not stack markers.
type spot struct {
	Name string
	Lat  float64
	Lon  float64
}

var spots = []spot{
	{"Gas Works Park", 47.6456, -122.3344},
	{"Golden Gardens Beach", 47.6890, -122.4030},
	{"Kerry Park Viewpoint", 47.6295, -122.3599},
	{"Snoqualmie Falls", 47.5417, -121.8377},
	{"Rattlesnake Ledge", 47.4347, -121.7705},
	{"Pike Place Market", 47.6097, -122.3422},
	{"Discovery Park Lighthouse", 47.6622, -122.4362},
	{"Mount Si Summit", 47.4882, -121.7225},
	{"Alki Beach", 47.5812, -122.4089},
	{"Washington Park Arboretum", 47.6396, -122.2943},
}

// weatherKinds pairs descriptions with OpenWeather icon codes.
var weatherKinds = []models.Weather{
	{Description: "clear sky", Icon: "01d"},
	{Description: "few clouds", Icon: "02d"},
	{Description: "scattered clouds", Icon: "03d"},
	{Description: "overcast clouds", Icon: "04d"},
	{Description: "light rain", Icon: "10d"},
	{Description: "mist", Icon: "50d"},
	{Description: "snow", Icon: "13d"},
}

// Seeder populates the database with demo data.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes all seeded rows. Postgres only; tests clean up by using a
// throwaway database instead.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	return s.db.Exec(`TRUNCATE TABLE likes, posts, users RESTART IDENTITY CASCADE;`).Error
}

// Run creates users, posts and likes according to opts.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	likes, err := s.seedLikes(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("Created %d likes", likes)

	return nil
}

func (s *Seeder) createUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// A stable login for manual testing
	if count >= 1 {
		demo := models.User{
			Username: "demo",
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			Avatar:   "https://i.pravatar.cc/150?u=demo",
		}
		if err := s.db.Create(&demo).Error; err == nil {
			users = append(users, demo)
		}
	}

	for i := len(users); i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 999))
		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashedPassword),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func (s *Seeder) createPosts(users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.r.Intn(len(users))]
		loc := spots[s.r.Intn(len(spots))]
		kind := weatherKinds[s.r.Intn(len(weatherKinds))]

		id := service.NewPostID()
		post := models.Post{
			ID:        id,
			UserID:    user.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", id),
			PlaceName: loc.Name,
			Latitude:  loc.Lat + (s.r.Float64()-0.5)*0.01,
			Longitude: loc.Lon + (s.r.Float64()-0.5)*0.01,
			Weather: models.Weather{
				Temperature: gofakeit.Float64Range(-5, 32),
				Description: kind.Description,
				Icon:        kind.Icon,
			},
			// spread posts over the last 90 days so the feed looks lived-in
			CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(90*24)) * time.Hour),
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

// seedLikes gives each post a random set of likers and keeps like_count in
// step with the rows it inserted.
func (s *Seeder) seedLikes(users []models.User, posts []models.Post) (int, error) {
	total := 0
	for i := range posts {
		post := &posts[i]
		numLikes := s.r.Intn(len(users) + 1)

		shuffled := make([]models.User, len(users))
		copy(shuffled, users)
		s.r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		created := 0
		for _, user := range shuffled[:numLikes] {
			if user.ID == post.UserID {
				continue
			}
			like := models.Like{
				UserID:  user.ID,
				PostID:  post.ID,
				OwnerID: post.UserID,
			}
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if res.Error != nil {
				return total, res.Error
			}
			created += int(res.RowsAffected)
		}

		if created > 0 {
			if err := s.db.Model(post).Update("like_count", created).Error; err != nil {
				return total, err
			}
			post.LikeCount = created
		}
		total += created
	}

	return total, nil
}
