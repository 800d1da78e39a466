// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
}

var categoryNames = []string{
	"Programming", "Linux", "Frontend", "Backend", "DevOps", "Cloud",
	"AI", "Databases", "Security", "Career", "Homelab", "Reviews",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d posts, %d comments...", opts.NumUsers, opts.NumPosts, opts.NumComments)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	profiles, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(profiles))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}

	posts, err := createPosts(db, profiles, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createComments(db, posts, opts.NumComments); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	return nil
}

func clearData(db *gorm.DB) error {
	// Delete children before parents
	for _, model := range []interface{}{
		&models.Comment{}, &models.Post{}, &models.Category{},
		&models.UsedToken{}, &models.Profile{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.Profile, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:      fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password:   string(hashed),
			IsActive:   true,
			IsVerified: rand.Intn(10) > 2,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}

		profile := &models.Profile{
			UserID:    user.ID,
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Bio:       gofakeit.Sentence(10),
			ImageURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(profile).Error; err != nil {
			return nil, err
		}
		profile.User = *user
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func createCategories(db *gorm.DB) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := &models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createPosts(db *gorm.DB, profiles []*models.Profile, categories []*models.Category, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := profiles[rand.Intn(len(profiles))]
		category := categories[rand.Intn(len(categories))]
		title := strings.TrimSuffix(gofakeit.Sentence(6), ".")

		post := &models.Post{
			AuthorID:      author.ID,
			Title:         title,
			Slug:          slugify(title, i),
			ReadTime:      rand.Intn(14) + 1,
			Content:       gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Status:        rand.Intn(10) > 1,
			CategoryID:    &category.ID,
			Views:         uint(rand.Intn(5000)),
			PublishedDate: gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, posts []*models.Post, n int) error {
	var roots []*models.Comment
	for i := 0; i < n; i++ {
		post := posts[rand.Intn(len(posts))]
		comment := &models.Comment{
			PostID:   post.ID,
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Message:  gofakeit.Sentence(12),
			IsActive: true,
		}
		// roughly a quarter of comments reply to an earlier root
		if len(roots) > 0 && rand.Intn(4) == 0 {
			parent := roots[rand.Intn(len(roots))]
			if parent.PostID == post.ID {
				comment.ReplyToID = &parent.ID
			}
		}
		if err := db.Create(comment).Error; err != nil {
			return err
		}
		if comment.ReplyToID == nil {
			roots = append(roots, comment)
		}
	}
	return nil
}

func slugify(title string, n int) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return fmt.Sprintf("%s-%d", slug, n)
}
