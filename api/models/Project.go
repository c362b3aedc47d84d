package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxProjectTitleLength       = 200
	MaxProjectDescriptionLength = 2000
)

// Project is a portfolio entry shown on a user's profile.
type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index:idx_projects_user_created,priority:1" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:2000;not null" json:"description"`
	TechStack   []string  `gorm:"serializer:json;not null" json:"tech_stack"`
	ImageURLs   []string  `gorm:"column:image_urls;serializer:json;not null" json:"image_urls"`
	GithubURL   string    `gorm:"size:500" json:"github_url"`
	LiveURL     string    `gorm:"size:500" json:"live_url"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt   time.Time `gorm:"not null;index:idx_projects_user_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) Prepare() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.LiveURL = strings.TrimSpace(p.LiveURL)
	p.TechStack = compact(p.TechStack)
	p.ImageURLs = compact(p.ImageURLs)
}

func (p *Project) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.UserID == "" {
		errorMessages["Required_user"] = "Required User"
	}
	if p.Title == "" {
		errorMessages["Required_title"] = "Required Title"
	}
	if utf8.RuneCountInString(p.Title) > MaxProjectTitleLength {
		errorMessages["Invalid_title"] = "Title should be at most 200 characters"
	}
	if p.Description == "" {
		errorMessages["Required_description"] = "Required Description"
	}
	if utf8.RuneCountInString(p.Description) > MaxProjectDescriptionLength {
		errorMessages["Invalid_description"] = "Description should be at most 2000 characters"
	}
	return errorMessages
}

// FindProjectsByUser returns a user's projects, newest first.
func FindProjectsByUser(db *gorm.DB, userID string) ([]Project, error) {
	projects := []Project{}
	err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&projects).Error
	return projects, err
}

// compact trims entries and drops blanks, never returning nil.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
