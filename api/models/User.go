package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id" db:"id"`
	Username       string    `gorm:"size:50;not null;uniqueIndex" json:"username" db:"username"`
	Email          string    `gorm:"size:100;not null;uniqueIndex" json:"email" db:"email"`
	Name           string    `gorm:"size:100" json:"name" db:"name"`
	Bio            string    `gorm:"size:500" json:"bio" db:"bio"`
	AvatarURL      string    `gorm:"size:500" json:"avatar_url" db:"avatar_url"`
	BannerURL      string    `gorm:"size:500" json:"banner_url" db:"banner_url"`
	Location       string    `gorm:"size:100" json:"location" db:"location"`
	Website        string    `gorm:"size:500" json:"website" db:"website"`
	GithubURL      string    `gorm:"size:500" json:"github_url" db:"github_url"`
	PortfolioURL   string    `gorm:"size:500" json:"portfolio_url" db:"portfolio_url"`
	FollowerCount  int64     `gorm:"not null;default:0" json:"follower_count" db:"follower_count"`
	FollowingCount int64     `gorm:"not null;default:0" json:"following_count" db:"following_count"`
	PostCount      int64     `gorm:"not null;default:0" json:"post_count" db:"post_count"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at" db:"updated_at"`
}

// UserColumns lists the columns read by hand-written queries, in struct order.
var UserColumns = []string{
	"id", "username", "email", "name", "bio",
	"avatar_url", "banner_url", "location", "website", "github_url", "portfolio_url",
	"follower_count", "following_count", "post_count",
	"created_at", "updated_at",
}

const (
	MaxBioLength      = 500
	MaxNameLength     = 100
	MaxLocationLength = 100
	MaxURLLength      = 500
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) Prepare() {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)
	u.Bio = strings.TrimSpace(u.Bio)

	// Counters are derived from edges and never accepted from input.
	u.FollowerCount = 0
	u.FollowingCount = 0
	u.PostCount = 0

	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
}

func (u *User) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if u.Username == "" {
		errorMessages["Required_username"] = "Required Username"
	}
	if len(u.Username) > 50 {
		errorMessages["Invalid_username"] = "Username should be at most 50 characters"
	}
	if u.Email == "" {
		errorMessages["Required_email"] = "Required Email"
	}
	if u.Email != "" {
		if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["Invalid_email"] = "Invalid Email"
		}
	}
	for key, msg := range ValidateProfile(u.Name, u.Bio) {
		errorMessages[key] = msg
	}
	return errorMessages
}

// ValidateProfile checks the free-text profile fields by character count.
func ValidateProfile(name, bio string) map[string]string {
	errorMessages := map[string]string{}
	if utf8.RuneCountInString(name) > MaxNameLength {
		errorMessages["Invalid_name"] = "Name should be at most 100 characters"
	}
	if utf8.RuneCountInString(bio) > MaxBioLength {
		errorMessages["Invalid_bio"] = "Bio should be at most 500 characters"
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	if err := db.Create(u).Error; err != nil {
		return &User{}, err
	}
	return u, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid string) (*User, error) {
	if err := db.Model(User{}).Where("id = ?", uid).Take(u).Error; err != nil {
		return &User{}, err
	}
	return u, nil
}
