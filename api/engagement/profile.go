package engagement

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

// UpdateUserRequest changes the profile fields that are set. Nil fields are left alone and an
// empty string clears the field. Counters, username and email are not editable here.
type UpdateUserRequest struct {
	UserID       string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	BannerURL    *string `json:"banner_url,omitempty"`
	Location     *string `json:"location,omitempty"`
	Website      *string `json:"website,omitempty"`
	GithubURL    *string `json:"github_url,omitempty"`
	PortfolioURL *string `json:"portfolio_url,omitempty"`
}

type profileField struct {
	column string
	value  *string
	link   bool
}

// changes returns the column updates carried by the request.
func (r UpdateUserRequest) changes() (map[string]interface{}, error) {
	fields := []profileField{
		{"name", r.Name, false},
		{"bio", r.Bio, false},
		{"location", r.Location, false},
		{"avatar_url", r.AvatarURL, true},
		{"banner_url", r.BannerURL, true},
		{"website", r.Website, true},
		{"github_url", r.GithubURL, true},
		{"portfolio_url", r.PortfolioURL, true},
	}

	updates := map[string]interface{}{}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		value := strings.TrimSpace(*f.value)
		if f.link {
			if err := validateLink(f.column, value); err != nil {
				return nil, err
			}
		}
		updates[f.column] = value
	}

	name, _ := updates["name"].(string)
	bio, _ := updates["bio"].(string)
	if msgs := models.ValidateProfile(name, bio); len(msgs) > 0 {
		return nil, firstValidationError(msgs)
	}
	if location, ok := updates["location"].(string); ok && utf8.RuneCountInString(location) > models.MaxLocationLength {
		return nil, apperrors.NewValidation("location", "should be at most 100 characters")
	}
	return updates, nil
}

// validateLink accepts an empty value or an absolute http(s) URL.
func validateLink(field, link string) error {
	if link == "" {
		return nil
	}
	if utf8.RuneCountInString(link) > models.MaxURLLength {
		return apperrors.NewValidation(field, "should be at most 500 characters")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewValidation(field, "must be an http or https URL")
	}
	return nil
}

// UpdateUser applies a partial profile update and returns the stored profile.
func (s *Service) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperrors.NewValidation("user_id", "required")
	}
	updates, err := req.changes()
	if err != nil {
		s.observe("update_user", "updated", err)
		return nil, err
	}

	var user models.User
	err = s.transact(ctx, "update_user", func(tx *gorm.DB) error {
		if err := requireUser(tx, req.UserID); err != nil {
			return err
		}
		if len(updates) > 0 {
			updates["updated_at"] = s.now()
			if err := tx.Model(&models.User{}).Where("id = ?", req.UserID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", req.UserID).Take(&user).Error
	})
	s.observe("update_user", "updated", err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateProjectRequest carries a portfolio entry for UserID.
type CreateProjectRequest struct {
	UserID      string   `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	ImageURLs   []string `json:"image_urls"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
	IsFeatured  bool     `json:"is_featured"`
}

// CreateProject stores a project owned by an existing user.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		UserID:      strings.TrimSpace(req.UserID),
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		ImageURLs:   req.ImageURLs,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		IsFeatured:  req.IsFeatured,
	}
	project.Prepare()
	err := validateProject(&project)
	if err != nil {
		s.observe("create_project", "created", err)
		return nil, err
	}

	err = s.transact(ctx, "create_project", func(tx *gorm.DB) error {
		if err := requireUser(tx, project.UserID); err != nil {
			return err
		}
		row := project
		row.ID = ""
		row.CreatedAt = s.now()
		row.UpdatedAt = row.CreatedAt
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		project = row
		return nil
	})
	s.observe("create_project", "created", err)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func validateProject(project *models.Project) error {
	if msgs := project.Validate(); len(msgs) > 0 {
		return firstValidationError(msgs)
	}
	if err := validateLink("github_url", project.GithubURL); err != nil {
		return err
	}
	if err := validateLink("live_url", project.LiveURL); err != nil {
		return err
	}
	for _, image := range project.ImageURLs {
		if err := validateLink("image_urls", image); err != nil {
			return err
		}
	}
	return nil
}

// ListProjects returns userID's projects, newest first.
func (s *Service) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidation("user_id", "required")
	}
	db := s.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return nil, apperrors.Classify("list_projects", err)
	}
	projects, err := models.FindProjectsByUser(db, userID)
	return projects, apperrors.Classify("list_projects", err)
}
