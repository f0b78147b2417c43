package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/models"
	apperrors "github.com/hirementis/hirementis/pkg/errors"
)

// ErrJobNotFound is returned when a listing id resolves to nothing.
var ErrJobNotFound = apperrors.NewNotFound("Job not found")

// JobInput carries the fields of a create or update request.
type JobInput struct {
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company" validate:"required"`
	CompanyLogo      string   `json:"companyLogo"`
	Location         string   `json:"location"`
	Salary           string   `json:"salary"`
	Role             string   `json:"role"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
}

// JobOption customises the JobService.
type JobOption func(*JobService)

// WithJobClock injects a custom time source.
func WithJobClock(clock func() time.Time) JobOption {
	return func(s *JobService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// JobService manages the job catalog. Reads are public; mutations sit behind
// the admin guard at the route level.
type JobService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewJobService constructs a JobService.
func NewJobService(db *gorm.DB, opts ...JobOption) (*JobService, error) {
	if db == nil {
		return nil, errors.New("job service: db is required")
	}

	service := &JobService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Create stores a new listing stamped with the current time.
func (s *JobService) Create(ctx context.Context, input JobInput) (*models.Job, error) {
	job, err := jobFromInput(input)
	if err != nil {
		return nil, err
	}
	job.PostedOn = s.now()

	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("job service: create job: %w", err)
	}
	return job, nil
}

// Update overwrites an existing listing, keeping its original PostedOn.
func (s *JobService) Update(ctx context.Context, id string, input JobInput) (*models.Job, error) {
	var existing models.Job
	err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job service: find job: %w", err)
	}

	job, err := jobFromInput(input)
	if err != nil {
		return nil, err
	}
	job.BaseModel = existing.BaseModel
	job.PostedOn = existing.PostedOn

	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		return nil, fmt.Errorf("job service: update job: %w", err)
	}
	return job, nil
}

// Delete removes a listing.
func (s *JobService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("job service: delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// GetByID fetches a single listing.
func (s *JobService) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job service: find job: %w", err)
	}
	return &job, nil
}

// List returns all listings, newest first.
func (s *JobService) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.db.WithContext(ctx).Order("posted_on DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job service: list jobs: %w", err)
	}
	return jobs, nil
}

func jobFromInput(input JobInput) (*models.Job, error) {
	requirements, err := json.Marshal(emptyIfNil(input.Requirements))
	if err != nil {
		return nil, fmt.Errorf("job service: marshal requirements: %w", err)
	}
	responsibilities, err := json.Marshal(emptyIfNil(input.Responsibilities))
	if err != nil {
		return nil, fmt.Errorf("job service: marshal responsibilities: %w", err)
	}

	return &models.Job{
		Title:            input.Title,
		Company:          input.Company,
		CompanyLogo:      input.CompanyLogo,
		Location:         input.Location,
		Salary:           input.Salary,
		Role:             input.Role,
		Description:      input.Description,
		Requirements:     requirements,
		Responsibilities: responsibilities,
	}, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
