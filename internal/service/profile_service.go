package service

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	maxBioLength     = 1000
	maxGoals         = 10
	defaultCoachList = 50
)

var experienceLevels = map[string]bool{"": true, "beginner": true, "intermediate": true, "advanced": true, "pro": true}

// ProfileView is a user as other users see them. Email is only filled in
// for the user themself and for linked coach/player pairs.
type ProfileView struct {
	ID        primitive.ObjectID  `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email,omitempty"`
	Role      domain.Role         `json:"role"`
	Profile   domain.Profile      `json:"profile"`
	AvatarURL string              `json:"avatarUrl,omitempty"`
	CoachID   *primitive.ObjectID `json:"coachId,omitempty"`
}

// ProfileUpdate carries the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Name       *string
	Sport      *string
	Position   *string
	Age        *int
	HeightCm   *float64
	WeightKg   *float64
	Bio        *string
	Goals      []string
	Experience *string
	// AvatarKey must be an object key previously issued for an avatar upload.
	AvatarKey *string
}

type ProfileService interface {
	GetMe(ctx context.Context, userID primitive.ObjectID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*ProfileView, error)
	RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	GetProfile(ctx context.Context, viewerID, userID primitive.ObjectID) (*ProfileView, error)
	ListCoaches(ctx context.Context, sport string, limit int) ([]ProfileView, error)
}

type profileService struct {
	userRepo repository.UserRepository
	uploads  *uploadManager
	logger   *zap.Logger
}

func NewProfileService(userRepo repository.UserRepository, uploadRepo repository.UploadRepository, fileStorage storage.FileStorage, logger *zap.Logger) ProfileService {
	return &profileService{
		userRepo: userRepo,
		uploads:  newUploadManager(uploadRepo, fileStorage, logger),
		logger:   logger,
	}
}

func (s *profileService) GetMe(ctx context.Context, userID primitive.ObjectID) (*ProfileView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user, true), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*ProfileView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	p := user.Profile
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		user.Name = name
	}
	if upd.Sport != nil {
		p.Sport = strings.TrimSpace(*upd.Sport)
	}
	if upd.Position != nil {
		p.Position = strings.TrimSpace(*upd.Position)
	}
	if upd.Age != nil {
		if *upd.Age < 0 || *upd.Age > 120 {
			return nil, invalid("age must be between 0 and 120")
		}
		p.Age = *upd.Age
	}
	if upd.HeightCm != nil {
		if *upd.HeightCm < 0 || *upd.HeightCm > 300 {
			return nil, invalid("heightCm must be between 0 and 300")
		}
		p.HeightCm = *upd.HeightCm
	}
	if upd.WeightKg != nil {
		if *upd.WeightKg < 0 || *upd.WeightKg > 500 {
			return nil, invalid("weightKg must be between 0 and 500")
		}
		p.WeightKg = *upd.WeightKg
	}
	if upd.Bio != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*upd.Bio)) > maxBioLength {
			return nil, invalid("bio must be at most %d characters", maxBioLength)
		}
		p.Bio = strings.TrimSpace(*upd.Bio)
	}
	if upd.Goals != nil {
		if len(upd.Goals) > maxGoals {
			return nil, invalid("at most %d goals", maxGoals)
		}
		goals := make([]string, 0, len(upd.Goals))
		for _, g := range upd.Goals {
			if g = strings.TrimSpace(g); g != "" {
				goals = append(goals, g)
			}
		}
		p.Goals = goals
	}
	if upd.Experience != nil {
		exp := strings.ToLower(strings.TrimSpace(*upd.Experience))
		if !experienceLevels[exp] {
			return nil, invalid("experience must be beginner, intermediate, advanced or pro")
		}
		p.Experience = exp
	}

	oldAvatar := p.AvatarKey
	claimed := ""
	if upd.AvatarKey != nil {
		key := strings.TrimSpace(*upd.AvatarKey)
		switch {
		case key == "":
			p.AvatarKey = ""
		case key == oldAvatar:
			// already attached to this profile
		default:
			upload, err := s.uploads.Resolve(ctx, userID, domain.PurposeAvatar, key)
			if err != nil {
				return nil, err
			}
			if err := s.uploads.Claim(ctx, upload); err != nil {
				return nil, err
			}
			claimed = upload.S3ObjectKey
			p.AvatarKey = claimed
		}
	}

	if err := s.saveProfile(ctx, userID, user.Name, upd.Name != nil, p); err != nil {
		if claimed != "" {
			s.uploads.Release(ctx, claimed)
		}
		return nil, err
	}
	user.Profile = p

	if oldAvatar != "" && oldAvatar != p.AvatarKey {
		s.uploads.Remove(ctx, oldAvatar)
	}
	return s.view(ctx, user, true), nil
}

func (s *profileService) saveProfile(ctx context.Context, userID primitive.ObjectID, name string, nameChanged bool, p domain.Profile) error {
	if nameChanged {
		if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
			return err
		}
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *profileService) RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	return s.uploads.RequestURL(ctx, userID, domain.PurposeAvatar, contentType)
}

func (s *profileService) GetProfile(ctx context.Context, viewerID, userID primitive.ObjectID) (*ProfileView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	linked := viewerID == userID ||
		user.CoachedBy(viewerID) ||
		(user.CoachID == nil && containsID(user.PlayerIDs, viewerID))
	return s.view(ctx, user, linked), nil
}

func (s *profileService) ListCoaches(ctx context.Context, sport string, limit int) ([]ProfileView, error) {
	if limit <= 0 || limit > defaultCoachList {
		limit = defaultCoachList
	}
	coaches, err := s.userRepo.ListCoaches(ctx, strings.TrimSpace(sport), limit)
	if err != nil {
		return nil, err
	}
	views := make([]ProfileView, 0, len(coaches))
	for i := range coaches {
		views = append(views, *s.view(ctx, &coaches[i], false))
	}
	return views, nil
}

func (s *profileService) view(ctx context.Context, u *domain.User, withEmail bool) *ProfileView {
	v := &ProfileView{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		Profile:   u.Profile,
		AvatarURL: s.uploads.DownloadURL(ctx, u.Profile.AvatarKey),
		CoachID:   u.CoachID,
	}
	if withEmail {
		v.Email = u.Email
	}
	return v
}

// getUser maps the repository miss onto ErrUserNotFound.
func getUser(ctx context.Context, repo repository.UserRepository, id primitive.ObjectID) (*domain.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
