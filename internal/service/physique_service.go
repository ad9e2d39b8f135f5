package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultPhysiqueList = 20

type PhysiqueService interface {
	RequestUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	Analyze(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.PhysiqueAnalysis, error)
	List(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error)
	Delete(ctx context.Context, userID, analysisID primitive.ObjectID) error
}

type physiqueService struct {
	userRepo     repository.UserRepository
	physiqueRepo repository.PhysiqueRepository
	uploads      *uploadManager
	flows        *ai.Flows
	logger       *zap.Logger
}

func NewPhysiqueService(
	userRepo repository.UserRepository,
	physiqueRepo repository.PhysiqueRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	flows *ai.Flows,
	logger *zap.Logger,
) PhysiqueService {
	return &physiqueService{
		userRepo:     userRepo,
		physiqueRepo: physiqueRepo,
		uploads:      newUploadManager(uploadRepo, fileStorage, logger),
		flows:        flows,
		logger:       logger,
	}
}

func (s *physiqueService) RequestUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	return s.uploads.RequestURL(ctx, userID, domain.PurposePhysique, contentType)
}

func (s *physiqueService) Analyze(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.PhysiqueAnalysis, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	upload, err := s.uploads.Resolve(ctx, userID, domain.PurposePhysique, objectKey)
	if err != nil {
		return nil, err
	}
	media, err := s.uploads.Fetch(ctx, upload)
	if err != nil {
		return nil, err
	}

	rating, err := s.flows.RatePhysique.Run(ctx, ai.PhysiqueInput{Athlete: athleteOf(user)}, media)
	if err != nil {
		return nil, err
	}

	analysis := &domain.PhysiqueAnalysis{
		UserID:       userID,
		ImageKey:     upload.S3ObjectKey,
		OverallScore: rating.OverallScore,
		Muscularity:  rating.Muscularity,
		Symmetry:     rating.Symmetry,
		Conditioning: rating.Conditioning,
		Strengths:    nonNil(rating.Strengths),
		Improvements: nonNil(rating.Improvements),
		Summary:      rating.Summary,
	}
	if err := s.uploads.Claim(ctx, upload); err != nil {
		return nil, err
	}
	if _, err := s.physiqueRepo.Create(ctx, analysis); err != nil {
		s.uploads.Release(ctx, upload.S3ObjectKey)
		return nil, err
	}
	return analysis, nil
}

func (s *physiqueService) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error) {
	if limit <= 0 || limit > maxHistory {
		limit = defaultPhysiqueList
	}
	return s.physiqueRepo.ListByUser(ctx, userID, limit)
}

func (s *physiqueService) Delete(ctx context.Context, userID, analysisID primitive.ObjectID) error {
	analysis, err := s.physiqueRepo.GetByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnalysisNotFound
		}
		return err
	}
	if analysis.UserID != userID {
		return ErrAnalysisNotFound
	}
	if err := s.physiqueRepo.Delete(ctx, analysisID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnalysisNotFound
		}
		return err
	}
	s.uploads.Remove(ctx, analysis.ImageKey)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
