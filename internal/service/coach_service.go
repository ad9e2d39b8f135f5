package service

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrInviteExists          = errors.New("a pending invite for this email already exists")
	ErrInviteCoachEmail      = errors.New("this email belongs to a coach")
	ErrInviteSelf            = errors.New("cannot invite yourself")
	ErrAlreadyLinked         = errors.New("player is already on your roster")
	ErrInviteAlreadyAccepted = errors.New("invite has already been accepted")
	ErrInviteWrongUser       = errors.New("invite was sent to a different email")
	ErrPlayerHasCoach        = errors.New("player already has a coach")
	ErrPlayerNotOnRoster     = errors.New("player is not on your roster")
)

type CoachService interface {
	// Invites
	CreateInvite(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error)
	ListSentInvites(ctx context.Context, coachID primitive.ObjectID) ([]domain.Invite, error)
	ListMyInvites(ctx context.Context, playerID primitive.ObjectID) ([]domain.Invite, error)
	AcceptInvite(ctx context.Context, playerID, inviteID primitive.ObjectID) (*domain.Invite, error)

	// Roster
	ListRoster(ctx context.Context, coachID primitive.ObjectID) ([]ProfileView, error)
	ListPlayerWorkouts(ctx context.Context, coachID, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error)
	RemovePlayer(ctx context.Context, coachID, playerID primitive.ObjectID) error

	// ManagedPlayer returns the player if coachID manages them.
	ManagedPlayer(ctx context.Context, coachID, playerID primitive.ObjectID) (*domain.User, error)
}

type coachService struct {
	userRepo    repository.UserRepository
	inviteRepo  repository.InviteRepository
	workoutRepo repository.WorkoutRepository
	tx          repository.TxRunner
	events      notifier
	logger      *zap.Logger
}

func NewCoachService(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	workoutRepo repository.WorkoutRepository,
	tx repository.TxRunner,
	publisher realtime.Publisher,
	logger *zap.Logger,
) CoachService {
	return &coachService{
		userRepo:    userRepo,
		inviteRepo:  inviteRepo,
		workoutRepo: workoutRepo,
		tx:          tx,
		events:      notifier{publisher: publisher, logger: logger},
		logger:      logger,
	}
}

func (s *coachService) CreateInvite(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error) {
	email = NormalizeEmail(email)
	if inputValidator.Var(email, "required,email") != nil {
		return nil, invalid("a valid email is required")
	}

	coach, err := getUser(ctx, s.userRepo, coachID)
	if err != nil {
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	if coach.Email == email {
		return nil, ErrInviteSelf
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		invitee = nil
	case err != nil:
		return nil, err
	case invitee.IsCoach():
		return nil, ErrInviteCoachEmail
	case invitee.CoachedBy(coachID):
		return nil, ErrAlreadyLinked
	}

	if _, err := s.inviteRepo.FindPending(ctx, coachID, email); err == nil {
		return nil, ErrInviteExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	invite := &domain.Invite{
		CoachID:     coachID,
		CoachName:   coach.Name,
		PlayerEmail: email,
		Status:      domain.InvitePending,
	}
	if _, err := s.inviteRepo.Create(ctx, invite); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrInviteExists
		}
		return nil, err
	}

	if invitee != nil {
		s.events.notify(ctx, realtime.UserTopic(invitee.ID), realtime.TypeInviteCreated, invite)
	}
	return invite, nil
}

func (s *coachService) ListSentInvites(ctx context.Context, coachID primitive.ObjectID) ([]domain.Invite, error) {
	return s.inviteRepo.ListByCoach(ctx, coachID)
}

func (s *coachService) ListMyInvites(ctx context.Context, playerID primitive.ObjectID) ([]domain.Invite, error) {
	player, err := getUser(ctx, s.userRepo, playerID)
	if err != nil {
		return nil, err
	}
	return s.inviteRepo.ListPendingByEmail(ctx, player.Email)
}

// AcceptInvite links player and coach. The invite status, the player's
// coachId and the coach's roster change in one transaction.
func (s *coachService) AcceptInvite(ctx context.Context, playerID, inviteID primitive.ObjectID) (*domain.Invite, error) {
	player, err := getUser(ctx, s.userRepo, playerID)
	if err != nil {
		return nil, err
	}
	if !player.IsPlayer() {
		return nil, ErrForbidden
	}

	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.PlayerEmail != player.Email {
		return nil, ErrInviteWrongUser
	}
	if invite.Status == domain.InviteAccepted {
		return nil, ErrInviteAlreadyAccepted
	}
	if player.CoachID != nil && *player.CoachID != invite.CoachID {
		return nil, ErrPlayerHasCoach
	}

	now := time.Now().UTC()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.inviteRepo.MarkAccepted(ctx, invite.ID, playerID, now); err != nil {
			if errors.Is(err, repository.ErrUpdateFailed) {
				return ErrInviteAlreadyAccepted
			}
			return err
		}
		if err := s.userRepo.SetCoachForPlayer(ctx, playerID, invite.CoachID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// another coach got there first
				return ErrPlayerHasCoach
			}
			return err
		}
		if err := s.userRepo.AddPlayerToCoach(ctx, invite.CoachID, playerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invite.Status = domain.InviteAccepted
	invite.PlayerID = &playerID
	invite.RespondedAt = &now

	s.logger.Info("invite accepted",
		zap.String("invite_id", invite.ID.Hex()),
		zap.String("coach_id", invite.CoachID.Hex()),
		zap.String("player_id", playerID.Hex()),
	)
	s.events.notify(ctx, realtime.UserTopic(invite.CoachID), realtime.TypeInviteAccepted, invite)
	return invite, nil
}

func (s *coachService) ListRoster(ctx context.Context, coachID primitive.ObjectID) ([]ProfileView, error) {
	coach, err := getUser(ctx, s.userRepo, coachID)
	if err != nil {
		return nil, err
	}
	players, err := s.userRepo.GetByIDs(ctx, coach.PlayerIDs)
	if err != nil {
		return nil, err
	}
	roster := make([]ProfileView, 0, len(players))
	for _, p := range players {
		roster = append(roster, ProfileView{
			ID:      p.ID,
			Name:    p.Name,
			Email:   p.Email,
			Role:    p.Role,
			Profile: p.Profile,
			CoachID: p.CoachID,
		})
	}
	return roster, nil
}

func (s *coachService) ManagedPlayer(ctx context.Context, coachID, playerID primitive.ObjectID) (*domain.User, error) {
	player, err := getUser(ctx, s.userRepo, playerID)
	if err != nil {
		return nil, err
	}
	if !player.CoachedBy(coachID) {
		return nil, ErrPlayerNotOnRoster
	}
	return player, nil
}

func (s *coachService) ListPlayerWorkouts(ctx context.Context, coachID, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	if _, err := s.ManagedPlayer(ctx, coachID, playerID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListByPlayer(ctx, playerID, page)
}

func (s *coachService) RemovePlayer(ctx context.Context, coachID, playerID primitive.ObjectID) error {
	if _, err := s.ManagedPlayer(ctx, coachID, playerID); err != nil {
		return err
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.ClearCoachForPlayer(ctx, playerID, coachID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlayerNotOnRoster
			}
			return err
		}
		return s.userRepo.RemovePlayerFromCoach(ctx, coachID, playerID)
	})
}
