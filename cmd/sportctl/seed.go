package main

import (
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository/mongo"
	"alcyxob/sportlink/internal/service"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample coaches, players and activity",
	Long: `Create a sample coach with two players, their workouts, feed posts
and a conversation. Users that already exist (by email) are skipped
together with everything that would be created for them.

Accepting invites runs in a transaction, so MongoDB must be a replica set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newSeeder(app, seedPassword).run(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "sportlink123", "password for every seeded account")
}

type sampleUser struct {
	name     string
	email    string
	role     domain.Role
	sport    string
	position string
	level    string
	workouts []service.WorkoutInput
	post     string
}

// sampleUsers lists the coach first; every other entry is a player the
// coach invites.
func sampleUsers() []sampleUser {
	return []sampleUser{
		{
			name: "Dana Coach", email: "coach@sportlink.test", role: domain.RoleCoach,
			sport: "football", level: "pro",
			post: "Pre-season starts Monday. Bring your running shoes.",
		},
		{
			name: "Alex Player", email: "alex@sportlink.test", role: domain.RolePlayer,
			sport: "football", position: "midfielder", level: "intermediate",
			workouts: []service.WorkoutInput{
				{Title: "Tempo run", Type: domain.WorkoutCardio, DurationMin: 45, Intensity: 6, CaloriesBurned: 480},
				{Title: "Lower body", Type: domain.WorkoutStrength, DurationMin: 60, Intensity: 8, Exercises: []domain.ExerciseEntry{
					{Name: "Back squat", Sets: 5, Reps: 5, WeightKg: 90},
					{Name: "Romanian deadlift", Sets: 3, Reps: 8, WeightKg: 70},
				}},
				{Title: "Small-sided game", Type: domain.WorkoutSport, DurationMin: 75, Intensity: 9},
			},
			post: "New 5-rep max on squats today.",
		},
		{
			name: "Sam Player", email: "sam@sportlink.test", role: domain.RolePlayer,
			sport: "football", position: "goalkeeper", level: "beginner",
			workouts: []service.WorkoutInput{
				{Title: "Sprint intervals", Type: domain.WorkoutHIIT, DurationMin: 30, Intensity: 9},
				{Title: "Hip mobility", Type: domain.WorkoutMobility, DurationMin: 20, Intensity: 3},
			},
		},
	}
}

type seeder struct {
	out         io.Writer
	password    string
	logger      *zap.Logger
	auth        service.AuthService
	profiles    service.ProfileService
	coaches     service.CoachService
	workouts    service.WorkoutService
	feed        service.FeedService
	messaging   service.MessagingService
	userByEmail func(ctx context.Context, email string) (*domain.User, error)
}

// newSeeder wires the services without storage or AI; seeding never
// uploads files or calls the model.
func newSeeder(e env, password string) *seeder {
	userRepo := mongo.NewMongoUserRepository(e.db)
	workoutRepo := mongo.NewMongoWorkoutRepository(e.db)
	uploadRepo := mongo.NewMongoUploadRepository(e.db)
	events := realtime.NewMemoryBroker()

	return &seeder{
		password: password,
		logger:   e.logger,
		auth:     service.NewAuthService(userRepo, seedSecret(e), e.cfg.JWT.Expiration, e.logger),
		profiles: service.NewProfileService(userRepo, uploadRepo, nil, e.logger),
		coaches: service.NewCoachService(userRepo, mongo.NewMongoInviteRepository(e.db), workoutRepo,
			mongo.NewTxRunner(e.client), events, e.logger),
		workouts:    service.NewWorkoutService(userRepo, workoutRepo, uploadRepo, nil, nil, e.logger),
		feed:        service.NewFeedService(userRepo, mongo.NewMongoPostRepository(e.db), uploadRepo, nil, events, e.logger),
		messaging:   service.NewMessagingService(userRepo, mongo.NewMongoConversationRepository(e.db), events, e.logger),
		userByEmail: userRepo.GetByEmail,
	}
}

// seedSecret is only used to satisfy the auth service; seeding never
// issues tokens.
func seedSecret(e env) string {
	if e.cfg.JWT.Secret != "" {
		return e.cfg.JWT.Secret
	}
	return "sportctl-seed"
}

func (s *seeder) run(ctx context.Context, out io.Writer) error {
	s.out = out
	samples := sampleUsers()

	users := make([]*domain.User, len(samples))
	created := make([]bool, len(samples))
	for i, sample := range samples {
		user, isNew, err := s.ensureUser(ctx, sample)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", sample.email, err)
		}
		users[i], created[i] = user, isNew
	}

	coach := users[0]
	for i := 1; i < len(samples); i++ {
		if !created[i] {
			continue
		}
		if err := s.linkPlayer(ctx, coach.ID, users[i]); err != nil {
			return fmt.Errorf("link %s: %w", samples[i].email, err)
		}
	}

	for i, sample := range samples {
		if !created[i] {
			continue
		}
		if err := s.seedActivity(ctx, users[i].ID, sample); err != nil {
			return fmt.Errorf("seed activity for %s: %w", sample.email, err)
		}
	}

	if created[0] && len(users) > 1 {
		if err := s.seedConversation(ctx, coach.ID, users[1].ID); err != nil {
			return fmt.Errorf("seed conversation: %w", err)
		}
	}
	fmt.Fprintln(s.out, "Seeding finished")
	return nil
}

func (s *seeder) ensureUser(ctx context.Context, sample sampleUser) (*domain.User, bool, error) {
	user, err := s.auth.Register(ctx, service.RegisterInput{
		Name:     sample.name,
		Email:    sample.email,
		Password: s.password,
		Role:     sample.role,
	})
	if errors.Is(err, service.ErrUserAlreadyExists) {
		existing, err := s.userByEmail(ctx, service.NormalizeEmail(sample.email))
		if err != nil {
			return nil, false, err
		}
		fmt.Fprintf(s.out, "skip   %s (exists)\n", sample.email)
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	upd := service.ProfileUpdate{Sport: &sample.sport, Experience: &sample.level}
	if sample.position != "" {
		upd.Position = &sample.position
	}
	if _, err := s.profiles.UpdateProfile(ctx, user.ID, upd); err != nil {
		return nil, false, err
	}
	fmt.Fprintf(s.out, "create %s (%s)\n", sample.email, sample.role)
	return user, true, nil
}

func (s *seeder) linkPlayer(ctx context.Context, coachID primitive.ObjectID, player *domain.User) error {
	invite, err := s.coaches.CreateInvite(ctx, coachID, player.Email)
	if errors.Is(err, service.ErrInviteExists) || errors.Is(err, service.ErrAlreadyLinked) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.coaches.AcceptInvite(ctx, player.ID, invite.ID); err != nil {
		if errors.Is(err, service.ErrPlayerHasCoach) {
			s.logger.Warn("player already has a coach", zap.String("email", player.Email))
			return nil
		}
		return err
	}
	fmt.Fprintf(s.out, "link   %s\n", player.Email)
	return nil
}

// seedActivity logs the sample workouts on consecutive past days and
// publishes the sample post.
func (s *seeder) seedActivity(ctx context.Context, userID primitive.ObjectID, sample sampleUser) error {
	today := time.Now().UTC().Truncate(24 * time.Hour).Add(9 * time.Hour)
	for i, in := range sample.workouts {
		in.Date = today.AddDate(0, 0, -(len(sample.workouts) - 1 - i))
		if _, err := s.workouts.LogWorkout(ctx, userID, in); err != nil {
			return err
		}
	}
	if sample.post != "" {
		if _, err := s.feed.CreatePost(ctx, userID, sample.post, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedConversation(ctx context.Context, coachID, playerID primitive.ObjectID) error {
	conv, err := s.messaging.StartConversation(ctx, coachID, playerID)
	if err != nil {
		return err
	}
	_, err = s.messaging.SendMessage(ctx, coachID, conv.ID, "Welcome to the squad! Log every session here so I can follow along.")
	return err
}
