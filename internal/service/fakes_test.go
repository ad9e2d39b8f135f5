package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/storage"
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// In-memory fakes of the repository interfaces. They copy values in and
// out so callers cannot mutate stored state by accident.

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return user.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) update(id primitive.ObjectID, match func(*domain.User) bool, apply func(*domain.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || (match != nil && !match(&u)) {
		return repository.ErrNotFound
	}
	apply(&u)
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateName(_ context.Context, id primitive.ObjectID, name string) error {
	return f.update(id, nil, func(u *domain.User) { u.Name = name })
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, profile domain.Profile) error {
	return f.update(id, nil, func(u *domain.User) { u.Profile = profile })
}

func (f *fakeUserRepo) ListCoaches(_ context.Context, sport string, limit int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.users {
		if u.Role == domain.RoleCoach && (sport == "" || strings.EqualFold(u.Profile.Sport, sport)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) AddPlayerToCoach(_ context.Context, coachID, playerID primitive.ObjectID) error {
	return f.update(coachID, (*domain.User).IsCoach, func(u *domain.User) {
		if !containsID(u.PlayerIDs, playerID) {
			u.PlayerIDs = append(u.PlayerIDs, playerID)
		}
	})
}

func (f *fakeUserRepo) RemovePlayerFromCoach(_ context.Context, coachID, playerID primitive.ObjectID) error {
	return f.update(coachID, (*domain.User).IsCoach, func(u *domain.User) {
		kept := u.PlayerIDs[:0]
		for _, id := range u.PlayerIDs {
			if id != playerID {
				kept = append(kept, id)
			}
		}
		u.PlayerIDs = kept
	})
}

func (f *fakeUserRepo) SetCoachForPlayer(_ context.Context, playerID, coachID primitive.ObjectID) error {
	return f.update(playerID, func(u *domain.User) bool {
		return u.IsPlayer() && (u.CoachID == nil || *u.CoachID == coachID)
	}, func(u *domain.User) { u.CoachID = &coachID })
}

func (f *fakeUserRepo) ClearCoachForPlayer(_ context.Context, playerID, coachID primitive.ObjectID) error {
	return f.update(playerID, func(u *domain.User) bool { return u.CoachedBy(coachID) },
		func(u *domain.User) { u.CoachID = nil })
}

// --- workouts ---

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[primitive.ObjectID]domain.Workout{}}
}

func (f *fakeWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	f.workouts[w.ID] = *w
	return w.ID, nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (f *fakeWorkoutRepo) byPlayer(playerID primitive.ObjectID) []domain.Workout {
	out := []domain.Workout{}
	for _, w := range f.workouts {
		if w.PlayerID == playerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (f *fakeWorkoutRepo) ListByPlayer(_ context.Context, playerID primitive.ObjectID, page repository.Page) ([]domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page = page.Normalize()
	out := []domain.Workout{}
	for _, w := range f.byPlayer(playerID) {
		if !page.Before.IsZero() && !olderThan(w.Date, w.ID, page) {
			continue
		}
		if len(out) == page.Limit {
			break
		}
		out = append(out, w)
	}
	return out, nil
}

// olderThan reports whether (at, id) sorts after the page cursor in
// newest-first order.
func olderThan(at time.Time, id primitive.ObjectID, page repository.Page) bool {
	if at.Before(page.Before) {
		return true
	}
	return at.Equal(page.Before) && !page.BeforeID.IsZero() && id.Hex() < page.BeforeID.Hex()
}

func (f *fakeWorkoutRepo) ListByPlayerSince(_ context.Context, playerID primitive.ObjectID, since time.Time) ([]domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.byPlayer(playerID)
	out := []domain.Workout{}
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].Date.Before(since) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, w *domain.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.workouts[w.ID]
	if !ok || cur.PlayerID != w.PlayerID {
		return repository.ErrNotFound
	}
	w.UpdatedAt = time.Now().UTC()
	f.workouts[w.ID] = *w
	return nil
}

func (f *fakeWorkoutRepo) SetAISummary(_ context.Context, id primitive.ObjectID, summary string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.AISummary = summary
	f.workouts[id] = w
	return nil
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, id, playerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.PlayerID != playerID {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

// --- uploads ---

type fakeUploadRepo struct {
	mu      sync.Mutex
	uploads map[string]domain.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: map[string]domain.Upload{}}
}

func (f *fakeUploadRepo) Create(_ context.Context, u *domain.Upload) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.uploads[u.S3ObjectKey]; dup {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	u.UploadedAt = time.Now().UTC()
	f.uploads[u.S3ObjectKey] = *u
	return u.ID, nil
}

func (f *fakeUploadRepo) GetByObjectKey(_ context.Context, key string) (*domain.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUploadRepo) Attach(_ context.Context, key string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[key]
	if !ok {
		return repository.ErrNotFound
	}
	if u.AttachedAt != nil {
		return repository.ErrUpdateFailed
	}
	u.AttachedAt = &at
	f.uploads[key] = u
	return nil
}

func (f *fakeUploadRepo) Detach(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[key]
	if !ok {
		return repository.ErrNotFound
	}
	u.AttachedAt = nil
	f.uploads[key] = u
	return nil
}

func (f *fakeUploadRepo) DeleteByObjectKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.uploads[key]; !ok {
		return repository.ErrNotFound
	}
	delete(f.uploads, key)
	return nil
}

// --- invites ---

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[primitive.ObjectID]domain.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: map[primitive.ObjectID]domain.Invite{}}
}

func (f *fakeInviteRepo) Create(_ context.Context, inv *domain.Invite) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv.ID = primitive.NewObjectID()
	inv.CreatedAt = time.Now().UTC()
	f.invites[inv.ID] = *inv
	return inv.ID, nil
}

func (f *fakeInviteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invites[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInviteRepo) FindPending(_ context.Context, coachID primitive.ObjectID, email string) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invites {
		if inv.CoachID == coachID && inv.PlayerEmail == email && inv.Status == domain.InvitePending {
			return &inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeInviteRepo) filter(keep func(domain.Invite) bool) []domain.Invite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Invite{}
	for _, inv := range f.invites {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func (f *fakeInviteRepo) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.Invite, error) {
	return f.filter(func(i domain.Invite) bool { return i.CoachID == coachID }), nil
}

func (f *fakeInviteRepo) ListPendingByEmail(_ context.Context, email string) ([]domain.Invite, error) {
	return f.filter(func(i domain.Invite) bool { return i.PlayerEmail == email && i.Status == domain.InvitePending }), nil
}

func (f *fakeInviteRepo) MarkAccepted(_ context.Context, id, playerID primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invites[id]
	if !ok || inv.Status != domain.InvitePending {
		return repository.ErrUpdateFailed
	}
	inv.Status = domain.InviteAccepted
	inv.PlayerID = &playerID
	inv.RespondedAt = &at
	f.invites[id] = inv
	return nil
}

// --- conversations ---

type fakeConversationRepo struct {
	mu    sync.Mutex
	convs map[primitive.ObjectID]domain.Conversation
	msgs  []domain.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: map[primitive.ObjectID]domain.Conversation{}}
}

func (f *fakeConversationRepo) Create(_ context.Context, c *domain.Conversation) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.convs {
		if existing.PairKey == c.PairKey {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	f.convs[c.ID] = *c
	return c.ID, nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeConversationRepo) FindByParticipants(_ context.Context, ids []primitive.ObjectID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.convs {
		if len(c.ParticipantIDs) == len(ids) && c.ParticipantIDs[0] == ids[0] && c.ParticipantIDs[1] == ids[1] {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeConversationRepo) ListByParticipant(_ context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Conversation{}
	for _, c := range f.convs {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeConversationRepo) TouchLastMessage(_ context.Context, id primitive.ObjectID, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return repository.ErrNotFound
	}
	at, sender := m.CreatedAt, m.SenderID
	c.LastMessage, c.LastMessageAt, c.LastSenderID, c.UpdatedAt = m.Text, &at, &sender, at
	f.convs[id] = c
	return nil
}

func (f *fakeConversationRepo) AddMessage(_ context.Context, m *domain.Message) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.msgs = append(f.msgs, *m)
	return m.ID, nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, convID primitive.ObjectID, page repository.Page) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page = page.Normalize()
	var matched []domain.Message
	for _, m := range f.msgs {
		if m.ConversationID == convID && (page.Before.IsZero() || m.CreatedAt.Before(page.Before)) {
			matched = append(matched, m)
		}
	}
	if len(matched) > page.Limit {
		matched = matched[len(matched)-page.Limit:]
	}
	return append([]domain.Message{}, matched...), nil
}

// --- posts ---

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[primitive.ObjectID]domain.Post
	comments []domain.Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[primitive.ObjectID]domain.Post{}}
}

func (f *fakePostRepo) Create(_ context.Context, p *domain.Post) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.posts[p.ID] = *p
	return p.ID, nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.LikedBy = append([]primitive.ObjectID{}, p.LikedBy...)
	return &p, nil
}

func (f *fakePostRepo) List(_ context.Context, page repository.Page) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page = page.Normalize()
	out := []domain.Post{}
	for _, p := range f.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id, authorID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok || p.AuthorID != authorID {
		return repository.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) Like(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if p.LikedByUser(userID) {
		return false, nil
	}
	p.LikedBy = append(append([]primitive.ObjectID{}, p.LikedBy...), userID)
	p.LikeCount++
	f.posts[id] = p
	return true, nil
}

func (f *fakePostRepo) Unlike(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !p.LikedByUser(userID) {
		return false, nil
	}
	kept := []primitive.ObjectID{}
	for _, l := range p.LikedBy {
		if l != userID {
			kept = append(kept, l)
		}
	}
	p.LikedBy = kept
	p.LikeCount--
	f.posts[id] = p
	return true, nil
}

func (f *fakePostRepo) AddComment(_ context.Context, c *domain.Comment) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[c.PostID]
	if !ok {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	p.CommentCount++
	f.posts[c.PostID] = p
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	f.comments = append(f.comments, *c)
	return c.ID, nil
}

func (f *fakePostRepo) ListComments(_ context.Context, postID primitive.ObjectID, page repository.Page) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Comment{}
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].PostID == postID {
			out = append(out, f.comments[i])
		}
	}
	return out, nil
}

func (f *fakePostRepo) DeleteComments(_ context.Context, postID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}

// --- physique ---

type fakePhysiqueRepo struct {
	mu       sync.Mutex
	analyses []domain.PhysiqueAnalysis
}

func (f *fakePhysiqueRepo) Create(_ context.Context, a *domain.PhysiqueAnalysis) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	f.analyses = append(f.analyses, *a)
	return a.ID, nil
}

func (f *fakePhysiqueRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PhysiqueAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.analyses {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePhysiqueRepo) ListByUser(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.PhysiqueAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.PhysiqueAnalysis{}
	for i := len(f.analyses) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if f.analyses[i].UserID == userID {
			out = append(out, f.analyses[i])
		}
	}
	return out, nil
}

func (f *fakePhysiqueRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.analyses {
		if a.ID == id && a.UserID == userID {
			f.analyses = append(f.analyses[:i], f.analyses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- insights ---

type fakeInsightRepo struct {
	mu       sync.Mutex
	insights []domain.Insight
}

func (f *fakeInsightRepo) Create(_ context.Context, in *domain.Insight) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = primitive.NewObjectID()
	in.CreatedAt = time.Now().UTC()
	f.insights = append(f.insights, *in)
	return in.ID, nil
}

func (f *fakeInsightRepo) ListByUser(_ context.Context, userID primitive.ObjectID, kind domain.InsightKind, limit int) ([]domain.Insight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Insight{}
	for i := len(f.insights) - 1; i >= 0 && len(out) < limit; i-- {
		in := f.insights[i]
		if in.UserID == userID && (kind == "" || in.Kind == kind) {
			out = append(out, in)
		}
	}
	return out, nil
}

// --- infrastructure ---

// fakeTx runs fn directly; it cannot roll back.
type fakeTx struct{ calls int }

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type storedObject struct {
	data        []byte
	contentType string
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storedObject
	deleted []string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]storedObject{}}
}

func (f *fakeStorage) put(key, contentType string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = storedObject{data: data, contentType: contentType}
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/put/" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/get/" + key, nil
}

func (f *fakeStorage) GetObject(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, "", storage.ErrObjectNotFound
	}
	return obj.data, obj.contentType, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev realtime.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

// fakeGenerator answers every request with response. hook, when set,
// runs before answering.
type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	requests []ai.Request
	hook     func()
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.hook != nil {
		f.hook()
	}
	return f.response, f.err
}

// --- environment ---

type testEnv struct {
	users     *fakeUserRepo
	workouts  *fakeWorkoutRepo
	uploads   *fakeUploadRepo
	invites   *fakeInviteRepo
	convs     *fakeConversationRepo
	posts     *fakePostRepo
	physiques *fakePhysiqueRepo
	insights  *fakeInsightRepo
	tx        *fakeTx
	storage   *fakeStorage
	publisher *fakePublisher
	gen       *fakeGenerator
	flows     *ai.Flows
	logger    *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gen := &fakeGenerator{}
	flows, err := ai.NewFlows(gen, nil, 0.3)
	require.NoError(t, err)
	return &testEnv{
		users:     newFakeUserRepo(),
		workouts:  newFakeWorkoutRepo(),
		uploads:   newFakeUploadRepo(),
		invites:   newFakeInviteRepo(),
		convs:     newFakeConversationRepo(),
		posts:     newFakePostRepo(),
		physiques: &fakePhysiqueRepo{},
		insights:  &fakeInsightRepo{},
		tx:        &fakeTx{},
		storage:   newFakeStorage(),
		publisher: &fakePublisher{},
		gen:       gen,
		flows:     flows,
		logger:    zaptest.NewLogger(t),
	}
}

func (e *testEnv) addUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Role: role}
	_, err := e.users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (e *testEnv) reload(t *testing.T, id primitive.ObjectID) *domain.User {
	t.Helper()
	u, err := e.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// link makes coach the coach of player in the fake store.
func (e *testEnv) link(t *testing.T, coach, player *domain.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.users.SetCoachForPlayer(ctx, player.ID, coach.ID))
	require.NoError(t, e.users.AddPlayerToCoach(ctx, coach.ID, player.ID))
}
