package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"food-share-api/metrics"
	"food-share-api/models"
	"food-share-api/statemachine"
	"food-share-api/store"
)

// PostRepository is the part of the record store the lifecycle service needs.
type PostRepository interface {
	Create(ctx context.Context, post *models.FoodPost, note string) error
	FindByID(ctx context.Context, id uint) (models.FoodPost, error)
	ListByDonor(ctx context.Context, donorID uint) ([]models.FoodPost, error)
	ListByStatus(ctx context.Context, status models.PostStatus) ([]models.FoodPost, error)
	ListAssigned(ctx context.Context, volunteerID uint, status models.PostStatus) ([]models.FoodPost, error)
	List(ctx context.Context) ([]models.FoodPost, error)
	CountByStatus(ctx context.Context) (map[models.PostStatus]int64, error)
	Transition(ctx context.Context, change store.StatusChange) (bool, error)
	History(ctx context.Context, postID uint) ([]models.PostStatusHistory, error)
}

// UserDirectory lists users for the admin dashboard.
type UserDirectory interface {
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)
}

// NewPostInput is a donor's listing after binding.
type NewPostInput struct {
	FoodName string
	Quantity string
	Location string
	Image    string
	Price    *int
}

// TransitionError carries the state a rejected transition found the post in.
type TransitionError struct {
	PostID  uint
	Action  statemachine.Action
	Current models.PostStatus
	Valid   []models.PostStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s post %d in status %s", e.Action, e.PostID, e.Current)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Summary is the admin dashboard aggregate. TotalPosts equals the sum of
// PostsByStatus and TotalUsers equals len(Users); the admin is in neither.
type Summary struct {
	Variant       statemachine.Variant        `json:"variant"`
	TotalUsers    int64                       `json:"total_users"`
	UsersByRole   map[models.UserRole]int64   `json:"users_by_role"`
	TotalPosts    int64                       `json:"total_posts"`
	PostsByStatus map[models.PostStatus]int64 `json:"posts_by_status"`
	Users         []models.User               `json:"users"`
	Posts         []models.FoodPost           `json:"posts"`
}

// LifecycleService owns food posts and moves them through the state machine.
type LifecycleService struct {
	posts   PostRepository
	users   UserDirectory
	machine *statemachine.Machine
	logger  *slog.Logger
}

func NewLifecycleService(posts PostRepository, users UserDirectory, machine *statemachine.Machine, logger *slog.Logger) *LifecycleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleService{posts: posts, users: users, machine: machine, logger: logger}
}

// Machine exposes the active state machine.
func (s *LifecycleService) Machine() *statemachine.Machine { return s.machine }

// CreatePost lists surplus food for donorID in status Pending.
func (s *LifecycleService) CreatePost(ctx context.Context, donorID uint, in NewPostInput) (models.FoodPost, error) {
	foodName := strings.TrimSpace(in.FoodName)
	quantity := strings.TrimSpace(in.Quantity)
	location := strings.TrimSpace(in.Location)
	if foodName == "" || quantity == "" || location == "" {
		return models.FoodPost{}, fmt.Errorf("%w: food_name, quantity and location are required", ErrInvalidInput)
	}
	if in.Price != nil && *in.Price < 0 {
		return models.FoodPost{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	post := models.FoodPost{
		FoodName: foodName,
		Quantity: quantity,
		Location: location,
		Image:    in.Image,
		Price:    in.Price,
		Status:   models.StatusPending,
		DonorID:  donorID,
	}
	if err := s.posts.Create(ctx, &post, "listed by donor"); err != nil {
		return models.FoodPost{}, fmt.Errorf("create post: %w", err)
	}
	metrics.PostsCreatedTotal.Inc()
	s.logger.Info("food post created", slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("donor_id", uint64(donorID)))
	return post, nil
}

// Accept moves a Pending post to the variant's next state and assigns the volunteer.
func (s *LifecycleService) Accept(ctx context.Context, postID, volunteerID uint) (models.FoodPost, error) {
	return s.apply(ctx, statemachine.ActionAccept, postID, volunteerID, models.RoleVolunteer)
}

// MarkCollected moves a Picked post to Collected. Only the accepting volunteer may do it.
func (s *LifecycleService) MarkCollected(ctx context.Context, postID, volunteerID uint) (models.FoodPost, error) {
	return s.apply(ctx, statemachine.ActionCollected, postID, volunteerID, models.RoleVolunteer)
}

// Book moves a Collected post to Booked and records the receiver.
func (s *LifecycleService) Book(ctx context.Context, postID, receiverID uint) (models.FoodPost, error) {
	return s.apply(ctx, statemachine.ActionBook, postID, receiverID, models.RoleReceiver)
}

func (s *LifecycleService) apply(ctx context.Context, action statemachine.Action, postID, actorID uint, actor models.UserRole) (models.FoodPost, error) {
	step, ok := s.machine.Step(action, actor)
	if !ok {
		metrics.PostTransitionsTotal.WithLabelValues(string(action), "unsupported").Inc()
		return models.FoodPost{}, fmt.Errorf("%w: %s is not part of the %s lifecycle", ErrInvalidTransition, action, s.machine.Variant())
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.FoodPost{}, ErrNotFound
		}
		return models.FoodPost{}, fmt.Errorf("load post: %w", err)
	}
	if post.Status != step.From {
		metrics.PostTransitionsTotal.WithLabelValues(string(action), "rejected").Inc()
		return post, s.transitionError(action, post)
	}

	change := store.StatusChange{
		PostID:    post.ID,
		From:      step.From,
		To:        step.To,
		ChangedBy: actorID,
		Note:      fmt.Sprintf("%s by %s", action, actor),
	}
	switch action {
	case statemachine.ActionAccept:
		change.Set = map[string]interface{}{"volunteer_id": actorID}
	case statemachine.ActionCollected:
		if post.VolunteerID == nil || *post.VolunteerID != actorID {
			metrics.PostTransitionsTotal.WithLabelValues(string(action), "rejected").Inc()
			return post, ErrNotAssignee
		}
	case statemachine.ActionBook:
		change.Set = map[string]interface{}{"receiver_id": actorID}
	}

	applied, err := s.posts.Transition(ctx, change)
	if err != nil {
		return models.FoodPost{}, fmt.Errorf("update post status: %w", err)
	}
	updated, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return models.FoodPost{}, fmt.Errorf("reload post: %w", err)
	}
	if !applied {
		// Another request moved the post between our read and the conditional update.
		metrics.PostTransitionsTotal.WithLabelValues(string(action), "conflict").Inc()
		return updated, s.transitionError(action, updated)
	}

	metrics.PostTransitionsTotal.WithLabelValues(string(action), "applied").Inc()
	s.logger.Info("post status changed",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("from", string(step.From)),
		slog.String("to", string(step.To)),
		slog.Uint64("actor_id", uint64(actorID)),
	)
	return updated, nil
}

func (s *LifecycleService) transitionError(action statemachine.Action, post models.FoodPost) error {
	return &TransitionError{
		PostID:  post.ID,
		Action:  action,
		Current: post.Status,
		Valid:   s.machine.ValidTransitionsFrom(post.Status),
	}
}

// DonorPosts lists every post the donor created.
func (s *LifecycleService) DonorPosts(ctx context.Context, donorID uint) ([]models.FoodPost, error) {
	return s.posts.ListByDonor(ctx, donorID)
}

// VolunteerPosts lists posts waiting for a volunteer. In the pickup variant the
// volunteer's own Picked posts are included so they can be marked collected.
func (s *LifecycleService) VolunteerPosts(ctx context.Context, volunteerID uint) ([]models.FoodPost, error) {
	posts, err := s.posts.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}
	if !s.machine.Supports(statemachine.ActionCollected) {
		return posts, nil
	}
	picked, err := s.posts.ListAssigned(ctx, volunteerID, models.StatusPicked)
	if err != nil {
		return nil, err
	}
	return append(picked, posts...), nil
}

// ReceiverPosts lists collected food available to book.
func (s *LifecycleService) ReceiverPosts(ctx context.Context) ([]models.FoodPost, error) {
	return s.posts.ListByStatus(ctx, models.StatusCollected)
}

// History returns the status trail of a post.
func (s *LifecycleService) History(ctx context.Context, postID uint) ([]models.PostStatusHistory, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.posts.History(ctx, postID)
}

// Summary builds the admin dashboard by scanning users and posts.
func (s *LifecycleService) Summary(ctx context.Context) (Summary, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count users: %w", err)
	}
	byStatus, err := s.posts.CountByStatus(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count posts: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list users: %w", err)
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list posts: %w", err)
	}

	sum := Summary{
		Variant:       s.machine.Variant(),
		UsersByRole:   map[models.UserRole]int64{},
		PostsByStatus: map[models.PostStatus]int64{},
		Users:         []models.User{},
		Posts:         posts,
	}
	// Admins run the dashboard; they are not counted or listed as members.
	for _, u := range users {
		if u.Role.IsSelfService() {
			sum.Users = append(sum.Users, u)
		}
	}
	for _, role := range models.SelfServiceRoles {
		sum.UsersByRole[role] = byRole[role]
		sum.TotalUsers += byRole[role]
	}
	for _, status := range s.machine.Statuses() {
		sum.PostsByStatus[status] = 0
	}
	for status, n := range byStatus {
		sum.PostsByStatus[status] = n
		sum.TotalPosts += n
	}
	return sum, nil
}
