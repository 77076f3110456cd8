package store

import (
	"context"
	"errors"

	"food-share-api/models"

	"gorm.io/gorm"
)

// PostStore reads and writes food posts and their status history.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts the post and its initial history row in one transaction.
func (s *PostStore) Create(ctx context.Context, post *models.FoodPost, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostStatusHistory{
			PostID:    post.ID,
			ToStatus:  post.Status,
			ChangedBy: post.DonorID,
			Note:      note,
		}).Error
	})
}

func (s *PostStore) FindByID(ctx context.Context, id uint) (models.FoodPost, error) {
	var post models.FoodPost
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FoodPost{}, ErrNotFound
	}
	return post, err
}

func (s *PostStore) ListByDonor(ctx context.Context, donorID uint) ([]models.FoodPost, error) {
	var posts []models.FoodPost
	err := s.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at desc, id desc").
		Find(&posts).Error
	return posts, err
}

func (s *PostStore) ListByStatus(ctx context.Context, status models.PostStatus) ([]models.FoodPost, error) {
	var posts []models.FoodPost
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc, id desc").
		Find(&posts).Error
	return posts, err
}

// ListAssigned returns posts in status accepted by the given volunteer.
func (s *PostStore) ListAssigned(ctx context.Context, volunteerID uint, status models.PostStatus) ([]models.FoodPost, error) {
	var posts []models.FoodPost
	err := s.db.WithContext(ctx).
		Where("volunteer_id = ? AND status = ?", volunteerID, status).
		Order("updated_at desc, id desc").
		Find(&posts).Error
	return posts, err
}

func (s *PostStore) List(ctx context.Context) ([]models.FoodPost, error) {
	var posts []models.FoodPost
	err := s.db.WithContext(ctx).Order("id asc").Find(&posts).Error
	return posts, err
}

// CountByStatus groups posts by status in a single query so the per-status
// counts always add up to the total.
func (s *PostStore) CountByStatus(ctx context.Context) (map[models.PostStatus]int64, error) {
	var rows []struct {
		Status models.PostStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.FoodPost{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.PostStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// StatusChange is a compare-and-set on a post's status.
type StatusChange struct {
	PostID    uint
	From      models.PostStatus
	To        models.PostStatus
	ChangedBy uint
	Note      string
	// Extra columns written together with the status (volunteer_id, receiver_id).
	Set map[string]interface{}
}

// Transition applies change only if the post is still in change.From.
// It reports false when no row matched, meaning another request won or the
// post is in a different state.
func (s *PostStore) Transition(ctx context.Context, change StatusChange) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": change.To}
		for k, v := range change.Set {
			updates[k] = v
		}
		res := tx.Model(&models.FoodPost{}).
			Where("id = ? AND status = ?", change.PostID, change.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Create(&models.PostStatusHistory{
			PostID:     change.PostID,
			FromStatus: change.From,
			ToStatus:   change.To,
			ChangedBy:  change.ChangedBy,
			Note:       change.Note,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *PostStore) History(ctx context.Context, postID uint) ([]models.PostStatusHistory, error) {
	var history []models.PostStatusHistory
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&history).Error
	return history, err
}
