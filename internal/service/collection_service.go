package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"tracker_collection/db"
	"tracker_collection/internal/repository"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"
	"tracker_collection/pkg/response"
)

type ICollectionService interface {
	UpsertEntry(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType, status model.StatusCode, rating *float64, notes string) (*model.CollectionEntry, bool, error)
	AddToCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType, req *model.UpsertCollectionReq) (*model.CollectionEntry, error)
	RemoveFromCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType) error
	GetUserCollection(ctx context.Context, userId int64, mediaType model.MediaType, status string, publicOnly bool, page int, limit int) (*model.CollectionListRes, error)
	CheckInCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType) (*model.InCollectionRes, error)
	GetRatingDistribution(ctx context.Context, userId int64, mediaType model.MediaType) ([]model.RatingBucket, error)
	GetCollectionSummary(ctx context.Context, userId int64, publicOnly bool) ([]model.StatusCount, error)
}

var (
	ErrMediaNotFound = errors.New(response.MediaNotFound)
	ErrEntryNotFound = errors.New(response.CollectionNotFound)
	ErrInvalidRating = errors.New(response.InvalidRating)
	ErrInvalidStatus = errors.New(response.InvalidStatus)
)

type CollectionService struct {
	collectionRepo repository.ICollectionRepository
	catalogRepo    repository.ICatalogRepository
}

func NewCollectionService(collectionRepo repository.ICollectionRepository, catalogRepo repository.ICatalogRepository) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		catalogRepo:    catalogRepo,
	}
}

//------------------------------------------
//------------------------------------------

// UpsertEntry is the single write primitive for collection entries, "add" and
// "change status" are the same operation. A nil rating or empty notes means
// "leave the stored value alone", so imported items never wipe user-entered
// data. Two racing creates for the same (user, media) are settled
// optimistically, the loser's unique violation is retried as an update on the
// winner's row (last writer wins). Callers own cache invalidation.
func (s *CollectionService) UpsertEntry(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType, status model.StatusCode, rating *float64, notes string) (*model.CollectionEntry, bool, error) {
	if err := validateRating(rating); err != nil {
		return nil, false, err
	}

	existing, err := s.collectionRepo.GetEntry(userId, mediaId, mediaType)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		applyEntryChanges(existing, status, rating, notes)
		if err := s.collectionRepo.UpdateEntry(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	entry := &model.CollectionEntry{
		UserId:     userId,
		MediaId:    mediaId,
		MediaType:  string(mediaType),
		StatusCode: int(status),
		Rating:     rating,
		Notes:      notes,
		IsPublic:   true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	err = s.collectionRepo.CreateEntry(entry)
	if err != nil {
		if db.IsUniqueConstraintError(err) {
			// lost the create race, the winner's row is the one to update
			winner, getErr := s.collectionRepo.GetEntry(userId, mediaId, mediaType)
			if getErr != nil {
				return nil, false, getErr
			}
			if winner == nil {
				return nil, false, err
			}
			applyEntryChanges(winner, status, rating, notes)
			if err := s.collectionRepo.UpdateEntry(winner); err != nil {
				return nil, false, err
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	s.bumpPopularity(mediaType, mediaId, 1)

	return entry, true, nil
}

func (s *CollectionService) AddToCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType, req *model.UpsertCollectionReq) (*model.CollectionEntry, error) {
	status, ok := model.StatusCodeFromName(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	media, err := s.catalogRepo.GetById(mediaType, mediaId)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrMediaNotFound
	}

	entry, _, err := s.UpsertEntry(ctx, userId, mediaId, mediaType, status, req.Rating, req.Notes)
	if err != nil {
		return nil, err
	}

	if req.IsPublic != nil && entry.IsPublic != *req.IsPublic {
		entry.IsPublic = *req.IsPublic
		if err := s.collectionRepo.UpdateEntry(entry); err != nil {
			return nil, err
		}
	}

	InvalidateUserCollectionCache(userId)

	return entry, nil
}

func (s *CollectionService) RemoveFromCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType) error {
	affected, err := s.collectionRepo.DeleteEntry(userId, mediaId, mediaType)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	s.bumpPopularity(mediaType, mediaId, -1)
	InvalidateUserCollectionCache(userId)

	return nil
}

//------------------------------------------
//------------------------------------------

func (s *CollectionService) GetUserCollection(ctx context.Context, userId int64, mediaType model.MediaType, status string, publicOnly bool, page int, limit int) (*model.CollectionListRes, error) {
	statusCode := 0
	if status != "" {
		code, ok := model.StatusCodeFromName(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		statusCode = int(code)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 24
	}

	cacheKey := collectionListCacheKey(userId, mediaType, statusCode, publicOnly, page, limit)
	if cached, _ := getCachedCollectionList(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	items, total, err := s.collectionRepo.GetUserEntries(userId, mediaType, statusCode, publicOnly, page, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Status = model.StatusCode(items[i].StatusCode).Name()
	}

	result := &model.CollectionListRes{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
	setCachedCollectionList(ctx, cacheKey, result)

	return result, nil
}

func (s *CollectionService) CheckInCollection(ctx context.Context, userId int64, mediaId int64, mediaType model.MediaType) (*model.InCollectionRes, error) {
	cacheKey := inCollectionCacheKey(userId, mediaType, mediaId)
	if cached, _ := getCachedInCollection(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	entry, err := s.collectionRepo.GetEntry(userId, mediaId, mediaType)
	if err != nil {
		return nil, err
	}

	result := &model.InCollectionRes{
		InCollection: entry != nil,
		Entry:        entry,
	}
	setCachedInCollection(ctx, cacheKey, result)

	return result, nil
}

func (s *CollectionService) GetRatingDistribution(ctx context.Context, userId int64, mediaType model.MediaType) ([]model.RatingBucket, error) {
	cacheKey := ratingDistributionCacheKey(userId, mediaType)
	if cached, _ := getCachedRatingDistribution(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	buckets, err := s.collectionRepo.GetRatingDistribution(userId, mediaType)
	if err != nil {
		return nil, err
	}
	setCachedRatingDistribution(ctx, cacheKey, buckets)

	return buckets, nil
}

func (s *CollectionService) GetCollectionSummary(ctx context.Context, userId int64, publicOnly bool) ([]model.StatusCount, error) {
	cacheKey := userCollectionsCacheKey(userId, publicOnly)
	if cached, _ := getCachedStatusCounts(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	counts, err := s.collectionRepo.CountByStatus(userId, publicOnly)
	if err != nil {
		return nil, err
	}
	setCachedStatusCounts(ctx, cacheKey, counts)

	return counts, nil
}

//------------------------------------------
//------------------------------------------

// bumpPopularity keeps the catalog's popularity score in step with collection
// membership. Best effort, a failed bump never fails the collection write.
func (s *CollectionService) bumpPopularity(mediaType model.MediaType, mediaId int64, delta int64) {
	if err := s.catalogRepo.IncrementMemberCount(mediaType, mediaId, delta); err != nil {
		errorMessage := fmt.Sprintf("Error on incrementing member count of %s %d: %v", mediaType, mediaId, err)
		errorHandler.SaveError(errorMessage, err)
		return
	}

	item, err := s.catalogRepo.GetById(mediaType, mediaId)
	if err != nil || item == nil {
		return
	}

	score := ComputePopularityScore(item)
	if err := s.catalogRepo.UpdatePopularityScore(mediaType, mediaId, score); err != nil {
		errorMessage := fmt.Sprintf("Error on updating popularity score of %s %d: %v", mediaType, mediaId, err)
		errorHandler.SaveError(errorMessage, err)
	}
}

// ComputePopularityScore weights favorites double and boosts titles released
// within the last year by 20 percent.
func ComputePopularityScore(item *model.CatalogItem) float64 {
	score := float64(item.MemberCount) + 2*float64(item.FavoriteCount)
	if item.ReleasedAt != nil && time.Since(*item.ReleasedAt) < 365*24*time.Hour {
		score *= 1.2
	}
	return math.Round(score*100) / 100
}

func applyEntryChanges(entry *model.CollectionEntry, status model.StatusCode, rating *float64, notes string) {
	entry.StatusCode = int(status)
	if rating != nil {
		entry.Rating = rating
	}
	if notes != "" {
		entry.Notes = notes
	}
}

func validateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	value := *rating
	if value < 0 || value > 5 {
		return ErrInvalidRating
	}
	if math.Mod(value*2, 1) != 0 {
		return ErrInvalidRating
	}
	return nil
}
