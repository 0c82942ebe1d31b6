package service

import (
	"context"
	"fmt"
	"strings"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"
)

type IImportService interface {
	ImportBatch(ctx context.Context, userId int64, items []model.ImportItem, onProgress func(processed int, total int)) *model.ImportSummary
}

type ImportService struct {
	resolver      ITitleResolverService
	collectionSvc ICollectionService
}

func NewImportService(resolver ITitleResolverService, collectionSvc ICollectionService) *ImportService {
	return &ImportService{
		resolver:      resolver,
		collectionSvc: collectionSvc,
	}
}

//------------------------------------------
//------------------------------------------

// NormalizeStatus maps the external status vocabulary onto the internal enum.
// Unrecognized values fall back to plan-to-watch instead of failing the item.
func NormalizeStatus(rawStatus string, mediaType model.MediaType) model.StatusCode {
	normalized := strings.ToLower(strings.TrimSpace(rawStatus))
	normalized = strings.Join(strings.Fields(normalized), " ")

	switch normalized {
	case "completed", "complete", "finished":
		return model.StatusCompleted
	case "watching", "currently watching", "reading", "currently reading", "playing", "currently playing":
		return model.StatusWatching
	case "on-hold", "on hold", "onhold", "paused":
		return model.StatusOnHold
	case "dropped":
		return model.StatusDropped
	case "plan to watch", "plan-to-watch", "ptw", "plan to read", "plan-to-read", "ptr", "plan to play", "plan-to-play":
		return model.StatusPlanToWatch
	}
	return model.StatusPlanToWatch
}

// NormalizeScore maps the external 0-10 score onto the internal 0-5 half-step
// scale. nil means "no rating supplied" and stays nil, distinct from 0.
func NormalizeScore(rawScore *float64) *float64 {
	if rawScore == nil {
		return nil
	}
	score := *rawScore
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	rating := score / 2
	return &rating
}

//------------------------------------------
//------------------------------------------

// ImportBatch processes items strictly in input order, one at a time. A single
// item's failure becomes a skipped outcome and never aborts the batch, the
// summary always covers every item. The collection cache fan-out runs exactly
// once at the end regardless of item count.
func (s *ImportService) ImportBatch(ctx context.Context, userId int64, items []model.ImportItem, onProgress func(processed int, total int)) *model.ImportSummary {
	total := len(items)
	summary := &model.ImportSummary{
		Total:   total,
		Details: make([]model.ImportItemResult, 0, total),
	}

	for i := range items {
		result := s.processItem(ctx, userId, &items[i])
		summary.Details = append(summary.Details, result)

		switch result.Outcome {
		case model.OutcomeImported, model.OutcomeUpdated:
			summary.Imported++
		case model.OutcomeNotFound:
			summary.NotFound++
		case model.OutcomeSkipped:
			summary.Failed++
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	InvalidateUserCollectionCache(userId)

	return summary
}

func (s *ImportService) processItem(ctx context.Context, userId int64, item *model.ImportItem) (result model.ImportItemResult) {
	result = model.ImportItemResult{
		Title: item.Title,
		Type:  item.Type,
	}

	defer func() {
		if r := recover(); r != nil {
			errorMessage := fmt.Sprintf("Recovered from panic on importing %q: %v", item.Title, r)
			errorHandler.SaveError(errorMessage, nil)
			result.Outcome = model.OutcomeSkipped
			result.Reason = fmt.Sprintf("unexpected error: %v", r)
		}
	}()

	mediaType, err := model.ParseMediaType(strings.ToLower(strings.TrimSpace(item.Type)))
	if err != nil {
		result.Outcome = model.OutcomeSkipped
		result.Reason = fmt.Sprintf("unknown media type %q", item.Type)
		return result
	}

	status := NormalizeStatus(item.Status, mediaType)
	rating := NormalizeScore(item.Score)
	result.ResolvedStatus = status.Name()

	mediaId, err := s.resolver.Resolve(ctx, item.Title, mediaType, item.ExternalId)
	if err != nil {
		errorMessage := fmt.Sprintf("Error on resolving import title %q: %v", item.Title, err)
		errorHandler.SaveError(errorMessage, err)
		result.Outcome = model.OutcomeSkipped
		result.Reason = err.Error()
		return result
	}
	if mediaId == 0 {
		result.Outcome = model.OutcomeNotFound
		result.Reason = "no catalog match for title"
		return result
	}
	result.MatchedMediaId = mediaId

	_, created, err := s.collectionSvc.UpsertEntry(ctx, userId, mediaId, mediaType, status, rating, "")
	if err != nil {
		errorMessage := fmt.Sprintf("Error on upserting import entry for %q: %v", item.Title, err)
		errorHandler.SaveError(errorMessage, err)
		result.Outcome = model.OutcomeSkipped
		result.Reason = err.Error()
		return result
	}

	if created {
		result.Outcome = model.OutcomeImported
	} else {
		result.Outcome = model.OutcomeUpdated
	}
	return result
}
