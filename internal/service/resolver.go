package service

import (
	"context"
	"fmt"
	"strings"
	"tracker_collection/internal/repository"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"
)

type ITitleResolverService interface {
	Resolve(ctx context.Context, title string, mediaType model.MediaType, externalId int64) (int64, error)
}

// TitleResolverService maps externally sourced titles onto catalog ids.
// Matching is best effort, a miss is reported as id 0 and never as an error.
type TitleResolverService struct {
	catalogRepo repository.ICatalogRepository
	metadataSvc IMetadataService
}

func NewTitleResolverService(catalogRepo repository.ICatalogRepository, metadataSvc IMetadataService) *TitleResolverService {
	return &TitleResolverService{
		catalogRepo: catalogRepo,
		metadataSvc: metadataSvc,
	}
}

//------------------------------------------
//------------------------------------------

func (s *TitleResolverService) Resolve(ctx context.Context, title string, mediaType model.MediaType, externalId int64) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, nil
	}

	mediaId, err := s.matchTitle(mediaType, title)
	if err != nil {
		return 0, err
	}
	if mediaId != 0 {
		return mediaId, nil
	}

	if externalId <= 0 {
		return 0, nil
	}

	// enrichment from the metadata api is optional, network failures just
	// mean the original title was our only shot
	variants, err := s.metadataSvc.GetTitleVariants(ctx, mediaType, externalId)
	if err != nil {
		errorMessage := fmt.Sprintf("Error on fetching title variants for externalId %d: %v", externalId, err)
		errorHandler.SaveError(errorMessage, err)
		return 0, nil
	}

	for _, variant := range variants {
		if strings.EqualFold(variant, title) {
			continue
		}
		mediaId, err = s.matchTitle(mediaType, variant)
		if err != nil {
			return 0, err
		}
		if mediaId != 0 {
			return mediaId, nil
		}
	}

	return 0, nil
}

func (s *TitleResolverService) matchTitle(mediaType model.MediaType, title string) (int64, error) {
	item, err := s.catalogRepo.FindPublishedByExactTitle(mediaType, title)
	if err != nil {
		return 0, err
	}
	if item != nil {
		return item.Id, nil
	}

	item, err = s.catalogRepo.FindPublishedByTitleSubstring(mediaType, title)
	if err != nil {
		return 0, err
	}
	if item != nil {
		return item.Id, nil
	}

	return 0, nil
}
