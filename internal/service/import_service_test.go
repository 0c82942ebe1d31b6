package service

import (
	"context"
	"errors"
	"testing"
	"tracker_collection/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, model.StatusCompleted, NormalizeStatus("Completed", model.MediaTypeAnime))
	assert.Equal(t, model.StatusWatching, NormalizeStatus("  watching  ", model.MediaTypeAnime))
	assert.Equal(t, model.StatusWatching, NormalizeStatus("Reading", model.MediaTypeManga))
	assert.Equal(t, model.StatusWatching, NormalizeStatus("Currently   Watching", model.MediaTypeAnime))
	assert.Equal(t, model.StatusOnHold, NormalizeStatus("On-Hold", model.MediaTypeAnime))
	assert.Equal(t, model.StatusOnHold, NormalizeStatus("on hold", model.MediaTypeAnime))
	assert.Equal(t, model.StatusDropped, NormalizeStatus("DROPPED", model.MediaTypeManga))
	assert.Equal(t, model.StatusPlanToWatch, NormalizeStatus("Plan to Watch", model.MediaTypeAnime))
	assert.Equal(t, model.StatusPlanToWatch, NormalizeStatus("Plan to Read", model.MediaTypeManga))

	// everything outside the known vocabulary falls back to plan-to-watch
	assert.Equal(t, model.StatusPlanToWatch, NormalizeStatus("rewatching maybe", model.MediaTypeAnime))
	assert.Equal(t, model.StatusPlanToWatch, NormalizeStatus("", model.MediaTypeAnime))
}

func TestNormalizeScore(t *testing.T) {
	assert.Nil(t, NormalizeScore(nil))

	for _, tc := range []struct {
		raw      float64
		expected float64
	}{
		{0, 0},
		{1, 0.5},
		{7, 3.5},
		{10, 5},
		{12, 5},
		{-3, 0},
	} {
		result := NormalizeScore(floatPtr(tc.raw))
		require.NotNil(t, result)
		assert.Equal(t, tc.expected, *result, "raw score %v", tc.raw)
	}
}

//------------------------------------------
//------------------------------------------

func newImportFixture() (*ImportService, *fakeCollectionRepo, *fakeCatalogRepo) {
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{Id: 1, Title: "Naruto", Published: true})
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{Id: 2, Title: "One Piece", Published: true})
	catalogRepo.add(model.MediaTypeManga, &model.CatalogItem{Id: 3, Title: "Berserk", Published: true})

	collectionRepo := &fakeCollectionRepo{}
	collectionSvc := NewCollectionService(collectionRepo, catalogRepo)
	resolver := NewTitleResolverService(catalogRepo, &fakeMetadataService{})
	return NewImportService(resolver, collectionSvc), collectionRepo, catalogRepo
}

func TestImportBatchKnownTitle(t *testing.T) {
	importSvc, collectionRepo, _ := newImportFixture()

	summary := importSvc.ImportBatch(context.Background(), 10, []model.ImportItem{
		{Type: "anime", Title: "Naruto", Status: "watching", Score: floatPtr(8)},
	}, nil)

	require.Len(t, summary.Details, 1)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Failed)

	detail := summary.Details[0]
	assert.Equal(t, model.OutcomeImported, detail.Outcome)
	assert.Equal(t, "watching", detail.ResolvedStatus)
	assert.Equal(t, int64(1), detail.MatchedMediaId)

	entry, err := collectionRepo.GetEntry(10, 1, model.MediaTypeAnime)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int(model.StatusWatching), entry.StatusCode)
	require.NotNil(t, entry.Rating)
	assert.Equal(t, 4.0, *entry.Rating)
}

func TestImportBatchUnknownTitle(t *testing.T) {
	importSvc, _, _ := newImportFixture()

	summary := importSvc.ImportBatch(context.Background(), 10, []model.ImportItem{
		{Type: "manga", Title: "Totally Unknown Title XYZ", Status: "completed"},
	}, nil)

	require.Len(t, summary.Details, 1)
	assert.Equal(t, model.OutcomeNotFound, summary.Details[0].Outcome)
	assert.Equal(t, 1, summary.NotFound)
	assert.Equal(t, 0, summary.Imported)
}

func TestImportBatchResilience(t *testing.T) {
	// item 2 of 4 is engineered to fail during resolution, the batch must
	// still return a result for every item in input order
	resolver := &fakeResolver{
		ids: map[string]int64{
			"Naruto":    1,
			"One Piece": 2,
			"Berserk":   3,
		},
		errs: map[string]error{
			"One Piece": errors.New("database exploded"),
		},
	}

	catalogRepo := newFakeCatalogRepo()
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{Id: 1, Title: "Naruto", Published: true})
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{Id: 2, Title: "One Piece", Published: true})
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{Id: 3, Title: "Berserk", Published: true})
	collectionSvc := NewCollectionService(&fakeCollectionRepo{}, catalogRepo)
	importSvc := NewImportService(resolver, collectionSvc)

	items := []model.ImportItem{
		{Type: "anime", Title: "Naruto", Status: "completed"},
		{Type: "anime", Title: "One Piece", Status: "watching"},
		{Type: "anime", Title: "Berserk", Status: "dropped"},
		{Type: "vhs", Title: "Akira", Status: "completed"},
	}

	progressCalls := 0
	summary := importSvc.ImportBatch(context.Background(), 10, items, func(processed int, total int) {
		progressCalls++
		assert.Equal(t, progressCalls, processed)
		assert.Equal(t, 4, total)
	})

	require.Len(t, summary.Details, 4)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 4, progressCalls)

	// results stay in input order
	assert.Equal(t, "Naruto", summary.Details[0].Title)
	assert.Equal(t, model.OutcomeImported, summary.Details[0].Outcome)
	assert.Equal(t, model.OutcomeSkipped, summary.Details[1].Outcome)
	assert.Equal(t, "database exploded", summary.Details[1].Reason)
	assert.Equal(t, model.OutcomeImported, summary.Details[2].Outcome)
	assert.Equal(t, model.OutcomeSkipped, summary.Details[3].Outcome)
	assert.Contains(t, summary.Details[3].Reason, "unknown media type")
}

func TestImportBatchKeepsStoredNotesAndRating(t *testing.T) {
	importSvc, collectionRepo, _ := newImportFixture()

	// imported items carry no notes and may carry no score, re-importing must
	// not wipe what the user already entered
	collectionRepo.entries = []*model.CollectionEntry{{
		Id:         1,
		UserId:     10,
		MediaId:    1,
		MediaType:  "anime",
		StatusCode: int(model.StatusWatching),
		Rating:     floatPtr(4),
		Notes:      "rewatch with friends",
	}}

	summary := importSvc.ImportBatch(context.Background(), 10, []model.ImportItem{
		{Type: "anime", Title: "Naruto", Status: "completed"},
	}, nil)
	assert.Equal(t, model.OutcomeUpdated, summary.Details[0].Outcome)

	entry := collectionRepo.entries[0]
	assert.Equal(t, int(model.StatusCompleted), entry.StatusCode)
	require.NotNil(t, entry.Rating)
	assert.Equal(t, 4.0, *entry.Rating)
	assert.Equal(t, "rewatch with friends", entry.Notes)
}

func TestImportBatchUpdatesExistingEntry(t *testing.T) {
	importSvc, collectionRepo, _ := newImportFixture()

	first := importSvc.ImportBatch(context.Background(), 10, []model.ImportItem{
		{Type: "anime", Title: "Naruto", Status: "watching"},
	}, nil)
	assert.Equal(t, model.OutcomeImported, first.Details[0].Outcome)

	second := importSvc.ImportBatch(context.Background(), 10, []model.ImportItem{
		{Type: "anime", Title: "Naruto", Status: "completed"},
	}, nil)
	assert.Equal(t, model.OutcomeUpdated, second.Details[0].Outcome)

	// still exactly one entry, status moved in place
	assert.Len(t, collectionRepo.entries, 1)
	assert.Equal(t, int(model.StatusCompleted), collectionRepo.entries[0].StatusCode)
}
