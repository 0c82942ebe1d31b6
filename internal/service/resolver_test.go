package service

import (
	"context"
	"errors"
	"testing"
	"tracker_collection/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolverFixture(metadataSvc IMetadataService) (*TitleResolverService, *fakeCatalogRepo) {
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{
		Id: 1, Title: "Fullmetal Alchemist: Brotherhood", LocalizedTitle: "Стальной алхимик",
		OriginalTitle: "Hagane no Renkinjutsushi", Published: true,
	})
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{
		Id: 2, Title: "Steins;Gate", AlternateTitles: "SG, Gate of Steiner", Published: true,
	})
	catalogRepo.add(model.MediaTypeAnime, &model.CatalogItem{
		Id: 3, Title: "Hidden Gem", Published: false,
	})
	catalogRepo.add(model.MediaTypeManga, &model.CatalogItem{
		Id: 4, Title: "Monster", Published: true,
	})
	return NewTitleResolverService(catalogRepo, metadataSvc), catalogRepo
}

func TestResolveExactTitleCaseInsensitive(t *testing.T) {
	resolver, _ := newResolverFixture(&fakeMetadataService{})

	id, err := resolver.Resolve(context.Background(), "fullmetal alchemist: brotherhood", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// original title matches too
	id, err = resolver.Resolve(context.Background(), "HAGANE NO RENKINJUTSUSHI", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestResolveSubstringFallback(t *testing.T) {
	resolver, _ := newResolverFixture(&fakeMetadataService{})

	id, err := resolver.Resolve(context.Background(), "gate of steiner", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestResolveEmptyTitle(t *testing.T) {
	resolver, _ := newResolverFixture(&fakeMetadataService{})

	id, err := resolver.Resolve(context.Background(), "   ", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestResolveUnpublishedIsInvisible(t *testing.T) {
	resolver, _ := newResolverFixture(&fakeMetadataService{})

	id, err := resolver.Resolve(context.Background(), "Hidden Gem", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestResolveMediaTypeScoping(t *testing.T) {
	resolver, _ := newResolverFixture(&fakeMetadataService{})

	id, err := resolver.Resolve(context.Background(), "Monster", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	id, err = resolver.Resolve(context.Background(), "Monster", model.MediaTypeManga, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

//------------------------------------------
//------------------------------------------

func TestResolveMetadataEnrichment(t *testing.T) {
	metadataSvc := &fakeMetadataService{
		variants: map[int64][]string{
			9253: {"Shutainzu Geto", "Steins;Gate"},
		},
	}
	resolver, _ := newResolverFixture(metadataSvc)

	// the raw title misses, the second api variant hits
	id, err := resolver.Resolve(context.Background(), "S;G the time travel one", model.MediaTypeAnime, 9253)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 1, metadataSvc.calls)
}

func TestResolveMetadataSkippedWithoutExternalId(t *testing.T) {
	metadataSvc := &fakeMetadataService{}
	resolver, _ := newResolverFixture(metadataSvc)

	id, err := resolver.Resolve(context.Background(), "no such thing", model.MediaTypeAnime, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.Equal(t, 0, metadataSvc.calls)
}

func TestResolveMetadataFailureIsNotFatal(t *testing.T) {
	metadataSvc := &fakeMetadataService{err: errors.New("connection refused")}
	resolver, _ := newResolverFixture(metadataSvc)

	id, err := resolver.Resolve(context.Background(), "no such thing", model.MediaTypeAnime, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}
