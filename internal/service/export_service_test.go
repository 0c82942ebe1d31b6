package service

import (
	"context"
	"strings"
	"testing"
	"tracker_collection/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportFixture(rows []model.ExportRow) *ExportService {
	collectionRepo := &fakeCollectionRepo{exportRows: rows}
	userRepo := &fakeUserRepo{users: []*model.User{
		{UserId: 10, Username: "kenji", Email: "kenji@example.com"},
	}}
	return NewExportService(collectionRepo, userRepo)
}

func TestExportCollectionBlockCount(t *testing.T) {
	rows := []model.ExportRow{
		{MediaId: 1, Title: "Naruto", ExternalId: 20, StatusCode: int(model.StatusCompleted), Rating: floatPtr(4)},
		{MediaId: 2, Title: "One Piece", ExternalId: 21, StatusCode: int(model.StatusWatching)},
		{MediaId: 3, Title: "Akira", ExternalId: 47, StatusCode: int(model.StatusPlanToWatch), Rating: floatPtr(5)},
	}
	svc := newExportFixture(rows)

	document, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeAnime)
	require.NoError(t, err)

	assert.Equal(t, len(rows), strings.Count(document, "<anime>"))
	assert.Equal(t, len(rows), strings.Count(document, "</anime>"))
	assert.Contains(t, document, "<myanimelist>")
	assert.Contains(t, document, "<user_id>10</user_id>")
	assert.Contains(t, document, "<user_name>kenji</user_name>")
	assert.Contains(t, document, "<user_total_anime>3</user_total_anime>")
	assert.Contains(t, document, "<user_total_completed>1</user_total_completed>")
	assert.Contains(t, document, "<user_total_watching>1</user_total_watching>")
	assert.Contains(t, document, "<user_total_plantowatch>1</user_total_plantowatch>")
}

func TestExportCollectionScoreAndStatusMapping(t *testing.T) {
	rows := []model.ExportRow{
		{MediaId: 1, Title: "Naruto", ExternalId: 20, StatusCode: int(model.StatusCompleted), Rating: floatPtr(3.5)},
		{MediaId: 2, Title: "One Piece", ExternalId: 21, StatusCode: int(model.StatusOnHold)},
	}
	svc := newExportFixture(rows)

	document, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeAnime)
	require.NoError(t, err)

	// 3.5 on the internal scale maps back to 7 of 10
	assert.Contains(t, document, "<my_score>7</my_score>")
	assert.Contains(t, document, "<my_status>Completed</my_status>")
	assert.Contains(t, document, "<my_status>On-Hold</my_status>")
	// absent rating exports as 0
	assert.Contains(t, document, "<my_score>0</my_score>")
}

func TestExportCollectionMangaVocabulary(t *testing.T) {
	rows := []model.ExportRow{
		{MediaId: 1, Title: "Berserk", ExternalId: 2, StatusCode: int(model.StatusWatching)},
		{MediaId: 2, Title: "Monster", ExternalId: 1, StatusCode: int(model.StatusPlanToWatch)},
	}
	svc := newExportFixture(rows)

	document, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeManga)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(document, "<manga>"))
	assert.Contains(t, document, "<user_export_type>2</user_export_type>")
	assert.Contains(t, document, "<my_status>Reading</my_status>")
	assert.Contains(t, document, "<my_status>Plan to Read</my_status>")
	assert.Contains(t, document, "<manga_mangadb_id>2</manga_mangadb_id>")
}

func TestExportCollectionEscapesReservedCharacters(t *testing.T) {
	rows := []model.ExportRow{
		{MediaId: 1, Title: `Fate/stay night: <Unlimited & "Blade' Works>`, StatusCode: int(model.StatusCompleted)},
	}
	svc := newExportFixture(rows)

	document, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeAnime)
	require.NoError(t, err)

	assert.Contains(t, document, "Fate/stay night: &lt;Unlimited &amp; &quot;Blade&apos; Works&gt;")
	assert.NotContains(t, document, `"Blade'`)
}

func TestExportCollectionMissingCatalogRowDefaults(t *testing.T) {
	rows := []model.ExportRow{
		{MediaId: 55, Title: "", ExternalId: 0, StatusCode: int(model.StatusDropped)},
	}
	svc := newExportFixture(rows)

	document, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeAnime)
	require.NoError(t, err)

	assert.Contains(t, document, "<series_animedb_id>0</series_animedb_id>")
	assert.Contains(t, document, "<series_title></series_title>")
}

func TestExportCollectionRejectsGames(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.ExportCollection(context.Background(), 10, model.MediaTypeGame)
	assert.ErrorIs(t, err, ErrExportTypeNotSupported)
}
