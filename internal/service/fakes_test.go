package service

import (
	"context"
	"strings"
	"tracker_collection/model"

	"github.com/jackc/pgx/v5/pgconn"
)

//------------------------------------------
// in-memory repository fakes
//------------------------------------------

type fakeCatalogRepo struct {
	items []*model.CatalogItem
	types map[int64]model.MediaType
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{types: map[int64]model.MediaType{}}
}

func (f *fakeCatalogRepo) add(mediaType model.MediaType, item *model.CatalogItem) {
	f.items = append(f.items, item)
	f.types[item.Id] = mediaType
}

func (f *fakeCatalogRepo) GetById(mediaType model.MediaType, id int64) (*model.CatalogItem, error) {
	for _, item := range f.items {
		if item.Id == id && f.types[id] == mediaType {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) FindPublishedByExactTitle(mediaType model.MediaType, title string) (*model.CatalogItem, error) {
	for _, item := range f.items {
		if !item.Published || f.types[item.Id] != mediaType {
			continue
		}
		if strings.EqualFold(item.Title, title) ||
			strings.EqualFold(item.LocalizedTitle, title) ||
			strings.EqualFold(item.OriginalTitle, title) {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) FindPublishedByTitleSubstring(mediaType model.MediaType, title string) (*model.CatalogItem, error) {
	needle := strings.ToLower(title)
	for _, item := range f.items {
		if !item.Published || f.types[item.Id] != mediaType {
			continue
		}
		haystack := strings.ToLower(item.Title + "|" + item.LocalizedTitle + "|" + item.OriginalTitle + "|" + item.AlternateTitles)
		if strings.Contains(haystack, needle) {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) IncrementMemberCount(mediaType model.MediaType, id int64, delta int64) error {
	for _, item := range f.items {
		if item.Id == id && f.types[id] == mediaType {
			item.MemberCount += delta
		}
	}
	return nil
}

func (f *fakeCatalogRepo) UpdatePopularityScore(mediaType model.MediaType, id int64, score float64) error {
	for _, item := range f.items {
		if item.Id == id && f.types[id] == mediaType {
			item.PopularityScore = score
		}
	}
	return nil
}

//------------------------------------------

type fakeCollectionRepo struct {
	entries    []*model.CollectionEntry
	exportRows []model.ExportRow
	nextId     int64

	// when set, the next GetEntry misses even if the entry is stored,
	// simulating a row inserted by a concurrent request between the upsert's
	// lookup and its create
	missGetOnce bool
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func (f *fakeCollectionRepo) GetEntry(userId int64, mediaId int64, mediaType model.MediaType) (*model.CollectionEntry, error) {
	if f.missGetOnce {
		f.missGetOnce = false
		return nil, nil
	}
	for _, e := range f.entries {
		if e.UserId == userId && e.MediaId == mediaId && e.MediaType == string(mediaType) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeCollectionRepo) CreateEntry(entry *model.CollectionEntry) error {
	for _, e := range f.entries {
		if e.UserId == entry.UserId && e.MediaId == entry.MediaId && e.MediaType == entry.MediaType {
			return uniqueViolation()
		}
	}
	f.nextId++
	entry.Id = f.nextId
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeCollectionRepo) UpdateEntry(entry *model.CollectionEntry) error {
	for _, e := range f.entries {
		if e.UserId == entry.UserId && e.MediaId == entry.MediaId && e.MediaType == entry.MediaType {
			e.StatusCode = entry.StatusCode
			e.Rating = entry.Rating
			e.Notes = entry.Notes
			e.IsPublic = entry.IsPublic
		}
	}
	return nil
}

func (f *fakeCollectionRepo) DeleteEntry(userId int64, mediaId int64, mediaType model.MediaType) (int64, error) {
	for i, e := range f.entries {
		if e.UserId == userId && e.MediaId == mediaId && e.MediaType == string(mediaType) {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCollectionRepo) GetUserEntries(userId int64, mediaType model.MediaType, statusCode int, publicOnly bool, page int, limit int) ([]model.CollectionListItem, int64, error) {
	items := []model.CollectionListItem{}
	for _, e := range f.entries {
		if e.UserId != userId || e.MediaType != string(mediaType) {
			continue
		}
		if statusCode > 0 && e.StatusCode != statusCode {
			continue
		}
		if publicOnly && !e.IsPublic {
			continue
		}
		items = append(items, model.CollectionListItem{
			MediaId:    e.MediaId,
			MediaType:  e.MediaType,
			StatusCode: e.StatusCode,
			Rating:     e.Rating,
			Notes:      e.Notes,
			IsPublic:   e.IsPublic,
		})
	}
	return items, int64(len(items)), nil
}

func (f *fakeCollectionRepo) GetExportRows(userId int64, mediaType model.MediaType) ([]model.ExportRow, error) {
	return f.exportRows, nil
}

func (f *fakeCollectionRepo) GetRatingDistribution(userId int64, mediaType model.MediaType) ([]model.RatingBucket, error) {
	counts := map[float64]int64{}
	for _, e := range f.entries {
		if e.UserId == userId && e.MediaType == string(mediaType) && e.Rating != nil {
			counts[*e.Rating]++
		}
	}
	buckets := []model.RatingBucket{}
	for rating, count := range counts {
		buckets = append(buckets, model.RatingBucket{Rating: rating, Count: count})
	}
	return buckets, nil
}

func (f *fakeCollectionRepo) CountByStatus(userId int64, publicOnly bool) ([]model.StatusCount, error) {
	counts := map[[2]interface{}]int64{}
	for _, e := range f.entries {
		if e.UserId != userId {
			continue
		}
		if publicOnly && !e.IsPublic {
			continue
		}
		counts[[2]interface{}{e.MediaType, e.StatusCode}]++
	}
	result := []model.StatusCount{}
	for key, count := range counts {
		result = append(result, model.StatusCount{
			MediaType:  key[0].(string),
			StatusCode: key[1].(int),
			Count:      count,
		})
	}
	return result, nil
}

//------------------------------------------

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) GetUserById(userId int64) (*model.User, error) {
	for _, u := range f.users {
		if u.UserId == userId {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateUser(user *model.User) error {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation()
		}
	}
	user.UserId = int64(len(f.users) + 1)
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) UpdateUserPassword(userId int64, hashedPassword string) error {
	for _, u := range f.users {
		if u.UserId == userId {
			u.Password = hashedPassword
		}
	}
	return nil
}

//------------------------------------------
// service fakes
//------------------------------------------

type fakeMetadataService struct {
	variants map[int64][]string
	err      error
	calls    int
}

func (f *fakeMetadataService) GetTitleVariants(ctx context.Context, mediaType model.MediaType, externalId int64) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.variants[externalId], nil
}

type fakeResolver struct {
	ids  map[string]int64
	errs map[string]error
}

func (f *fakeResolver) Resolve(ctx context.Context, title string, mediaType model.MediaType, externalId int64) (int64, error) {
	if err, ok := f.errs[title]; ok {
		return 0, err
	}
	return f.ids[title], nil
}
