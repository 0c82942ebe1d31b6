package repository

import (
	"errors"
	"fmt"
	"time"
	"tracker_collection/model"

	"gorm.io/gorm"
)

type ICollectionRepository interface {
	GetEntry(userId int64, mediaId int64, mediaType model.MediaType) (*model.CollectionEntry, error)
	CreateEntry(entry *model.CollectionEntry) error
	UpdateEntry(entry *model.CollectionEntry) error
	DeleteEntry(userId int64, mediaId int64, mediaType model.MediaType) (int64, error)
	GetUserEntries(userId int64, mediaType model.MediaType, statusCode int, publicOnly bool, page int, limit int) ([]model.CollectionListItem, int64, error)
	GetExportRows(userId int64, mediaType model.MediaType) ([]model.ExportRow, error)
	GetRatingDistribution(userId int64, mediaType model.MediaType) ([]model.RatingBucket, error)
	CountByStatus(userId int64, publicOnly bool) ([]model.StatusCount, error)
}

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

//------------------------------------------
//------------------------------------------

func (r *CollectionRepository) GetEntry(userId int64, mediaId int64, mediaType model.MediaType) (*model.CollectionEntry, error) {
	var result model.CollectionEntry
	err := r.db.
		Model(&model.CollectionEntry{}).
		Where("\"userId\" = ? AND \"mediaId\" = ? AND \"mediaType\" = ?", userId, mediaId, string(mediaType)).
		First(&result).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *CollectionRepository) CreateEntry(entry *model.CollectionEntry) error {
	return r.db.Create(entry).Error
}

func (r *CollectionRepository) UpdateEntry(entry *model.CollectionEntry) error {
	return r.db.Model(&model.CollectionEntry{}).
		Where("\"userId\" = ? AND \"mediaId\" = ? AND \"mediaType\" = ?", entry.UserId, entry.MediaId, entry.MediaType).
		UpdateColumns(map[string]interface{}{
			"\"statusCode\"": entry.StatusCode,
			"rating":         entry.Rating,
			"notes":          entry.Notes,
			"\"isPublic\"":   entry.IsPublic,
			"\"updatedAt\"":  time.Now().UTC(),
		}).Error
}

func (r *CollectionRepository) DeleteEntry(userId int64, mediaId int64, mediaType model.MediaType) (int64, error) {
	res := r.db.
		Where("\"userId\" = ? AND \"mediaId\" = ? AND \"mediaType\" = ?", userId, mediaId, string(mediaType)).
		Delete(&model.CollectionEntry{})
	return res.RowsAffected, res.Error
}

//------------------------------------------
//------------------------------------------

func (r *CollectionRepository) GetUserEntries(userId int64, mediaType model.MediaType, statusCode int, publicOnly bool, page int, limit int) ([]model.CollectionListItem, int64, error) {
	countQuery := r.db.Model(&model.CollectionEntry{}).
		Where("\"userId\" = ? AND \"mediaType\" = ?", userId, string(mediaType))
	if statusCode > 0 {
		countQuery = countQuery.Where("\"statusCode\" = ?", statusCode)
	}
	if publicOnly {
		countQuery = countQuery.Where("\"isPublic\" = true")
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	statusFilter := ""
	if statusCode > 0 {
		statusFilter = fmt.Sprintf(" AND c.\"statusCode\" = %d", statusCode)
	}
	publicFilter := ""
	if publicOnly {
		publicFilter = " AND c.\"isPublic\" = true"
	}

	queryStr := fmt.Sprintf(`
		SELECT c."mediaId", c."mediaType", c."statusCode", c.rating, c.notes, c."isPublic", COALESCE(m.title, '') AS title
		FROM "CollectionEntry" c
			LEFT JOIN %q m ON m.id = c."mediaId"
		WHERE c."userId" = @uid AND c."mediaType" = @mtype%s%s
		ORDER BY c."updatedAt" DESC
		LIMIT @limit OFFSET @offset;`,
		model.CatalogTableName(mediaType), statusFilter, publicFilter)

	items := []model.CollectionListItem{}
	err := r.db.Raw(queryStr,
		map[string]interface{}{
			"uid":    userId,
			"mtype":  string(mediaType),
			"limit":  limit,
			"offset": (page - 1) * limit,
		}).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *CollectionRepository) GetExportRows(userId int64, mediaType model.MediaType) ([]model.ExportRow, error) {
	queryStr := fmt.Sprintf(`
		SELECT c."mediaId", c."statusCode", c.rating, c.notes, c."updatedAt",
			COALESCE(m.title, '') AS title, COALESCE(m."externalId", 0) AS "externalId"
		FROM "CollectionEntry" c
			LEFT JOIN %q m ON m.id = c."mediaId"
		WHERE c."userId" = @uid AND c."mediaType" = @mtype
		ORDER BY c."createdAt" ASC;`,
		model.CatalogTableName(mediaType))

	rows := []model.ExportRow{}
	err := r.db.Raw(queryStr,
		map[string]interface{}{
			"uid":   userId,
			"mtype": string(mediaType),
		}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

//------------------------------------------
//------------------------------------------

func (r *CollectionRepository) GetRatingDistribution(userId int64, mediaType model.MediaType) ([]model.RatingBucket, error) {
	buckets := []model.RatingBucket{}
	err := r.db.Model(&model.CollectionEntry{}).
		Select("rating, COUNT(*) AS count").
		Where("\"userId\" = ? AND \"mediaType\" = ? AND rating IS NOT NULL", userId, string(mediaType)).
		Group("rating").
		Order("rating ASC").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *CollectionRepository) CountByStatus(userId int64, publicOnly bool) ([]model.StatusCount, error) {
	query := r.db.Model(&model.CollectionEntry{}).
		Select("\"mediaType\", \"statusCode\", COUNT(*) AS count").
		Where("\"userId\" = ?", userId)
	if publicOnly {
		query = query.Where("\"isPublic\" = true")
	}

	counts := []model.StatusCount{}
	err := query.
		Group("\"mediaType\", \"statusCode\"").
		Order("\"mediaType\", \"statusCode\"").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
