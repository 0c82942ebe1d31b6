package repository

import (
	"errors"
	"strings"
	"tracker_collection/model"

	"gorm.io/gorm"
)

type ICatalogRepository interface {
	GetById(mediaType model.MediaType, id int64) (*model.CatalogItem, error)
	FindPublishedByExactTitle(mediaType model.MediaType, title string) (*model.CatalogItem, error)
	FindPublishedByTitleSubstring(mediaType model.MediaType, title string) (*model.CatalogItem, error)
	IncrementMemberCount(mediaType model.MediaType, id int64, delta int64) error
	UpdatePopularityScore(mediaType model.MediaType, id int64, score float64) error
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

//------------------------------------------
//------------------------------------------

func (r *CatalogRepository) GetById(mediaType model.MediaType, id int64) (*model.CatalogItem, error) {
	var result model.CatalogItem
	err := r.db.
		Table(model.CatalogTableName(mediaType)).
		Where("id = ?", id).
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

func (r *CatalogRepository) FindPublishedByExactTitle(mediaType model.MediaType, title string) (*model.CatalogItem, error) {
	var result model.CatalogItem
	err := r.db.
		Table(model.CatalogTableName(mediaType)).
		Where("published = true AND (LOWER(title) = LOWER(@t) OR LOWER(\"localizedTitle\") = LOWER(@t) OR LOWER(\"originalTitle\") = LOWER(@t))",
			map[string]interface{}{"t": title}).
		Order("\"popularityScore\" DESC").
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

func (r *CatalogRepository) FindPublishedByTitleSubstring(mediaType model.MediaType, title string) (*model.CatalogItem, error) {
	pattern := "%" + escapeLikeInput(title) + "%"

	var result model.CatalogItem
	err := r.db.
		Table(model.CatalogTableName(mediaType)).
		Where("published = true AND (title ILIKE @p OR \"localizedTitle\" ILIKE @p OR \"originalTitle\" ILIKE @p OR \"alternateTitles\" ILIKE @p)",
			map[string]interface{}{"p": pattern}).
		Order("\"popularityScore\" DESC").
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

//------------------------------------------
//------------------------------------------

func (r *CatalogRepository) IncrementMemberCount(mediaType model.MediaType, id int64, delta int64) error {
	return r.db.
		Table(model.CatalogTableName(mediaType)).
		Where("id = ?", id).
		UpdateColumn("\"memberCount\"", gorm.Expr("GREATEST(\"memberCount\" + ?, 0)", delta)).
		Error
}

func (r *CatalogRepository) UpdatePopularityScore(mediaType model.MediaType, id int64, score float64) error {
	return r.db.
		Table(model.CatalogTableName(mediaType)).
		Where("id = ?", id).
		UpdateColumn("\"popularityScore\"", score).
		Error
}

//------------------------------------------
//------------------------------------------

func escapeLikeInput(input string) string {
	escaped := strings.ReplaceAll(input, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "%", "\\%")
	escaped = strings.ReplaceAll(escaped, "_", "\\_")
	return escaped
}
