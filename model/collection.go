package model

import (
	"strings"
	"time"
)

type StatusCode int

const (
	StatusCompleted StatusCode = iota + 1
	StatusWatching
	StatusOnHold
	StatusDropped
	StatusPlanToWatch
)

func (s StatusCode) Name() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusWatching:
		return "watching"
	case StatusOnHold:
		return "on-hold"
	case StatusDropped:
		return "dropped"
	case StatusPlanToWatch:
		return "plan-to-watch"
	}
	return ""
}

func StatusCodeFromName(name string) (StatusCode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "completed":
		return StatusCompleted, true
	case "watching":
		return StatusWatching, true
	case "on-hold":
		return StatusOnHold, true
	case "dropped":
		return StatusDropped, true
	case "plan-to-watch":
		return StatusPlanToWatch, true
	}
	return 0, false
}

//------------------------------------
//------------------------------------

// CollectionEntry is one tracked record per (user, media, mediaType). The
// unique index backs the upsert's catch-conflict fallback, status only ever
// changes in place.
type CollectionEntry struct {
	Id         int64      `gorm:"column:id;type:serial;autoIncrement;primaryKey;" json:"id"`
	UserId     int64      `gorm:"column:userId;type:integer;not null;uniqueIndex:CollectionEntry_user_media_key;" json:"userId"`
	MediaId    int64      `gorm:"column:mediaId;type:integer;not null;uniqueIndex:CollectionEntry_user_media_key;" json:"mediaId"`
	MediaType  string     `gorm:"column:mediaType;type:text;not null;uniqueIndex:CollectionEntry_user_media_key;" json:"mediaType"`
	StatusCode int        `gorm:"column:statusCode;type:integer;not null;" json:"statusCode"`
	Rating     *float64   `gorm:"column:rating;type:decimal(2,1);" json:"rating"`
	Notes      string     `gorm:"column:notes;type:text;not null;default:'';" json:"notes"`
	IsPublic   bool       `gorm:"column:isPublic;type:boolean;not null;default:true;" json:"isPublic"`
	CreatedAt  time.Time  `gorm:"column:createdAt;type:timestamp(3);not null;default:CURRENT_TIMESTAMP;" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"column:updatedAt;type:timestamp(3);not null;" json:"updatedAt"`
}

func (CollectionEntry) TableName() string {
	return "CollectionEntry"
}

//------------------------------------
//------------------------------------

type UpsertCollectionReq struct {
	Status   string   `json:"status"`
	Rating   *float64 `json:"rating"`
	Notes    string   `json:"notes"`
	IsPublic *bool    `json:"isPublic"`
}

type CollectionListItem struct {
	MediaId    int64    `gorm:"column:mediaId" json:"mediaId"`
	MediaType  string   `gorm:"column:mediaType" json:"mediaType"`
	Title      string   `gorm:"column:title" json:"title"`
	StatusCode int      `gorm:"column:statusCode" json:"statusCode"`
	Status     string   `gorm:"-" json:"status"`
	Rating     *float64 `gorm:"column:rating" json:"rating"`
	Notes      string   `gorm:"column:notes" json:"notes"`
	IsPublic   bool     `gorm:"column:isPublic" json:"isPublic"`
}

type CollectionListRes struct {
	Items []CollectionListItem `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type RatingBucket struct {
	Rating float64 `gorm:"column:rating" json:"rating"`
	Count  int64   `gorm:"column:count" json:"count"`
}

type StatusCount struct {
	MediaType  string `gorm:"column:mediaType" json:"mediaType"`
	StatusCode int    `gorm:"column:statusCode" json:"statusCode"`
	Count      int64  `gorm:"column:count" json:"count"`
}

type InCollectionRes struct {
	InCollection bool             `json:"inCollection"`
	Entry        *CollectionEntry `json:"entry"`
}

// ExportRow joins a collection entry with its catalog row for the MAL export.
// Catalog fields stay zero valued when the catalog row is gone.
type ExportRow struct {
	MediaId    int64      `gorm:"column:mediaId"`
	Title      string     `gorm:"column:title"`
	ExternalId int64      `gorm:"column:externalId"`
	StatusCode int        `gorm:"column:statusCode"`
	Rating     *float64   `gorm:"column:rating"`
	Notes      string     `gorm:"column:notes"`
	UpdatedAt  *time.Time `gorm:"column:updatedAt"`
}
