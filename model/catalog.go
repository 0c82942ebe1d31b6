package model

import (
	"errors"
	"time"
)

type MediaType string

const (
	MediaTypeAnime MediaType = "anime"
	MediaTypeManga MediaType = "manga"
	MediaTypeGame  MediaType = "game"
)

var ErrUnknownMediaType = errors.New("unknown media type")

func ParseMediaType(value string) (MediaType, error) {
	switch MediaType(value) {
	case MediaTypeAnime, MediaTypeManga, MediaTypeGame:
		return MediaType(value), nil
	}
	return "", ErrUnknownMediaType
}

//------------------------------------
//------------------------------------

// CatalogItem is the shared row shape of the "Anime", "Manga" and "Game"
// tables. The three tables carry identical columns, repositories select the
// table by media type.
type CatalogItem struct {
	Id              int64      `gorm:"column:id;type:serial;autoIncrement;primaryKey;" json:"id"`
	Title           string     `gorm:"column:title;type:text;not null;" json:"title"`
	LocalizedTitle  string     `gorm:"column:localizedTitle;type:text;not null;default:'';" json:"localizedTitle"`
	OriginalTitle   string     `gorm:"column:originalTitle;type:text;not null;default:'';" json:"originalTitle"`
	AlternateTitles string     `gorm:"column:alternateTitles;type:text;not null;default:'';" json:"alternateTitles"`
	ExternalId      int64      `gorm:"column:externalId;type:integer;not null;default:0;index:externalId_idx;" json:"externalId"`
	Published       bool       `gorm:"column:published;type:boolean;not null;default:false;" json:"published"`
	ReleasedAt      *time.Time `gorm:"column:releasedAt;type:timestamp(3);" json:"releasedAt"`
	MemberCount     int64      `gorm:"column:memberCount;type:integer;not null;default:0;" json:"memberCount"`
	FavoriteCount   int64      `gorm:"column:favoriteCount;type:integer;not null;default:0;" json:"favoriteCount"`
	PopularityScore float64    `gorm:"column:popularityScore;type:decimal;not null;default:0;" json:"popularityScore"`
	CreatedAt       time.Time  `gorm:"column:createdAt;type:timestamp(3);not null;default:CURRENT_TIMESTAMP;" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updatedAt;type:timestamp(3);not null;" json:"updatedAt"`
}

func CatalogTableName(mediaType MediaType) string {
	switch mediaType {
	case MediaTypeManga:
		return "Manga"
	case MediaTypeGame:
		return "Game"
	default:
		return "Anime"
	}
}
