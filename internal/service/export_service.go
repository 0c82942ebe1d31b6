package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tracker_collection/internal/repository"
	"tracker_collection/model"
	"tracker_collection/pkg/response"
)

type IExportService interface {
	ExportCollection(ctx context.Context, userId int64, mediaType model.MediaType) (string, error)
}

var ErrExportTypeNotSupported = errors.New(response.ExportTypeNotSupported)

// ExportService renders a user's collection into the MAL list-exchange XML
// document. A missing catalog row yields zero/default fields, never an error.
type ExportService struct {
	collectionRepo repository.ICollectionRepository
	userRepo       repository.IUserRepository
}

func NewExportService(collectionRepo repository.ICollectionRepository, userRepo repository.IUserRepository) *ExportService {
	return &ExportService{
		collectionRepo: collectionRepo,
		userRepo:       userRepo,
	}
}

//------------------------------------------
//------------------------------------------

func (s *ExportService) ExportCollection(ctx context.Context, userId int64, mediaType model.MediaType) (string, error) {
	if mediaType != model.MediaTypeAnime && mediaType != model.MediaTypeManga {
		return "", ErrExportTypeNotSupported
	}

	username := ""
	user, err := s.userRepo.GetUserById(userId)
	if err != nil {
		return "", err
	}
	if user != nil {
		username = user.Username
	}

	rows, err := s.collectionRepo.GetExportRows(userId, mediaType)
	if err != nil {
		return "", err
	}

	statusTotals := map[int]int{}
	for _, row := range rows {
		statusTotals[row.StatusCode]++
	}

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	sb.WriteString("<myanimelist>\n")
	s.writeInfoBlock(&sb, userId, username, mediaType, len(rows), statusTotals)
	for _, row := range rows {
		s.writeEntryBlock(&sb, mediaType, &row)
	}
	sb.WriteString("</myanimelist>\n")

	return sb.String(), nil
}

func (s *ExportService) writeInfoBlock(sb *strings.Builder, userId int64, username string, mediaType model.MediaType, total int, statusTotals map[int]int) {
	exportType := 1
	prefix := "anime"
	if mediaType == model.MediaTypeManga {
		exportType = 2
		prefix = "manga"
	}

	sb.WriteString("\t<myinfo>\n")
	fmt.Fprintf(sb, "\t\t<user_id>%d</user_id>\n", userId)
	fmt.Fprintf(sb, "\t\t<user_name>%s</user_name>\n", escapeXml(username))
	fmt.Fprintf(sb, "\t\t<user_export_type>%d</user_export_type>\n", exportType)
	fmt.Fprintf(sb, "\t\t<user_total_%s>%d</user_total_%s>\n", prefix, total, prefix)
	fmt.Fprintf(sb, "\t\t<user_total_watching>%d</user_total_watching>\n", statusTotals[int(model.StatusWatching)])
	fmt.Fprintf(sb, "\t\t<user_total_completed>%d</user_total_completed>\n", statusTotals[int(model.StatusCompleted)])
	fmt.Fprintf(sb, "\t\t<user_total_onhold>%d</user_total_onhold>\n", statusTotals[int(model.StatusOnHold)])
	fmt.Fprintf(sb, "\t\t<user_total_dropped>%d</user_total_dropped>\n", statusTotals[int(model.StatusDropped)])
	fmt.Fprintf(sb, "\t\t<user_total_plantowatch>%d</user_total_plantowatch>\n", statusTotals[int(model.StatusPlanToWatch)])
	sb.WriteString("\t</myinfo>\n")
}

func (s *ExportService) writeEntryBlock(sb *strings.Builder, mediaType model.MediaType, row *model.ExportRow) {
	tag := "anime"
	idTag := "series_animedb_id"
	titleTag := "series_title"
	if mediaType == model.MediaTypeManga {
		tag = "manga"
		idTag = "manga_mangadb_id"
		titleTag = "manga_title"
	}

	score := 0
	if row.Rating != nil {
		score = int(*row.Rating * 2)
	}

	fmt.Fprintf(sb, "\t<%s>\n", tag)
	fmt.Fprintf(sb, "\t\t<%s>%d</%s>\n", idTag, row.ExternalId, idTag)
	fmt.Fprintf(sb, "\t\t<%s>%s</%s>\n", titleTag, escapeXml(row.Title), titleTag)
	fmt.Fprintf(sb, "\t\t<my_score>%d</my_score>\n", score)
	fmt.Fprintf(sb, "\t\t<my_status>%s</my_status>\n", externalStatusName(model.StatusCode(row.StatusCode), mediaType))
	fmt.Fprintf(sb, "\t\t<my_comments>%s</my_comments>\n", escapeXml(row.Notes))
	sb.WriteString("\t\t<update_on_import>1</update_on_import>\n")
	fmt.Fprintf(sb, "\t</%s>\n", tag)
}

//------------------------------------------
//------------------------------------------

func externalStatusName(status model.StatusCode, mediaType model.MediaType) string {
	manga := mediaType == model.MediaTypeManga
	switch status {
	case model.StatusCompleted:
		return "Completed"
	case model.StatusWatching:
		if manga {
			return "Reading"
		}
		return "Watching"
	case model.StatusOnHold:
		return "On-Hold"
	case model.StatusDropped:
		return "Dropped"
	default:
		if manga {
			return "Plan to Read"
		}
		return "Plan to Watch"
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXml(text string) string {
	return xmlEscaper.Replace(text)
}
