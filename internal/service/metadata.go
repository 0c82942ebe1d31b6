package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"tracker_collection/configs"
	"tracker_collection/model"

	"golang.org/x/time/rate"
)

type IMetadataService interface {
	GetTitleVariants(ctx context.Context, mediaType model.MediaType, externalId int64) ([]string, error)
}

// MetadataService wraps the third-party anime/manga metadata api. The api
// enforces roughly one request per second per client, the limiter keeps every
// caller behind that budget no matter who asks.
type MetadataService struct {
	baseUrl    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewMetadataService() *MetadataService {
	return &MetadataService{
		baseUrl: configs.GetConfigs().MetadataApiUrl,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

//------------------------------------------
//------------------------------------------

type metadataTitlesRes struct {
	Data struct {
		Title         string   `json:"title"`
		TitleEnglish  string   `json:"title_english"`
		TitleJapanese string   `json:"title_japanese"`
		TitleSynonyms []string `json:"title_synonyms"`
		Titles        []struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"titles"`
	} `json:"data"`
}

func (m *MetadataService) GetTitleVariants(ctx context.Context, mediaType model.MediaType, externalId int64) ([]string, error) {
	var resource string
	switch mediaType {
	case model.MediaTypeAnime:
		resource = "anime"
	case model.MediaTypeManga:
		resource = "manga"
	default:
		return nil, nil
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiUrl := fmt.Sprintf("%s/%s/%d", m.baseUrl, resource, externalId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata api returned status %s", resp.Status)
	}

	var body metadataTitlesRes
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	variants := make([]string, 0, 4+len(body.Data.TitleSynonyms)+len(body.Data.Titles))
	variants = append(variants, body.Data.Title, body.Data.TitleEnglish, body.Data.TitleJapanese)
	variants = append(variants, body.Data.TitleSynonyms...)
	for _, t := range body.Data.Titles {
		variants = append(variants, t.Title)
	}

	return dedupeTitles(variants), nil
}

func dedupeTitles(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	result := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, t)
	}
	return result
}
