package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"tracker_collection/db/redis"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"
)

const (
	collectionItemsCachePrefix    = "collection_items:"
	ratingDistributionCachePrefix = "rating_distribution:"
	inCollectionCachePrefix       = "in_collection:"
	userCollectionsCachePrefix    = "user_collections:"
	userCollectionsPubCachePrefix = "user_collections_public:"
	importProgressCachePrefix     = "import_progress:"
	importNotifiedFlagCachePrefix = "import_notified:"
)

const (
	collectionListCacheDuration     = 5 * time.Minute
	inCollectionCacheDuration       = 10 * time.Minute
	ratingDistributionCacheDuration = 10 * time.Minute
	userCollectionsCacheDuration    = 5 * time.Minute
	importProgressCacheDuration     = 24 * time.Hour
	importNotifiedFlagCacheDuration = 24 * time.Hour
)

//------------------------------------------
//------------------------------------------

type cacheFootprint struct {
	keys     []string
	patterns []string
}

// userCollectionCacheFootprint enumerates every key whose value can depend on
// one user's collection. Any write to the collection must clear all of them,
// a missed key serves stale data for the whole TTL window.
func userCollectionCacheFootprint(userId int64) cacheFootprint {
	uid := strconv.FormatInt(userId, 10)
	return cacheFootprint{
		keys: []string{
			userCollectionsCachePrefix + uid,
			userCollectionsPubCachePrefix + uid,
		},
		patterns: []string{
			collectionItemsCachePrefix + uid + ":*",
			ratingDistributionCachePrefix + uid + ":*",
			inCollectionCachePrefix + uid + ":*",
		},
	}
}

// InvalidateUserCollectionCache runs the fan-out synchronously so a write path
// can invalidate before responding. Cache failures never fail the write.
func InvalidateUserCollectionCache(userId int64) {
	ctx := context.Background()
	footprint := userCollectionCacheFootprint(userId)

	if err := redis.DelRedis(ctx, footprint.keys...); err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on collection cache invalidation: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
	for _, pattern := range footprint.patterns {
		if err := redis.DelPatternRedis(ctx, pattern); err != nil && err != redis.ErrNotConnected {
			errorMessage := fmt.Sprintf("Redis Error on collection cache pattern invalidation: %v", err)
			errorHandler.SaveError(errorMessage, err)
		}
	}
}

//------------------------------------------
//------------------------------------------

func collectionListCacheKey(userId int64, mediaType model.MediaType, statusCode int, publicOnly bool, page int, limit int) string {
	return fmt.Sprintf("%s%d:%s:%d:%t:%d:%d", collectionItemsCachePrefix, userId, mediaType, statusCode, publicOnly, page, limit)
}

func getCachedCollectionList(ctx context.Context, key string) (*model.CollectionListRes, error) {
	result, err := redis.GetRedis(ctx, key)
	if err != nil && err.Error() != "redis: nil" {
		return nil, nil
	}
	if result != "" {
		var jsonData model.CollectionListRes
		err = json.Unmarshal([]byte(result), &jsonData)
		if err != nil {
			return nil, err
		}
		return &jsonData, nil
	}
	return nil, err
}

func setCachedCollectionList(ctx context.Context, key string, data *model.CollectionListRes) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving collection list: %v", err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(ctx, key, jsonData, collectionListCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving collection list: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}

//------------------------------------------
//------------------------------------------

func inCollectionCacheKey(userId int64, mediaType model.MediaType, mediaId int64) string {
	return fmt.Sprintf("%s%d:%s:%d", inCollectionCachePrefix, userId, mediaType, mediaId)
}

func getCachedInCollection(ctx context.Context, key string) (*model.InCollectionRes, error) {
	result, err := redis.GetRedis(ctx, key)
	if err != nil && err.Error() != "redis: nil" {
		return nil, nil
	}
	if result != "" {
		var jsonData model.InCollectionRes
		err = json.Unmarshal([]byte(result), &jsonData)
		if err != nil {
			return nil, err
		}
		return &jsonData, nil
	}
	return nil, err
}

func setCachedInCollection(ctx context.Context, key string, data *model.InCollectionRes) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving inCollection check: %v", err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(ctx, key, jsonData, inCollectionCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving inCollection check: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}

//------------------------------------------
//------------------------------------------

func ratingDistributionCacheKey(userId int64, mediaType model.MediaType) string {
	return fmt.Sprintf("%s%d:%s", ratingDistributionCachePrefix, userId, mediaType)
}

func getCachedRatingDistribution(ctx context.Context, key string) ([]model.RatingBucket, error) {
	result, err := redis.GetRedis(ctx, key)
	if err != nil && err.Error() != "redis: nil" {
		return nil, nil
	}
	if result != "" {
		var jsonData []model.RatingBucket
		err = json.Unmarshal([]byte(result), &jsonData)
		if err != nil {
			return nil, err
		}
		return jsonData, nil
	}
	return nil, err
}

func setCachedRatingDistribution(ctx context.Context, key string, data []model.RatingBucket) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving rating distribution: %v", err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(ctx, key, jsonData, ratingDistributionCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving rating distribution: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}

//------------------------------------------
//------------------------------------------

func userCollectionsCacheKey(userId int64, publicOnly bool) string {
	if publicOnly {
		return userCollectionsPubCachePrefix + strconv.FormatInt(userId, 10)
	}
	return userCollectionsCachePrefix + strconv.FormatInt(userId, 10)
}

func getCachedStatusCounts(ctx context.Context, key string) ([]model.StatusCount, error) {
	result, err := redis.GetRedis(ctx, key)
	if err != nil && err.Error() != "redis: nil" {
		return nil, nil
	}
	if result != "" {
		var jsonData []model.StatusCount
		err = json.Unmarshal([]byte(result), &jsonData)
		if err != nil {
			return nil, err
		}
		return jsonData, nil
	}
	return nil, err
}

func setCachedStatusCounts(ctx context.Context, key string, data []model.StatusCount) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving collection summary: %v", err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(ctx, key, jsonData, userCollectionsCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving collection summary: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}

//------------------------------------------
//------------------------------------------

func SetImportProgressCache(jobId string, progress *model.ImportProgress) {
	jsonData, err := json.Marshal(progress)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving import progress: %v", err)
		errorHandler.SaveError(errorMessage, err)
		return
	}
	err = redis.SetRedis(context.Background(), importProgressCachePrefix+jobId, jsonData, importProgressCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving import progress: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}

func GetImportProgressCache(jobId string) (*model.ImportProgress, error) {
	result, err := redis.GetRedis(context.Background(), importProgressCachePrefix+jobId)
	if err != nil && err.Error() != "redis: nil" {
		return nil, nil
	}
	if result != "" {
		var jsonData model.ImportProgress
		err = json.Unmarshal([]byte(result), &jsonData)
		if err != nil {
			return nil, err
		}
		return &jsonData, nil
	}
	return nil, err
}

// import summary emails must go out at most once per job even across queue
// retries, the flag outlives any retry cycle via its 24h expiry
func GetImportNotifiedFlag(jobId string) bool {
	result, err := redis.GetRedis(context.Background(), importNotifiedFlagCachePrefix+jobId)
	if err != nil {
		return false
	}
	return result != ""
}

func SetImportNotifiedFlag(jobId string) {
	err := redis.SetRedis(context.Background(), importNotifiedFlagCachePrefix+jobId, "1", importNotifiedFlagCacheDuration)
	if err != nil && err != redis.ErrNotConnected {
		errorMessage := fmt.Sprintf("Redis Error on saving import notified flag: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
}
