package docs

import (
	"abs/src/config"
	"abs/src/db"
	"abs/src/lib"
	awslib "abs/src/lib/aws"
	"abs/src/models"
	"abs/src/types"
	"context"
	"fmt"
	"log"
	"time"
)

var DocumentKinds = []types.DocumentKind{
	types.DOC_CONFIRMATION,
	types.DOC_RECEIPT,
	types.DOC_CONTACT,
}

// Artifact is one generated document plus the reference handed to callers.
// Durable refs point at blob storage; otherwise the ref is the on-demand
// regeneration endpoint and the document is rebuilt per request.
type Artifact struct {
	Kind    types.DocumentKind `json:"kind"`
	Ref     string             `json:"ref"`
	Durable bool               `json:"durable"`
	Data    []byte             `json:"-"`
}

// test seam
var renderDocument = RenderPDF

func storageKey(booking *models.Booking, kind types.DocumentKind) string {
	return fmt.Sprintf("bookings/%s/%s.pdf", booking.ID, kind)
}

func cacheKey(booking *models.Booking, kind types.DocumentKind) string {
	return fmt.Sprintf("documents:%s:%s", booking.ID, kind)
}

func persist(booking *models.Booking, kind types.DocumentKind, data []byte) *Artifact {
	artifact := &Artifact{Kind: kind, Data: data}
	if !config.BlobStorageConfigured() {
		artifact.Ref = fmt.Sprintf("/api/v1/bookings/%s/documents/%s", booking.ID, kind)
		return artifact
	}
	url, err := awslib.S3UploadDocument(storageKey(booking, kind), data, "application/pdf")
	if err != nil {
		log.Printf("[docs] upload failed for Booking %s (%s), serving on demand: %s\n", booking.ID, kind, err.Error())
		artifact.Ref = fmt.Sprintf("/api/v1/bookings/%s/documents/%s", booking.ID, kind)
		return artifact
	}
	artifact.Ref = *url
	artifact.Durable = true
	if rdb := lib.GetRedisClient(); rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// presigned URLs expire after a day, keep the cache just inside that
		if err := rdb.Set(ctx, cacheKey(booking, kind), *url, 23*time.Hour).Err(); err != nil {
			log.Printf("[docs] could not cache url for Booking %s (%s): %s\n", booking.ID, kind, err.Error())
		}
	}
	return artifact
}

// GenerateAll renders and persists every document for a paid booking and
// records the refs on the booking row. A kind that fails to render is logged
// and skipped; the rest still go out.
func GenerateAll(booking *models.Booking) map[types.DocumentKind]*Artifact {
	artifacts := map[types.DocumentKind]*Artifact{}
	refs := types.JSONB{}
	for _, kind := range DocumentKinds {
		data, err := renderDocument(kind, booking)
		if err != nil {
			log.Printf("[docs] render failed for Booking %s (%s): %s\n", booking.ID, kind, err.Error())
			continue
		}
		artifact := persist(booking, kind, data)
		artifacts[kind] = artifact
		refs[string(kind)] = map[string]any{
			"ref":     artifact.Ref,
			"durable": artifact.Durable,
		}
	}
	if len(refs) > 0 {
		if err := db.GetDb().
			Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("artifacts", &refs).
			Error; err != nil {
			log.Printf("[docs] could not record artifacts for Booking %s: %s\n", booking.ID, err.Error())
		}
		booking.Artifacts = &refs
	}
	return artifacts
}

// CachedURL returns the presigned blob URL for a document when one is still
// cached, so the download endpoint can redirect without re-rendering.
func CachedURL(booking *models.Booking, kind types.DocumentKind) (string, bool) {
	if !config.BlobStorageConfigured() {
		return "", false
	}
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url, err := rdb.Get(ctx, cacheKey(booking, kind)).Result()
	if err != nil || url == "" {
		return "", false
	}
	return url, true
}
