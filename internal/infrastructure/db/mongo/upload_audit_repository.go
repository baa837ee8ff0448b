package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streck/storefront-api/internal/core/domain"
)

const collectionUploadAudit = "upload_audit"

// UploadAuditRepository appends hosted-file records to the upload_audit
// collection.
type UploadAuditRepository struct {
	col *mongo.Collection
}

func NewUploadAuditRepository(db *mongo.Database) *UploadAuditRepository {
	return &UploadAuditRepository{col: db.Collection(collectionUploadAudit)}
}

// Insert persists one audit record.
func (r *UploadAuditRepository) Insert(ctx context.Context, rec domain.UploadRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"filename":     rec.Filename,
		"content_type": rec.ContentType,
		"size":         rec.Size,
		"url":          rec.Image.URL,
		"public_id":    rec.Image.PublicID,
		"format":       rec.Image.Format,
		"width":        rec.Image.Width,
		"height":       rec.Image.Height,
		"uploaded_at":  rec.UploadedAt.UTC(),
		"recorded_at":  time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the indexes used to look uploads up.
func (r *UploadAuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "public_id", Value: 1}}},
		{Keys: bson.D{{Key: "uploaded_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
