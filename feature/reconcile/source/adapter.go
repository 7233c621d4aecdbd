// Package source fetches master sheets from the remote sheet store.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"prompt-mixer/core/storage"
	"prompt-mixer/feature/library/models"
	"prompt-mixer/feature/reconcile/ingest"
)

// Adapter produces the externally edited master sheets a sync reconciles
// against. Implementations own transport and parsing; the engine treats
// the result as an opaque value.
type Adapter interface {
	FetchMasterSheets(ctx context.Context) ([]models.MasterSheet, error)
}

// BucketAdapter reads sheet exports from an object-storage bucket. Each
// object under the prefix is one master sheet: *.json objects carry the
// full MasterSheet shape, *.csv objects carry a bare tabular block whose
// sheet name is the object's base name.
type BucketAdapter struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketAdapter creates an adapter over the given bucket layout.
func NewBucketAdapter(client storage.Client, bucket, prefix string) *BucketAdapter {
	return &BucketAdapter{client: client, bucket: bucket, prefix: prefix}
}

// FetchMasterSheets lists and parses every sheet object. Any failure
// aborts the whole fetch so a sync is never fed a partial result.
func (a *BucketAdapter) FetchMasterSheets(ctx context.Context) ([]models.MasterSheet, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check sheet bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("sheet bucket %q does not exist", a.bucket)
	}

	var sheets []models.MasterSheet
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    a.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list sheet objects: %w", obj.Err)
		}

		switch strings.ToLower(path.Ext(obj.Key)) {
		case ".json":
			sheet, err := a.readJSONSheet(ctx, obj.Key)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
		case ".csv":
			sheet, err := a.readCSVSheet(ctx, obj.Key)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
		default:
			// Unrelated objects under the prefix are ignored.
		}
	}

	return sheets, nil
}

func (a *BucketAdapter) readJSONSheet(ctx context.Context, key string) (models.MasterSheet, error) {
	body, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return models.MasterSheet{}, fmt.Errorf("failed to fetch sheet %s: %w", key, err)
	}
	defer body.Close()

	var sheet models.MasterSheet
	if err := json.NewDecoder(body).Decode(&sheet); err != nil {
		return models.MasterSheet{}, fmt.Errorf("failed to parse sheet %s: %w", key, err)
	}
	if sheet.SheetName == "" {
		sheet.SheetName = sheetName(key)
	}
	return sheet, nil
}

func (a *BucketAdapter) readCSVSheet(ctx context.Context, key string) (models.MasterSheet, error) {
	body, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return models.MasterSheet{}, fmt.Errorf("failed to fetch sheet %s: %w", key, err)
	}
	defer body.Close()

	libs, err := ingest.ParseCSV(body)
	if err != nil {
		return models.MasterSheet{}, fmt.Errorf("failed to parse sheet %s: %w", key, err)
	}
	return models.MasterSheet{SheetName: sheetName(key), Libraries: libs}, nil
}

// sheetName derives a sheet name from an object key: base name without
// the extension.
func sheetName(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}
