package minio

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// DatasetRepo реализует архив исходных датасетов поверх MinIO.
// Каждая загрузка каталога сохраняется как есть, чтобы её можно было
// воспроизвести или разобрать постфактум.
type DatasetRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewDatasetRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *DatasetRepo {
	return &DatasetRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Archive сохраняет исходный файл датасета и возвращает ключ объекта.
// Ключ включает метку времени, чтобы повторные загрузки одного файла
// не затирали друг друга.
func (d *DatasetRepo) Archive(ctx context.Context, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("datasets/%s/%s", time.Now().UTC().Format("2006-01-02T15-04-05Z"), filepath.Base(filename))

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := d.mc.PutObject(ctx, d.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
