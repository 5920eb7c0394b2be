package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/download"
)

const downloadColumns = `id, user_id, course_id, lesson_id, video_url, lesson_title, course_title,
	duration, file_size, downloaded_at`

type downloadRepository struct {
	db *sqlx.DB
}

var _ download.Repository = (*downloadRepository)(nil) // interface compliance check

func NewDownloadRepository(db *sqlx.DB) download.Repository {
	return &downloadRepository{db: db}
}

func (repo *downloadRepository) CreateDownload(ctx context.Context, v download.Video) (download.Video, error) {
	stmt, err := repo.db.PrepareNamedContext(ctx, `
		INSERT INTO downloaded_video (user_id, course_id, lesson_id, video_url, lesson_title, course_title,
			duration, file_size, downloaded_at)
		VALUES (:user_id, :course_id, :lesson_id, :video_url, :lesson_title, :course_title,
			:duration, :file_size, :downloaded_at)
		RETURNING id`)
	if err != nil {
		return download.Video{}, errors.Wrap(err, "preparing download insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &v.ID, v); err != nil {
		if isUniqueViolation(err) {
			return download.Video{}, download.ErrAlreadyDownloaded
		}
		return download.Video{}, errors.Wrap(err, "inserting download")
	}
	return v, nil
}

func (repo *downloadRepository) GetDownload(ctx context.Context, id int) (download.Video, error) {
	return repo.getOne(ctx, "SELECT "+downloadColumns+" FROM downloaded_video WHERE id = $1", id)
}

func (repo *downloadRepository) GetDownloadByURL(ctx context.Context, userID, videoURL string) (download.Video, error) {
	return repo.getOne(ctx,
		"SELECT "+downloadColumns+" FROM downloaded_video WHERE user_id = $1 AND video_url = $2", userID, videoURL)
}

func (repo *downloadRepository) getOne(ctx context.Context, query string, args ...interface{}) (download.Video, error) {
	var v download.Video
	if err := repo.db.GetContext(ctx, &v, query, args...); err != nil {
		return download.Video{}, notFound(err, download.ErrNotFound)
	}
	v.DownloadedAt = v.DownloadedAt.UTC()
	return v, nil
}

func (repo *downloadRepository) QueryDownloads(ctx context.Context, userID string) ([]download.Video, error) {
	videos := make([]download.Video, 0)
	err := repo.db.SelectContext(ctx, &videos,
		"SELECT "+downloadColumns+" FROM downloaded_video WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting downloads")
	}
	for i := range videos {
		videos[i].DownloadedAt = videos[i].DownloadedAt.UTC()
	}
	return videos, nil
}

func (repo *downloadRepository) DeleteDownload(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM downloaded_video WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting download")
	}
	return mustAffect(res, download.ErrNotFound)
}
