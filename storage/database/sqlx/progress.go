package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/progress"
)

const progressColumns = `id, user_id, course_id, completed_lessons, overall_progress,
	last_accessed, completed_date, certificate_id, created_at`

// progressRow is a progress row; quiz scores live in the quiz_score table.
type progressRow struct {
	ID              int            `db:"id"`
	UserID          string         `db:"user_id"`
	CourseID        int            `db:"course_id"`
	Lessons         pq.StringArray `db:"completed_lessons"`
	OverallProgress float64        `db:"overall_progress"`
	LastAccessed    time.Time      `db:"last_accessed"`
	CompletedDate   *time.Time     `db:"completed_date"`
	CertificateID   string         `db:"certificate_id"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (row progressRow) record() progress.Record {
	rec := progress.Record{
		ID:               row.ID,
		UserID:           row.UserID,
		CourseID:         row.CourseID,
		CompletedLessons: []string(row.Lessons),
		QuizScores:       map[string]float64{},
		OverallProgress:  row.OverallProgress,
		LastAccessed:     row.LastAccessed.UTC(),
		CertificateID:    row.CertificateID,
		CreatedAt:        row.CreatedAt.UTC(),
	}
	if rec.CompletedLessons == nil {
		rec.CompletedLessons = []string{}
	}
	if row.CompletedDate != nil {
		d := row.CompletedDate.UTC()
		rec.CompletedDate = &d
	}
	return rec
}

type quizScoreRow struct {
	ProgressID int     `db:"progress_id"`
	LessonID   string  `db:"lesson_id"`
	Score      float64 `db:"score"`
}

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) CreateProgress(ctx context.Context, rec progress.Record) (progress.Record, error) {
	err := inTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO progress (user_id, course_id, completed_lessons, overall_progress,
				last_accessed, completed_date, certificate_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			rec.UserID, rec.CourseID, pq.StringArray(lessons(rec)), rec.OverallProgress,
			rec.LastAccessed, rec.CompletedDate, rec.CertificateID, rec.CreatedAt,
		).Scan(&rec.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return progress.ErrExists
			}
			return errors.Wrap(err, "inserting progress")
		}
		return insertScores(ctx, tx, rec)
	})
	if err != nil {
		return progress.Record{}, err
	}
	return repo.GetProgress(ctx, rec.ID)
}

func (repo *progressRepository) GetProgress(ctx context.Context, id int) (progress.Record, error) {
	return repo.getOne(ctx, "SELECT "+progressColumns+" FROM progress WHERE id = $1", id)
}

func (repo *progressRepository) GetCourseProgress(ctx context.Context, userID string, courseID int) (progress.Record, error) {
	return repo.getOne(ctx, "SELECT "+progressColumns+" FROM progress WHERE user_id = $1 AND course_id = $2", userID, courseID)
}

func (repo *progressRepository) getOne(ctx context.Context, query string, args ...interface{}) (progress.Record, error) {
	var row progressRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return progress.Record{}, notFound(err, progress.ErrNotFound)
	}
	rec := row.record()

	var scores []quizScoreRow
	err := repo.db.SelectContext(ctx, &scores,
		"SELECT progress_id, lesson_id, score FROM quiz_score WHERE progress_id = $1", rec.ID)
	if err != nil {
		return progress.Record{}, errors.Wrap(err, "selecting quiz scores")
	}
	for _, s := range scores {
		rec.QuizScores[s.LessonID] = s.Score
	}
	return rec, nil
}

func (repo *progressRepository) QueryProgress(ctx context.Context, userID string) ([]progress.Record, error) {
	var rows []progressRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT "+progressColumns+" FROM progress WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting progress")
	}

	var scores []quizScoreRow
	err = repo.db.SelectContext(ctx, &scores, `
		SELECT qs.progress_id, qs.lesson_id, qs.score
		FROM quiz_score qs JOIN progress p ON p.id = qs.progress_id
		WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting quiz scores")
	}

	records := make([]progress.Record, 0, len(rows))
	index := make(map[int]int, len(rows))
	for i, row := range rows {
		records = append(records, row.record())
		index[row.ID] = i
	}
	for _, s := range scores {
		if i, ok := index[s.ProgressID]; ok {
			records[i].QuizScores[s.LessonID] = s.Score
		}
	}
	return records, nil
}

func (repo *progressRepository) UpdateProgress(ctx context.Context, rec progress.Record) (progress.Record, error) {
	err := inTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE progress SET completed_lessons = $2, overall_progress = $3, last_accessed = $4,
				completed_date = CASE WHEN certificate_id = '' THEN $5 ELSE completed_date END,
				certificate_id = CASE WHEN certificate_id = '' THEN $6 ELSE certificate_id END
			WHERE id = $1`,
			rec.ID, pq.StringArray(lessons(rec)), rec.OverallProgress, rec.LastAccessed,
			rec.CompletedDate, rec.CertificateID,
		)
		if err != nil {
			return errors.Wrap(err, "updating progress")
		}
		if err = mustAffect(res, progress.ErrNotFound); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM quiz_score WHERE progress_id = $1", rec.ID); err != nil {
			return errors.Wrap(err, "deleting quiz scores")
		}
		return insertScores(ctx, tx, rec)
	})
	if err != nil {
		return progress.Record{}, err
	}
	return repo.GetProgress(ctx, rec.ID)
}

func (repo *progressRepository) DeleteProgress(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM progress WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting progress")
	}
	return mustAffect(res, progress.ErrNotFound)
}

func insertScores(ctx context.Context, tx *sqlx.Tx, rec progress.Record) error {
	for lessonID, score := range rec.QuizScores {
		_, err := tx.NamedExecContext(ctx,
			"INSERT INTO quiz_score (progress_id, lesson_id, score) VALUES (:progress_id, :lesson_id, :score)",
			quizScoreRow{ProgressID: rec.ID, LessonID: lessonID, Score: score},
		)
		if err != nil {
			return errors.Wrap(err, "inserting quiz score")
		}
	}
	return nil
}

func lessons(rec progress.Record) []string {
	if rec.CompletedLessons == nil {
		return []string{}
	}
	return rec.CompletedLessons
}
