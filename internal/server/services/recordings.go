package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/logging"
	"github.com/dmitrijs2005/shadowinterview/internal/metrics"
	"github.com/dmitrijs2005/shadowinterview/internal/recorder"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Recorder is the capture side the service drives; *recorder.Coordinator
// implements it.
type Recorder interface {
	Start(ctx context.Context, userID string) error
	Stop(ctx context.Context, userID string) (recorder.Result, error)
}

// Archiver copies finished recordings to long-term storage.
type Archiver interface {
	Upload(ctx context.Context, userID, path string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

// RecordingResult is what a successful stop reports to the user.
type RecordingResult struct {
	FileName      string
	Transcription string
}

// RecordingView is a stored recording plus, when archived, a download link.
type RecordingView struct {
	*models.Recording
	DownloadURL string
}

// RecordingService runs answer capture for users and keeps track of what was
// recorded.
type RecordingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    Recorder
	// archive is nil when archiving is disabled.
	archive Archiver
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewRecordingService(db *sql.DB, m repomanager.RepositoryManager, r Recorder, a Archiver, l logging.Logger, mt *metrics.Metrics) *RecordingService {
	return &RecordingService{
		db:          db,
		repomanager: m,
		recorder:    r,
		archive:     a,
		logger:      l.With("module", "recordings"),
		metrics:     mt,
	}
}

func (s *RecordingService) Start(ctx context.Context, userID string) error {
	return s.recorder.Start(ctx, userID)
}

// Stop finishes the user's capture and returns the saved file name and its
// transcription. Archiving and the metadata row are best effort: their
// failures are logged and do not fail the stop.
func (s *RecordingService) Stop(ctx context.Context, userID string) (*RecordingResult, error) {
	res, err := s.recorder.Stop(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec := &models.Recording{
		ID:            uuid.NewString(),
		UserID:        userID,
		FileName:      res.FileName,
		Transcription: res.Transcription,
		Duration:      res.Duration,
	}

	if s.archive != nil {
		started := time.Now()
		key, err := s.archive.Upload(ctx, userID, res.Path)
		if err != nil {
			s.metrics.ArchiveFailures.Inc()
			s.logger.Error(ctx, "archive upload failed", "user_id", userID, "file", res.FileName, "error", err)
		} else {
			s.metrics.ArchiveUploads.Inc()
			s.logger.Debug(ctx, "recording archived", "user_id", userID, "key", key, "took", time.Since(started))
			rec.StorageKey = key
		}
	}

	if err := s.repomanager.Recordings(s.db).Create(ctx, rec); err != nil {
		s.logger.Error(ctx, "store recording metadata", "user_id", userID, "file", res.FileName, "error", err)
	}

	return &RecordingResult{FileName: res.FileName, Transcription: res.Transcription}, nil
}

// List returns the user's recordings, newest first. Download links are only
// attached to archived recordings; a failing presign leaves the link empty.
func (s *RecordingService) List(ctx context.Context, userID string) ([]*RecordingView, error) {
	recs, err := s.repomanager.Recordings(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*RecordingView, 0, len(recs))
	for _, r := range recs {
		v := &RecordingView{Recording: r}
		if s.archive != nil && r.StorageKey != "" {
			url, err := s.archive.DownloadURL(ctx, r.StorageKey)
			if err != nil {
				s.logger.Warn(ctx, "presign download", "key", r.StorageKey, "error", err)
			} else {
				v.DownloadURL = url
			}
		}
		out = append(out, v)
	}
	return out, nil
}
