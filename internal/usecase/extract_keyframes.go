package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/framepick/framepick-extraction-service/internal/domain/entity"
	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
	"github.com/framepick/framepick-extraction-service/internal/domain/port"
	"github.com/framepick/framepick-extraction-service/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ExtractKeyFramesUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	decoder   port.VideoDecoder
	engine    *keyframe.Engine
	archiver  port.FrameArchiver
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger
	tempDir   string
	maxRetry  int
}

type ExtractKeyFramesConfig struct {
	TempDir    string
	MaxRetries int
}

func NewExtractKeyFramesUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	decoder port.VideoDecoder,
	engine *keyframe.Engine,
	archiver port.FrameArchiver,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg ExtractKeyFramesConfig,
) *ExtractKeyFramesUseCase {
	return &ExtractKeyFramesUseCase{
		repo:      repo,
		storage:   storage,
		decoder:   decoder,
		engine:    engine,
		archiver:  archiver,
		publisher: publisher,
		dlq:       dlq,
		notifier:  notifier,
		logger:    logger,
		tempDir:   cfg.TempDir,
		maxRetry:  cfg.MaxRetries,
	}
}

func (uc *ExtractKeyFramesUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ExtractKeyFramesUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.VideoExtractionMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.extractionPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *ExtractKeyFramesUseCase) extractionPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoExtractionMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Select key frames
	exStart := time.Now()
	ctx3, spanEx := tracer.Start(ctx, "extract_key_frames")
	result, err := uc.extractKeyFrames(ctx3, videoPath)
	spanEx.End()
	if err != nil {
		log.Error("key-frame extraction failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "extract_key_frames: "+err.Error(), log)
	}
	metrics.JobProcessingDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())
	metrics.KeyFramesExtractedTotal.Add(float64(len(result.Samples)))
	metrics.TierSelectedTotal.WithLabelValues(string(result.Strategy.Tier)).Inc()

	summary, err := keyframe.Summarize(result.Samples)
	if err != nil {
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "summarize: "+err.Error(), log)
	}

	// Archive selected frames
	arStart := time.Now()
	ctx4, spanAr := tracer.Start(ctx, "archive_frames")
	archivePath := filepath.Join(workDir, "keyframes.zip")
	if err := uc.archiver.ArchiveFrames(ctx4, result.Samples, archivePath); err != nil {
		spanAr.End()
		log.Error("frame archiving failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "archive_frames: "+err.Error(), log)
	}
	spanAr.End()
	metrics.JobProcessingDuration.WithLabelValues("archive").Observe(time.Since(arStart).Seconds())

	// Upload archive to MinIO
	upStart := time.Now()
	ctx5, spanUp := tracer.Start(ctx, "upload_archive")
	archiveKey := fmt.Sprintf("%s/keyframes_%s.zip", msg.UserID, job.ID.String())
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		spanUp.End()
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "open_archive: "+err.Error(), log)
	}
	archiveStat, _ := archiveFile.Stat()
	if err := uc.storage.UploadArchive(ctx5, archiveKey, archiveFile, archiveStat.Size()); err != nil {
		archiveFile.Close()
		spanUp.End()
		log.Error("archive upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_archive: "+err.Error(), log)
	}
	archiveFile.Close()
	spanUp.End()
	metrics.JobProcessingDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	// Mark completed
	job.MarkCompleted(archiveKey, string(result.Strategy.Tier), len(result.Samples), result.Duration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, summary.Coverage, log)

	log.Info("job completed successfully",
		zap.Int("key_frame_count", len(result.Samples)),
		zap.String("tier", string(result.Strategy.Tier)),
		zap.Float64("duration_secs", result.Duration),
		zap.String("coverage", summary.Coverage),
		zap.Float64("mean_confidence", summary.MeanConfidence),
		zap.Float64("span_start_secs", summary.SpanStart),
		zap.Float64("span_end_secs", summary.SpanEnd),
		zap.Int("time_distributed", summary.MethodCounts[keyframe.MethodTimeDistributed]),
		zap.Int("content_aware", summary.MethodCounts[keyframe.MethodContentAware]),
		zap.String("archive_key", archiveKey),
	)

	return nil
}

// extractKeyFrames opens the decode handle, runs the engine, and guarantees
// the handle is released on every exit path.
func (uc *ExtractKeyFramesUseCase) extractKeyFrames(ctx context.Context, videoPath string) (*keyframe.Result, error) {
	video, err := uc.decoder.Open(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	defer video.Close()

	return uc.engine.Extract(ctx, video)
}

func (uc *ExtractKeyFramesUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoExtractionMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, "", log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ExtractKeyFramesUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoExtractionMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, "", uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *ExtractKeyFramesUseCase) publishStatus(ctx context.Context, job *entity.Job, coverage string, log *zap.Logger) {
	statusMsg := entity.ExtractionStatusMessage{
		JobID:         job.ID,
		UserID:        job.UserID,
		Status:        job.Status,
		VideoKey:      job.VideoKey,
		ArchiveKey:    job.ArchiveKey,
		StrategyTier:  job.StrategyTier,
		KeyFrameCount: job.KeyFrameCount,
		Duration:      job.VideoDuration,
		Coverage:      coverage,
		ErrorMessage:  job.ErrorMessage,
		Attempt:       job.Attempt,
		MaxAttempts:   job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
