package integration

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/framepick/framepick-extraction-service/internal/domain/entity"
	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
	"github.com/framepick/framepick-extraction-service/internal/infra/email"
	"github.com/framepick/framepick-extraction-service/internal/infra/ffmpeg"
	miniostorage "github.com/framepick/framepick-extraction-service/internal/infra/minio"
	"github.com/framepick/framepick-extraction-service/internal/infra/postgres"
	"github.com/framepick/framepick-extraction-service/internal/infra/rabbitmq"
	"github.com/framepick/framepick-extraction-service/internal/usecase"
	"github.com/framepick/framepick-extraction-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

func TestExtractKeyFramesEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("jobs"),
		tcpostgres.WithUsername("job_user"),
		tcpostgres.WithPassword("job_pass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start RabbitMQ container
	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	defer rmqContainer.Terminate(ctx)

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	// Start MinIO container
	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	minioEndpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Run migrations
	err = postgres.RunMigrations(pgConnStr, "../../migrations")
	require.NoError(t, err)

	// Setup MinIO storage
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:      minioEndpoint,
		AccessKey:     "minioadmin",
		SecretKey:     "minioadmin",
		UseSSL:        false,
		UploadBucket:  "uploads",
		ArchiveBucket: "keyframes",
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBuckets(ctx))

	// Generate a 3s test video: red for 1.5s, then blue.
	testVideoPath := generateTestVideo(t)

	minioClient, err := miniogo.New(minioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	videoKey := "testuser/test.mp4"
	_, err = minioClient.FPutObject(ctx, "uploads", videoKey, testVideoPath, miniogo.PutObjectOptions{
		ContentType: "video/mp4",
	})
	require.NoError(t, err)

	// Setup RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, "framepick.video")
	require.NoError(t, err)

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, "video.extraction.dlq")

	// Database pool and repository
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	defer pool.Close()

	log, err := logger.New("debug")
	require.NoError(t, err)

	repo := postgres.NewJobRepository(pool)
	decoder := ffmpeg.NewDecoder(log)
	archiver := ffmpeg.NewFrameArchiver()
	notifier := email.NewSMTPNotifier("localhost", 1025, "noreply@framepick.local", log)
	engine := keyframe.NewEngine(keyframe.DefaultConfig(), log)

	uc := usecase.NewExtractKeyFramesUseCase(
		repo, storage, decoder, engine, archiver,
		statusPub, dlqPub, notifier,
		log,
		usecase.ExtractKeyFramesConfig{TempDir: t.TempDir(), MaxRetries: 3},
	)

	// Execute one extraction end to end
	msg := entity.VideoExtractionMessage{
		JobID:    uuid.New(),
		UserID:   "testuser",
		VideoKey: videoKey,
		FileSize: fileSize(t, testVideoPath),
	}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, uc.Execute(ctx, raw))

	// Job row must be COMPLETED with a short-tier budget-compliant count.
	job, err := repo.FindByID(ctx, msg.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, string(keyframe.TierShort), job.StrategyTier)
	assert.GreaterOrEqual(t, job.KeyFrameCount, 2)
	assert.LessOrEqual(t, job.KeyFrameCount, 3)
	require.NotEmpty(t, job.ArchiveKey)

	// Archive must exist in MinIO and contain one PNG per key frame.
	archivePath := filepath.Join(t.TempDir(), "result.zip")
	err = minioClient.FGetObject(ctx, "keyframes", job.ArchiveKey, archivePath, miniogo.GetObjectOptions{})
	require.NoError(t, err)

	reader, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer reader.Close()

	assert.Len(t, reader.File, job.KeyFrameCount)
	for _, f := range reader.File {
		assert.True(t, strings.HasPrefix(f.Name, "frame_"), "unexpected archive entry %s", f.Name)
		assert.True(t, strings.HasSuffix(f.Name, ".png"), "unexpected archive entry %s", f.Name)
	}
}

// generateTestVideo renders a 3s two-scene clip with ffmpeg so the content
// pass has a real change to find.
func generateTestVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mp4")

	cmd := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "color=c=red:size=320x240:rate=10:duration=1.5",
		"-f", "lavfi", "-i", "color=c=blue:size=320x240:rate=10:duration=1.5",
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1[out]",
		"-map", "[out]",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-y", path,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "generate test video: %s", string(out))
	return path
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}
