package entity

import "github.com/google/uuid"

// VideoExtractionMessage is the inbound message from the video.extraction queue.
type VideoExtractionMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	FileSize  int64     `json:"file_size"`
	UserEmail string    `json:"user_email"`
}

// ExtractionStatusMessage is the outbound message published to the video.status queue.
type ExtractionStatusMessage struct {
	JobID         uuid.UUID `json:"job_id"`
	UserID        string    `json:"user_id"`
	Status        JobStatus `json:"status"`
	VideoKey      string    `json:"video_key"`
	ArchiveKey    string    `json:"archive_key,omitempty"`
	StrategyTier  string    `json:"strategy_tier,omitempty"`
	KeyFrameCount int       `json:"key_frame_count,omitempty"`
	Duration      float64   `json:"duration_seconds,omitempty"`
	Coverage      string    `json:"coverage,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Attempt       int       `json:"attempt"`
	MaxAttempts   int       `json:"max_attempts"`
}
