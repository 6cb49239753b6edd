package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidateID      = "candidate_id"
	FieldActionItemID     = "action_item_id"
	FieldFitScore         = "fit_score"
	FieldStatus           = "status"
	FieldNotificationKind = "notification_kind"
	FieldProvider         = "scoring_provider"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when
// nil is passed.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

func CandidateFields(candidateID, status string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidateID, Value: candidateID},
		StringField{Key: FieldStatus, Value: status},
	)
}

func WithCandidate(logger *zap.Logger, candidateID, status string) *zap.Logger {
	return WithFields(logger, CandidateFields(candidateID, status)...)
}
