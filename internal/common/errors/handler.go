package errors

import (
	"time"
)

// Reporter normalizes errors surfaced to the user and logs them with wizard context.
type Reporter struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewReporter(logger Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs err and returns it as a StandardError. A nil err yields nil.
func (r *Reporter) Report(step string, err error) *StandardError {
	if err == nil {
		return nil
	}
	stdErr := normalizeError(err)

	fields := map[string]interface{}{
		"step":          step,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if stdErr.Retryable {
		r.logger.Warn("Recoverable wizard error", fields)
	} else {
		r.logger.Error("Wizard error", fields)
	}
	return stdErr
}

// normalizeError ensures we always have a StandardError
func normalizeError(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
