package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrBatchNotPending     = errors.New("batch is not pending")
	ErrSchedulerFault      = errors.New("batch scheduler fault")
	ErrSessionNotFound     = errors.New("work session not found")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
