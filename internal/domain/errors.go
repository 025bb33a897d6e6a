package domain

import "errors"

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrLedger             = errors.New("ledger failure")
	ErrUpload             = errors.New("upload failed")
	ErrJobRequest         = errors.New("job request failed")
	ErrJobFailed          = errors.New("job failed")
	ErrPollTimeout        = errors.New("poll timeout")
	ErrModelAssetNotFound = errors.New("model asset not found")
	ErrCompose            = errors.New("compose failed")
)
