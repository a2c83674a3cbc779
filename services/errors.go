package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге ответов.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid handle or password")
	ErrHandleConflict     = errors.New("handle is already taken")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("admin privileges required")

	ErrGameNotFound   = errors.New("game not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrResultNotFound = errors.New("result not found")
)
