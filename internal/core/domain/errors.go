package domain

import "errors"

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrInvalidRequestBody  = errors.New("invalid request body")
	ErrDescriptionRequired = errors.New("Description is required")
	ErrMessageRequired     = errors.New("Message is required")
	ErrArchiveRequired     = errors.New("JAR file required")
	ErrRequestTooLarge     = errors.New("request body too large")
)

// ============================================================================
// Completion Service Errors
// ============================================================================

var (
	ErrLLMNotConfigured = errors.New("OpenAI API key not configured")
	ErrUpstreamCall     = errors.New("completion service call failed")
	ErrEmptyCompletion  = errors.New("completion service returned no content")
	ErrInterpretation   = errors.New("failed to parse AI response")
)

// ============================================================================
// Archive Errors
// ============================================================================

var (
	ErrArchiveDecode   = errors.New("invalid mod archive")
	ErrArchiveTooLarge = errors.New("mod archive exceeds size limit")
)
