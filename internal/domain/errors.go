package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrEmptySelection     = errors.New("no shots selected")
	ErrInvalidSeed        = errors.New("seed must be between 0 and 2147483647")
	ErrMissingAsset       = errors.New("required asset missing")
	ErrToggleNotCapable   = errors.New("toggle not available for current framing")
	ErrInvalidSideOnly    = errors.New("side-only override must name a technical view")
	ErrInvalidSlot        = errors.New("invalid asset slot")
	ErrProviderFailure    = errors.New("provider failure")
	ErrBatchNotFound      = errors.New("batch not found")
)
