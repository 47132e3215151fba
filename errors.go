package cdat

import "errors"

var (
	ErrInvalidWordSize   = errors.New("cdat: word size must be at least 1")
	ErrInvalidShift      = errors.New("cdat: shift must be at least 1")
	ErrShiftTooLarge     = errors.New("cdat: shift must not exceed word size")
	ErrEmptyText         = errors.New("cdat: cannot index an empty text")
	ErrWordSpaceTooLarge = errors.New("cdat: word space exceeds configured maximum")
	ErrTextTooLong       = errors.New("cdat: text has too many windows")
	ErrInvalidRange      = errors.New("cdat: invalid extract range")
	ErrKindMismatch      = errors.New("cdat: index file holds a different backend")
	ErrUnknownKind       = errors.New("cdat: unknown backend kind")
	ErrCorruptIndex      = errors.New("cdat: corrupt index file")
)
