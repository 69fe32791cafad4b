package store

import "errors"

var (
	ErrTransferNotFound  = errors.New("transfer not found in journal")
	ErrDuplicateTransfer = errors.New("transfer already journaled")
)
