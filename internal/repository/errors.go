package repository

import "errors"

// Common repository errors
var (
	ErrTableNotFound = errors.New("table configuration not found")
	ErrTableExists   = errors.New("table configuration already exists")
)
