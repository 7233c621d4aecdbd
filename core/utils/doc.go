// Package utils provides common utility functions for prompt-mixer.
// It includes the loose integer coercion used for spreadsheet weight cells
// that arrive as strings, bytes, or numbers.
package utils
