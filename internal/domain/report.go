package domain

import "time"

// FileReport is one line of the run summary: the outcome of a single input
// file.
type FileReport struct {
	File        string    `csv:"file"`
	Status      Status    `csv:"status"`
	Rows        int       `csv:"rows"`
	Warnings    int       `csv:"warnings"`
	Error       string    `csv:"error"`
	ProcessedAt time.Time `csv:"processed_at"`
}
