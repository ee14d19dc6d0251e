package library

import "time"

// StatusSuccess is the response status the backend uses for accepted writes.
const StatusSuccess = "success"

// Book availability states.
const (
	StatusAvailable = "Available"
	StatusBorrowed  = "Borrowed"
)

// Entry is the record submitted to the persistence endpoint.
type Entry struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// Response is the persistence endpoint's reply to a write.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Book is one stored library entry as returned by the backend.
type Book struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Author    string    `json:"author" yaml:"author"`
	Category  string    `json:"category" yaml:"category"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Stats summarises availability across the library.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Available int `json:"available" yaml:"available"`
	Borrowed  int `json:"borrowed" yaml:"borrowed"`
}

// Summarize counts books by status.
func Summarize(books []Book) Stats {
	stats := Stats{Total: len(books)}
	for _, b := range books {
		if b.Status == StatusAvailable {
			stats.Available++
		}
	}
	stats.Borrowed = stats.Total - stats.Available
	return stats
}

// UnreachableMessage is shown when a write never got a reply from the backend.
const UnreachableMessage = "Could not reach the library. Please try again later."
