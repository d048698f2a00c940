package models

import (
	"errors"
	"fmt"
)

var ErrInvalidEntry = errors.New("invalid entry")

// Entry is one blog post as returned by the listing and search endpoints.
// Entries are read-only on the client and never persisted.
type Entry struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	AuthorID int64     `json:"authorId"`
	Updated  Timestamp `json:"updated"`
}

func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidEntry, e.ID)
	}
	if e.AuthorID <= 0 {
		return fmt.Errorf("%w: entry %d has no author", ErrInvalidEntry, e.ID)
	}
	return nil
}

// Page is the paginated listing wrapper (Spring Data page shape).
type Page struct {
	Content       []Entry `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int64   `json:"totalElements"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
	Last          bool    `json:"last"`
}

// EntryDetail is a single entry with the server's recommendations.
type EntryDetail struct {
	Entry
	Recommended []Entry `json:"recommended"`
}

// EntryView is an Entry with its author resolved, ready for rendering.
type EntryView struct {
	ID      int64
	Title   string
	Content string
	Author  string
	Updated Timestamp
}

func NewEntryView(e Entry, author string) EntryView {
	return EntryView{
		ID:      e.ID,
		Title:   e.Title,
		Content: e.Content,
		Author:  author,
		Updated: e.Updated,
	}
}
