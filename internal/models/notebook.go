package models

import "time"

// Notebook is a user-private container of folders.
type Notebook struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
}

// Folder groups list items inside exactly one notebook.
type Folder struct {
	ID         int64  `json:"id" db:"id"`
	NotebookID int64  `json:"notebook_id" db:"notebook_id"`
	Name       string `json:"name" db:"name"`
}

// ListItem files one song into one folder. It has no meaning without
// both; removing either removes the item.
type ListItem struct {
	ID       int64     `json:"id" db:"id"`
	FolderID int64     `json:"folder_id" db:"folder_id"`
	SongID   int64     `json:"song_id" db:"song_id"`
	AddedAt  time.Time `json:"added_at" db:"added_at"`
}

// TaxonomyEntry is shared, unowned vocabulary attached to songs: an
// artist, composer, lyricist, tag or language.
type TaxonomyEntry struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// URL is an unowned link attachable to songs.
type URL struct {
	ID  int64  `json:"id" db:"id"`
	URL string `json:"url" db:"url"`
}
