package models

import "time"

// Tempo is the BPM band a song is filed under.
type Tempo string

const (
	TempoSlow          Tempo = "SLOW"
	TempoModerate      Tempo = "MODERATE"
	TempoFast          Tempo = "FAST"
	TempoVeryFast      Tempo = "VERY_FAST"
	TempoExtremelyFast Tempo = "EXTREMELY_FAST"
)

var tempoLabels = map[Tempo]string{
	TempoSlow:          "60-80 BPM",
	TempoModerate:      "80-120 BPM",
	TempoFast:          "120-160 BPM",
	TempoVeryFast:      "160-200 BPM",
	TempoExtremelyFast: "200+ BPM",
}

// Tempos lists the valid bands in display order.
func Tempos() []Tempo {
	return []Tempo{TempoSlow, TempoModerate, TempoFast, TempoVeryFast, TempoExtremelyFast}
}

// Valid reports whether the tempo is one of the fixed bands.
func (t Tempo) Valid() bool {
	_, ok := tempoLabels[t]
	return ok
}

// Label returns the human-readable BPM range for the band.
func (t Tempo) Label() string {
	return tempoLabels[t]
}

// Song is the core content unit: lyrics plus metadata and the taxonomy
// attachments it carries.
type Song struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Lyric      string    `json:"lyric" db:"lyric"`
	Tempo      Tempo     `json:"tempo" db:"tempo"`
	TempoLabel string    `json:"tempo_label"`
	CreatedBy  int64     `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	Artists   []string `json:"artists"`
	Composers []string `json:"composers"`
	Lyricists []string `json:"lyricists"`
	Languages []string `json:"languages"`
	Tags      []string `json:"tags"`
	URLs      []string `json:"urls"`
}

// SongInput carries the writable fields of a song together with the
// taxonomy references to attach, all by ID.
type SongInput struct {
	Title       string  `json:"title"`
	Lyric       string  `json:"lyric"`
	Tempo       Tempo   `json:"tempo"`
	ArtistIDs   []int64 `json:"artist_ids"`
	ComposerIDs []int64 `json:"composer_ids"`
	LyricistIDs []int64 `json:"lyricist_ids"`
	LanguageIDs []int64 `json:"language_ids"`
	TagIDs      []int64 `json:"tag_ids"`
	URLIDs      []int64 `json:"url_ids"`
}
