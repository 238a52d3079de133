package models

// Genre classifies songs. Genres are never created implicitly.
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Artist is a catalog artist. Names are unique across the catalog.
type Artist struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	PhotoURL *string `json:"photoUrl,omitempty" db:"photo_url"`
}

// Ref returns the identity of the artist.
func (a Artist) Ref() ArtistRef {
	return ArtistRef{ID: a.ID, Name: a.Name}
}

// ArtistRef identifies a resolved artist.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album belongs to exactly one artist; (Name, ArtistID) is unique.
type Album struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	ArtistID   int64   `json:"artistId" db:"artist_id"`
	CoverURL   *string `json:"coverUrl,omitempty" db:"cover_url"`
	ArtistName string  `json:"artist,omitempty" db:"-"`
}

// Ref returns the identity of the album.
func (a Album) Ref() AlbumRef {
	return AlbumRef{ID: a.ID, Name: a.Name, ArtistID: a.ArtistID}
}

// AlbumRef identifies a resolved album.
type AlbumRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ArtistID int64  `json:"artistId"`
}

// Song is a playable track. ArtistID and AlbumID hold the stored references;
// Display carries the values resolved through the album at read time.
type Song struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	ArtistID *int64  `json:"artistId,omitempty" db:"artist_id"`
	AlbumID  *int64  `json:"albumId,omitempty" db:"album_id"`
	GenreID  int64   `json:"genreId" db:"genre_id"`
	Likes    int     `json:"likes" db:"likes"`
	AudioURL string  `json:"audioUrl" db:"audio_url"`
	CoverURL *string `json:"coverUrl,omitempty" db:"cover_url"`

	Display SongDisplay `json:"display" db:"-"`
}

// SongDisplay holds read-time values. ArtistID falls back to the album's
// artist and CoverURL to the album cover when the song has none of its own.
type SongDisplay struct {
	ArtistID *int64  `json:"artistId,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Album    string  `json:"album,omitempty"`
	Genre    string  `json:"genre,omitempty"`
	CoverURL *string `json:"coverUrl,omitempty"`
}

// Files lists the file references stored on the song row itself.
func (s Song) Files() []string {
	files := []string{}
	if s.AudioURL != "" {
		files = append(files, s.AudioURL)
	}
	if s.CoverURL != nil && *s.CoverURL != "" {
		files = append(files, *s.CoverURL)
	}
	return files
}
