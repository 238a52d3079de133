package models

// Playlist is a user-curated, unordered set of songs.
type Playlist struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	OwnerID   int64  `json:"ownerId" db:"user_id"`
	SongCount int    `json:"songCount" db:"song_count"`
}

// Membership links a song to a playlist. A pair appears at most once.
type Membership struct {
	PlaylistID int64 `json:"playlistId" db:"playlist_id"`
	SongID     int64 `json:"songId" db:"song_id"`
}
