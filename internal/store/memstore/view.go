package memstore

import (
	"context"
	"sort"
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
	"melodia/internal/store"
)

// view implements store.Queries over one state without locking. The caller
// holds the store lock for the lifetime of the view.
type view struct {
	state *state
}

var _ store.Queries = (*view)(nil)

func (v *view) CreateGenre(_ context.Context, name string) (models.Genre, error) {
	for _, g := range v.state.genres {
		if g.Name == name {
			return models.Genre{}, apperr.NewConflict("genre", "genre name already exists")
		}
	}
	v.state.next.genre++
	genre := models.Genre{ID: v.state.next.genre, Name: name}
	v.state.genres[genre.ID] = genre
	return genre, nil
}

func (v *view) GenreByID(_ context.Context, id int64) (models.Genre, error) {
	genre, ok := v.state.genres[id]
	if !ok {
		return models.Genre{}, apperr.NewNotFound("genre")
	}
	return genre, nil
}

func (v *view) ListGenres(_ context.Context) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(v.state.genres))
	for _, g := range v.state.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Name != genres[j].Name {
			return genres[i].Name < genres[j].Name
		}
		return genres[i].ID < genres[j].ID
	})
	return genres, nil
}

func (v *view) DeleteGenre(_ context.Context, id int64) (bool, error) {
	if _, ok := v.state.genres[id]; !ok {
		return false, nil
	}
	for _, s := range v.state.songs {
		if s.GenreID == id {
			return false, apperr.NewConflict("genre", "genre is still referenced")
		}
	}
	delete(v.state.genres, id)
	return true, nil
}

func (v *view) CreateArtist(_ context.Context, artist models.Artist) (models.Artist, error) {
	if _, ok := v.artistByName(artist.Name); ok {
		return models.Artist{}, apperr.NewConflict("artist", "artist name already exists")
	}
	return v.insertArtist(artist.Name, emptyToNil(artist.PhotoURL)), nil
}

func (v *view) InsertArtistIfAbsent(_ context.Context, name string) (models.Artist, bool, error) {
	if _, ok := v.artistByName(name); ok {
		return models.Artist{}, false, nil
	}
	return v.insertArtist(name, nil), true, nil
}

func (v *view) insertArtist(name string, photo *string) models.Artist {
	v.state.next.artist++
	artist := models.Artist{ID: v.state.next.artist, Name: name, PhotoURL: photo}
	v.state.artists[artist.ID] = artist
	return artist
}

func (v *view) artistByName(name string) (models.Artist, bool) {
	for _, a := range v.state.artists {
		if a.Name == name {
			return a, true
		}
	}
	return models.Artist{}, false
}

func (v *view) ArtistByID(_ context.Context, id int64) (models.Artist, error) {
	artist, ok := v.state.artists[id]
	if !ok {
		return models.Artist{}, apperr.NewNotFound("artist")
	}
	return artist, nil
}

func (v *view) ArtistByName(_ context.Context, name string) (models.Artist, error) {
	artist, ok := v.artistByName(name)
	if !ok {
		return models.Artist{}, apperr.NewNotFound("artist")
	}
	return artist, nil
}

func (v *view) ListArtists(_ context.Context, filter store.ArtistFilter) ([]models.Artist, error) {
	artists := make([]models.Artist, 0)
	for _, a := range v.state.artists {
		if contains(a.Name, filter.Name) {
			artists = append(artists, a)
		}
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Name < artists[j].Name })
	return artists, nil
}

func (v *view) UpdateArtist(ctx context.Context, id int64, patch store.ArtistPatch) (models.Artist, error) {
	artist, err := v.ArtistByID(ctx, id)
	if err != nil {
		return models.Artist{}, err
	}
	if patch.Name != nil {
		if other, ok := v.artistByName(*patch.Name); ok && other.ID != id {
			return models.Artist{}, apperr.NewConflict("artist", "artist name already exists")
		}
		artist.Name = *patch.Name
	}
	if patch.PhotoURL != nil {
		artist.PhotoURL = emptyToNil(patch.PhotoURL)
	}
	v.state.artists[id] = artist
	return artist, nil
}

func (v *view) DeleteArtist(_ context.Context, id int64) (bool, error) {
	if _, ok := v.state.artists[id]; !ok {
		return false, nil
	}
	for _, al := range v.state.albums {
		if al.ArtistID == id {
			return false, apperr.NewConflict("artist", "artist is still referenced")
		}
	}
	for _, s := range v.state.songs {
		if s.ArtistID != nil && *s.ArtistID == id {
			return false, apperr.NewConflict("artist", "artist is still referenced")
		}
	}
	delete(v.state.artists, id)
	return true, nil
}

func (v *view) CreateAlbum(_ context.Context, album models.Album) (models.Album, error) {
	if _, ok := v.state.artists[album.ArtistID]; !ok {
		return models.Album{}, apperr.NewNotFound("artist")
	}
	if _, ok := v.albumByKey(album.Name, album.ArtistID); ok {
		return models.Album{}, apperr.NewConflict("album", "album already exists for this artist")
	}
	return v.insertAlbum(album.Name, album.ArtistID, emptyToNil(album.CoverURL)), nil
}

func (v *view) InsertAlbumIfAbsent(_ context.Context, name string, artistID int64) (models.Album, bool, error) {
	if _, ok := v.state.artists[artistID]; !ok {
		return models.Album{}, false, apperr.NewNotFound("artist")
	}
	if _, ok := v.albumByKey(name, artistID); ok {
		return models.Album{}, false, nil
	}
	return v.insertAlbum(name, artistID, nil), true, nil
}

func (v *view) insertAlbum(name string, artistID int64, cover *string) models.Album {
	v.state.next.album++
	album := models.Album{ID: v.state.next.album, Name: name, ArtistID: artistID, CoverURL: cover}
	v.state.albums[album.ID] = album
	return v.decorateAlbum(album)
}

func (v *view) albumByKey(name string, artistID int64) (models.Album, bool) {
	for _, al := range v.state.albums {
		if al.Name == name && al.ArtistID == artistID {
			return al, true
		}
	}
	return models.Album{}, false
}

func (v *view) decorateAlbum(album models.Album) models.Album {
	album.ArtistName = v.state.artists[album.ArtistID].Name
	return album
}

func (v *view) AlbumByID(_ context.Context, id int64) (models.Album, error) {
	album, ok := v.state.albums[id]
	if !ok {
		return models.Album{}, apperr.NewNotFound("album")
	}
	return v.decorateAlbum(album), nil
}

func (v *view) AlbumByNameAndArtist(_ context.Context, name string, artistID int64) (models.Album, error) {
	album, ok := v.albumByKey(name, artistID)
	if !ok {
		return models.Album{}, apperr.NewNotFound("album")
	}
	return v.decorateAlbum(album), nil
}

func (v *view) ListAlbums(_ context.Context, filter store.AlbumFilter) ([]models.Album, error) {
	albums := make([]models.Album, 0)
	for _, al := range v.state.albums {
		if !contains(al.Name, filter.Name) {
			continue
		}
		if filter.ArtistID != nil && al.ArtistID != *filter.ArtistID {
			continue
		}
		albums = append(albums, v.decorateAlbum(al))
	}
	sort.Slice(albums, func(i, j int) bool {
		if albums[i].Name != albums[j].Name {
			return albums[i].Name < albums[j].Name
		}
		return albums[i].ID < albums[j].ID
	})
	return albums, nil
}

func (v *view) UpdateAlbum(_ context.Context, id int64, patch store.AlbumPatch) (models.Album, error) {
	album, ok := v.state.albums[id]
	if !ok {
		return models.Album{}, apperr.NewNotFound("album")
	}
	if patch.Name != nil {
		album.Name = *patch.Name
	}
	if patch.ArtistID != nil {
		if _, ok := v.state.artists[*patch.ArtistID]; !ok {
			return models.Album{}, apperr.NewNotFound("artist")
		}
		album.ArtistID = *patch.ArtistID
	}
	if patch.CoverURL != nil {
		album.CoverURL = emptyToNil(patch.CoverURL)
	}
	if other, ok := v.albumByKey(album.Name, album.ArtistID); ok && other.ID != id {
		return models.Album{}, apperr.NewConflict("album", "album already exists for this artist")
	}
	v.state.albums[id] = album
	return v.decorateAlbum(album), nil
}

func (v *view) DeleteAlbum(_ context.Context, id int64) (bool, error) {
	if _, ok := v.state.albums[id]; !ok {
		return false, nil
	}
	for _, s := range v.state.songs {
		if s.AlbumID != nil && *s.AlbumID == id {
			return false, apperr.NewConflict("album", "album is still referenced")
		}
	}
	delete(v.state.albums, id)
	return true, nil
}

func (v *view) CreateSong(_ context.Context, song models.Song) (models.Song, error) {
	song.ArtistID = cloneID(song.ArtistID)
	song.AlbumID = cloneID(song.AlbumID)
	song.CoverURL = emptyToNil(song.CoverURL)
	song.Display = models.SongDisplay{}
	if err := v.checkSong(song); err != nil {
		return models.Song{}, err
	}
	v.state.next.song++
	song.ID = v.state.next.song
	v.state.songs[song.ID] = song
	return v.decorateSong(song), nil
}

// checkSong mirrors the foreign keys and the likes check of the songs table.
func (v *view) checkSong(song models.Song) error {
	if _, ok := v.state.genres[song.GenreID]; !ok {
		return apperr.NewNotFound("genre")
	}
	if song.ArtistID != nil {
		if _, ok := v.state.artists[*song.ArtistID]; !ok {
			return apperr.NewNotFound("artist")
		}
	}
	if song.AlbumID != nil {
		if _, ok := v.state.albums[*song.AlbumID]; !ok {
			return apperr.NewNotFound("album")
		}
	}
	if song.Likes < 0 {
		return apperr.NewValidation("likes", "must not be negative")
	}
	return nil
}

// decorateSong fills the display fields the Postgres store computes with
// joins: the effective artist comes from the album when the song has none.
func (v *view) decorateSong(song models.Song) models.Song {
	display := models.SongDisplay{
		ArtistID: song.ArtistID,
		Genre:    v.state.genres[song.GenreID].Name,
		CoverURL: song.CoverURL,
	}
	if song.AlbumID != nil {
		if album, ok := v.state.albums[*song.AlbumID]; ok {
			display.Album = album.Name
			if display.ArtistID == nil {
				id := album.ArtistID
				display.ArtistID = &id
			}
			if display.CoverURL == nil {
				display.CoverURL = album.CoverURL
			}
		}
	}
	if display.ArtistID != nil {
		display.Artist = v.state.artists[*display.ArtistID].Name
	}
	song.Display = display
	return song
}

func (v *view) SongByID(_ context.Context, id int64) (models.Song, error) {
	song, ok := v.state.songs[id]
	if !ok {
		return models.Song{}, apperr.NewNotFound("song")
	}
	return v.decorateSong(song), nil
}

func (v *view) ListSongs(_ context.Context, filter store.SongFilter) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	for _, raw := range v.state.songs {
		if filter.AlbumID != nil && (raw.AlbumID == nil || *raw.AlbumID != *filter.AlbumID) {
			continue
		}
		song := v.decorateSong(raw)
		if !contains(song.Name, filter.Name) ||
			!contains(song.Display.Artist, filter.Artist) ||
			!contains(song.Display.Album, filter.Album) ||
			!contains(song.Display.Genre, filter.Genre) {
			continue
		}
		songs = append(songs, song)
	}
	sortSongs(songs)
	return songs, nil
}

func (v *view) UpdateSong(_ context.Context, id int64, patch store.SongPatch) (models.Song, error) {
	song, ok := v.state.songs[id]
	if !ok {
		return models.Song{}, apperr.NewNotFound("song")
	}
	if patch.Name != nil {
		song.Name = *patch.Name
	}
	if patch.ArtistID != nil {
		song.ArtistID = copyID(*patch.ArtistID)
	}
	if patch.AlbumID != nil {
		song.AlbumID = copyID(*patch.AlbumID)
	}
	if patch.GenreID != nil {
		song.GenreID = *patch.GenreID
	}
	if patch.Likes != nil {
		song.Likes = *patch.Likes
	}
	if patch.AudioURL != nil {
		song.AudioURL = *patch.AudioURL
	}
	if patch.CoverURL != nil {
		song.CoverURL = emptyToNil(patch.CoverURL)
	}
	if err := v.checkSong(song); err != nil {
		return models.Song{}, err
	}
	v.state.songs[id] = song
	return v.decorateSong(song), nil
}

func (v *view) AddSongLikes(_ context.Context, id int64, delta int) (models.Song, error) {
	song, ok := v.state.songs[id]
	if !ok {
		return models.Song{}, apperr.NewNotFound("song")
	}
	if song.Likes+delta < 0 {
		return models.Song{}, apperr.NewValidation("likes", "must not be negative")
	}
	song.Likes += delta
	v.state.songs[id] = song
	return v.decorateSong(song), nil
}

func (v *view) DeleteSong(_ context.Context, id int64) (bool, error) {
	if _, ok := v.state.songs[id]; !ok {
		return false, nil
	}
	for key := range v.state.memberships {
		if key.songID == id {
			return false, apperr.NewConflict("song", "song is still referenced")
		}
	}
	delete(v.state.songs, id)
	return true, nil
}

func (v *view) CreatePlaylist(_ context.Context, name string, ownerID int64) (models.Playlist, error) {
	if _, ok := v.state.users[ownerID]; !ok {
		return models.Playlist{}, apperr.NewNotFound("owner")
	}
	v.state.next.playlist++
	playlist := models.Playlist{ID: v.state.next.playlist, Name: name, OwnerID: ownerID}
	v.state.playlists[playlist.ID] = playlist
	return playlist, nil
}

func (v *view) countSongs(playlist models.Playlist) models.Playlist {
	playlist.SongCount = 0
	for key := range v.state.memberships {
		if key.playlistID == playlist.ID {
			playlist.SongCount++
		}
	}
	return playlist
}

func (v *view) PlaylistByID(_ context.Context, id int64) (models.Playlist, error) {
	playlist, ok := v.state.playlists[id]
	if !ok {
		return models.Playlist{}, apperr.NewNotFound("playlist")
	}
	return v.countSongs(playlist), nil
}

func (v *view) PlaylistsByOwner(_ context.Context, ownerID int64) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0)
	for _, p := range v.state.playlists {
		if p.OwnerID == ownerID {
			playlists = append(playlists, v.countSongs(p))
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].ID < playlists[j].ID })
	return playlists, nil
}

func (v *view) RenamePlaylist(_ context.Context, id int64, name string) (models.Playlist, error) {
	playlist, ok := v.state.playlists[id]
	if !ok {
		return models.Playlist{}, apperr.NewNotFound("playlist")
	}
	playlist.Name = name
	v.state.playlists[id] = playlist
	return v.countSongs(playlist), nil
}

func (v *view) DeletePlaylist(_ context.Context, id int64) (bool, error) {
	if _, ok := v.state.playlists[id]; !ok {
		return false, nil
	}
	for key := range v.state.memberships {
		if key.playlistID == id {
			return false, apperr.NewConflict("playlist", "playlist is still referenced")
		}
	}
	delete(v.state.playlists, id)
	return true, nil
}

func (v *view) AddMembership(_ context.Context, playlistID, songID int64) error {
	if _, ok := v.state.playlists[playlistID]; !ok {
		return apperr.NewNotFound("playlist")
	}
	if _, ok := v.state.songs[songID]; !ok {
		return apperr.NewNotFound("song")
	}
	key := membershipKey{playlistID: playlistID, songID: songID}
	if _, ok := v.state.memberships[key]; ok {
		return apperr.NewConflict("membership", "song already in playlist")
	}
	v.state.memberships[key] = struct{}{}
	return nil
}

func (v *view) MembershipExists(_ context.Context, playlistID, songID int64) (bool, error) {
	_, ok := v.state.memberships[membershipKey{playlistID: playlistID, songID: songID}]
	return ok, nil
}

func (v *view) RemoveMembership(_ context.Context, playlistID, songID int64) (bool, error) {
	key := membershipKey{playlistID: playlistID, songID: songID}
	if _, ok := v.state.memberships[key]; !ok {
		return false, nil
	}
	delete(v.state.memberships, key)
	return true, nil
}

func (v *view) DeletePlaylistMemberships(_ context.Context, playlistID int64) (int64, error) {
	return v.deleteMemberships(func(k membershipKey) bool { return k.playlistID == playlistID }), nil
}

func (v *view) DeleteSongMemberships(_ context.Context, songID int64) (int64, error) {
	return v.deleteMemberships(func(k membershipKey) bool { return k.songID == songID }), nil
}

func (v *view) deleteMemberships(match func(membershipKey) bool) int64 {
	var n int64
	for key := range v.state.memberships {
		if match(key) {
			delete(v.state.memberships, key)
			n++
		}
	}
	return n
}

func (v *view) PlaylistSongs(_ context.Context, playlistID int64) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	for key := range v.state.memberships {
		if key.playlistID != playlistID {
			continue
		}
		if song, ok := v.state.songs[key.songID]; ok {
			songs = append(songs, v.decorateSong(song))
		}
	}
	sortSongs(songs)
	return songs, nil
}

func (v *view) CreateUser(_ context.Context, user models.User) (models.User, error) {
	for _, u := range v.state.users {
		if u.Email == user.Email {
			return models.User{}, apperr.NewConflict("email", "email already registered")
		}
	}
	v.state.next.user++
	user.ID = v.state.next.user
	v.state.users[user.ID] = user
	return user, nil
}

func (v *view) UserByID(_ context.Context, id int64) (models.User, error) {
	user, ok := v.state.users[id]
	if !ok {
		return models.User{}, apperr.NewNotFound("user")
	}
	return user, nil
}

func (v *view) UserExists(_ context.Context, id int64) (bool, error) {
	_, ok := v.state.users[id]
	return ok, nil
}

// contains matches like the Postgres store's ILIKE filters: an empty or
// blank needle matches everything.
func contains(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortSongs(songs []models.Song) {
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}

func copyID(id int64) *int64 {
	return &id
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	return copyID(*id)
}
