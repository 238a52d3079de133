package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

var songColumns = []string{
	"id", "name", "artist_id", "album_id", "genre_id", "likes", "audio_url", "cover_url",
	"display_artist_id", "artist", "album", "genre", "display_cover",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestInsertArtistIfAbsent(t *testing.T) {
	tests := []struct {
		name        string
		rows        *sqlmock.Rows
		wantCreated bool
	}{
		{
			name:        "inserted",
			rows:        sqlmock.NewRows([]string{"id", "name", "photo_url"}).AddRow(int64(7), "Joni", nil),
			wantCreated: true,
		},
		{
			name:        "name taken",
			rows:        sqlmock.NewRows([]string{"id", "name", "photo_url"}),
			wantCreated: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectQuery(regexp.QuoteMeta(`
				INSERT INTO artists (name)
				VALUES ($1)
				ON CONFLICT (name) DO NOTHING
			`)).
				WithArgs("Joni").
				WillReturnRows(tc.rows)

			artist, created, err := s.InsertArtistIfAbsent(context.Background(), "Joni")
			if err != nil {
				t.Fatalf("InsertArtistIfAbsent error: %v", err)
			}
			if created != tc.wantCreated {
				t.Fatalf("expected created=%v, got %v", tc.wantCreated, created)
			}
			if created && artist.ID != 7 {
				t.Fatalf("expected artist 7, got %d", artist.ID)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestCreateArtistDuplicateName(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO artists (name, photo_url)`)).
		WithArgs("Joni", nil).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})

	_, err := s.CreateArtist(context.Background(), models.Artist{Name: "Joni"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSongsPushesFiltersIntoSQL(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		LEFT JOIN genres g ON g.id = s.genre_id WHERE ar.name ILIKE $1 AND g.name ILIKE $2
		ORDER BY s.id ASC
	`)).
		WithArgs("%Jo%", "%rock%").
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow(int64(1), "Both Sides Now", int64(3), nil, int64(2), int64(0), "u1", nil,
				int64(3), "Joni", "", "Folk Rock", nil).
			AddRow(int64(2), "Coyote", nil, int64(9), int64(2), int64(4), "u2", nil,
				int64(5), "John", "Hejira", "Folk Rock", "cover.jpg"))

	songs, err := s.ListSongs(context.Background(), SongFilter{Artist: " Jo ", Genre: "rock"})
	if err != nil {
		t.Fatalf("ListSongs error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	inherited := songs[1]
	if inherited.ArtistID != nil {
		t.Fatalf("expected no direct artist, got %v", *inherited.ArtistID)
	}
	if inherited.Display.ArtistID == nil || *inherited.Display.ArtistID != 5 {
		t.Fatalf("expected display artist 5, got %v", inherited.Display.ArtistID)
	}
	if inherited.Display.CoverURL == nil || *inherited.Display.CoverURL != "cover.jpg" {
		t.Fatalf("expected album cover fallback, got %v", inherited.Display.CoverURL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSongByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(songColumns))

	_, err := s.SongByID(context.Background(), 404)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if field := apperr.FieldOf(err); field != "song" {
		t.Fatalf("expected song field, got %q", field)
	}
}

func TestUpdateSongBuildsPartialUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	name := "Amelia"
	likes := 3

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs SET name = $1, likes = $2 WHERE id = $3`)).
		WithArgs("Amelia", 3, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow(int64(11), "Amelia", int64(3), nil, int64(2), int64(3), "u1", nil,
				int64(3), "Joni", "", "Folk", nil))

	song, err := s.UpdateSong(context.Background(), 11, SongPatch{Name: &name, Likes: &likes})
	if err != nil {
		t.Fatalf("UpdateSong error: %v", err)
	}
	if song.Name != "Amelia" || song.Likes != 3 {
		t.Fatalf("unexpected song: %#v", song)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongMissingReference(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO songs`)).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "songs_album_id_fkey"})

	_, err := s.CreateSong(context.Background(), models.Song{Name: "Help", GenreID: 1, AudioURL: "u1"})
	if !errors.Is(err, apperr.ErrNotFound) || apperr.FieldOf(err) != "album" {
		t.Fatalf("expected album not found, got %v", err)
	}
}

func TestAddSongLikesRejectsNegativeTotal(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`SET likes = likes + $1 WHERE id = $2 AND likes + $1 >= 0`)).
		WithArgs(-1, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow(int64(4), "Help", nil, nil, int64(1), int64(0), "u1", nil, nil, "", "", "Pop", nil))

	_, err := s.AddSongLikes(context.Background(), 4, -1)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddMembershipConstraintErrors(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		target    error
		wantField string
	}{
		{"duplicate", &pgconn.PgError{Code: codeUniqueViolation}, apperr.ErrConflict, "membership"},
		{"missing song", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "playlist_song_song_id_fkey"}, apperr.ErrNotFound, "song"},
		{"missing playlist", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "playlist_song_playlist_id_fkey"}, apperr.ErrNotFound, "playlist"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_song (playlist_id, song_id)`)).
				WithArgs(int64(1), int64(2)).
				WillReturnError(tc.pgErr)

			err := s.AddMembership(context.Background(), 1, 2)
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
			if field := apperr.FieldOf(err); field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, field)
			}
		})
	}
}

func TestDeleteGenreStillReferenced(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM genres WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

	_, err := s.DeleteGenre(context.Background(), 2)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestInTxCommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_song WHERE playlist_id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(q Queries) error {
		n, err := q.DeletePlaylistMemberships(context.Background(), 5)
		if err != nil {
			return err
		}
		if n != 3 {
			t.Fatalf("expected 3 memberships removed, got %d", n)
		}
		_, err = q.DeletePlaylist(context.Background(), 5)
		return err
	})
	if err != nil {
		t.Fatalf("InTx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_song WHERE song_id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := s.InTx(context.Background(), func(q Queries) error {
		if _, err := q.DeleteSongMemberships(context.Background(), 8); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	tests := map[string]string{
		"Jo":      "%Jo%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Fatalf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
