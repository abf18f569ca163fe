// ABOUTME: Music directory scanner producing song metadata records
// ABOUTME: Detects audio files and reads their tags into the library schema

// Package scanner walks a music directory and extracts song metadata.
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/h2non/filetype"

	"github.com/nainya/tunetree/internal/logger"
	"github.com/nainya/tunetree/internal/metrics"
	"github.com/nainya/tunetree/pkg/song"
)

// audioExts is the extension fast path; anything else falls back to
// magic-byte sniffing.
var audioExts = map[string]bool{
	".mp3": true, ".flac": true, ".wav": true, ".ape": true, ".m4a": true,
	".ogg": true, ".aac": true, ".wma": true, ".opus": true, ".alac": true,
	".aiff": true, ".wv": true,
}

// Scanner walks a directory tree and turns audio files into song
// records.
type Scanner struct {
	log *logger.Logger
	m   *metrics.Metrics
}

// New creates a scanner. A nil metrics handle disables counting.
func New(log *logger.Logger, m *metrics.Metrics) *Scanner {
	return &Scanner{log: log, m: m}
}

// Scan walks dir and returns a song record for every readable audio
// file. Unreadable or untagged files are skipped, not fatal.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]*song.Song, error) {
	log := s.log.ScanLogger(dir)

	var songs []*song.Song
	var skipped int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !isAudioFile(path) {
			return nil
		}

		sng, err := s.readSong(path)
		if err != nil {
			log.Debug("Skipping file").Str("path", path).Err(err).Send()
			skipped++
			if s.m != nil {
				s.m.FilesSkippedTotal.Inc()
			}
			return nil
		}
		songs = append(songs, sng)
		if s.m != nil {
			s.m.FilesScannedTotal.Inc()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	log.Info("Scan finished").Int("songs", len(songs)).Int("skipped", skipped).Send()
	return songs, nil
}

// isAudioFile accepts known audio extensions and otherwise sniffs the
// file header.
func isAudioFile(path string) bool {
	if audioExts[strings.ToLower(filepath.Ext(path))] {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return false
	}
	return filetype.IsAudio(head[:n])
}

func (s *Scanner) readSong(path string) (*song.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	return SongFromMetadata(m, path), nil
}

// SongFromMetadata maps parsed tags onto a song record. The ID is a
// content-independent hash of the file path so rescans update in place.
func SongFromMetadata(m tag.Metadata, path string) *song.Song {
	track, _ := m.Track()
	disc, _ := m.Disc()

	title := m.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	now := time.Now().UTC()
	return &song.Song{
		ID:          pathID(path),
		Path:        path,
		FileType:    string(m.FileType()),
		Title:       title,
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Composer:    m.Composer(),
		Genre:       m.Genre(),
		Comment:     m.Comment(),
		Track:       track,
		Disc:        disc,
		Year:        m.Year(),
		Rating:      -1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func pathID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:16])
}
