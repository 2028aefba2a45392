package anki

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/freqdeck/internal"
)

// APKGSink collects notes for one deck and writes them as an Anki package
// (.apkg) on Close
type APKGSink struct {
	outputPath string
	deckName   string
	deckID     int64
	modelID    int64
	notes      []Note
	fronts     map[string]struct{}
	now        func() time.Time
	mu         sync.Mutex
}

// NewAPKGSink creates a sink writing to outputPath
func NewAPKGSink(outputPath string) *APKGSink {
	// IDs are based on the timestamp so repeated exports do not collide
	now := time.Now().UnixMilli()
	return &APKGSink{
		outputPath: outputPath,
		deckID:     now,
		modelID:    now + 1,
		fronts:     make(map[string]struct{}),
		now:        time.Now,
	}
}

// CreateDeck implements Sink. A package holds a single deck.
func (s *APKGSink) CreateDeck(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deckName != "" && s.deckName != name {
		return 0, fmt.Errorf("%w: package already holds deck %q", ErrItemRejected, s.deckName)
	}
	s.deckName = name
	return s.deckID, nil
}

// AddNote implements Sink. Notes with a front already in the package are
// rejected, as Anki would.
func (s *APKGSink) AddNote(_ context.Context, note Note) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deckName == "" {
		s.deckName = note.DeckName
	}
	if note.DeckName != s.deckName {
		return 0, fmt.Errorf("%w: note for deck %q in package for %q", ErrItemRejected, note.DeckName, s.deckName)
	}

	front := note.Front()
	if strings.TrimSpace(front) == "" {
		return 0, fmt.Errorf("%w: empty front", ErrItemRejected)
	}
	if _, dup := s.fronts[front]; dup {
		return 0, fmt.Errorf("%w: cannot create note because it is a duplicate: %q", ErrItemRejected, front)
	}

	s.fronts[front] = struct{}{}
	s.notes = append(s.notes, note)
	return s.noteID(len(s.notes) - 1), nil
}

// Len returns the number of collected notes
func (s *APKGSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Close writes the package
func (s *APKGSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.generate(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.outputPath, err)
	}
	return nil
}

// noteID leaves room for the note's card id after it
func (s *APKGSink) noteID(i int) int64 {
	return s.deckID + 100 + int64(i*2)
}

func (s *APKGSink) generate() error {
	// Build the package in a temporary directory
	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// No media, but Anki expects the mapping file
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := s.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if dir := filepath.Dir(s.outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := createZipPackage(tempDir, s.outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (s *APKGSink) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := s.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := s.insertNotes(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return nil
}

// createTables creates the schema 11 collection tables
func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func (s *APKGSink) insertCollection(db *sql.DB) error {
	now := s.now().Unix()

	deck := func(id int64, name, desc string) map[string]interface{} {
		return map[string]interface{}{
			"id":               id,
			"name":             name,
			"mod":              now,
			"desc":             desc,
			"collapsed":        false,
			"dyn":              0,
			"conf":             1,
			"usn":              0,
			"newToday":         []int{0, 0},
			"revToday":         []int{0, 0},
			"lrnToday":         []int{0, 0},
			"timeToday":        []int{0, 0},
			"browserCollapsed": false,
			"extendNew":        10,
			"extendRev":        50,
		}
	}
	decksJSON, err := json.Marshal(map[string]interface{}{
		"1":                         deck(1, "Default", ""),
		fmt.Sprintf("%d", s.deckID): deck(s.deckID, s.deckName, "Frequency vocabulary created by freqdeck"),
	})
	if err != nil {
		return err
	}

	modelsJSON, err := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%d", s.modelID): s.basicModel(now),
	})
	if err != nil {
		return err
	}

	confJSON, err := json.Marshal(map[string]interface{}{
		"nextPos":       len(s.notes) + 1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      fmt.Sprintf("%d", s.modelID),
		"dayLearnFirst": false,
	})
	if err != nil {
		return err
	}

	dconfJSON, err := json.Marshal(map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

// basicModel is Anki's stock Basic note type: one card per note
func (s *APKGSink) basicModel(now int64) map[string]interface{} {
	field := func(name string, ord int) map[string]interface{} {
		return map[string]interface{}{
			"name":   name,
			"ord":    ord,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	return map[string]interface{}{
		"id":    s.modelID,
		"name":  DefaultModelName,
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   s.deckID,
		"req":   [][]interface{}{{0, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds": []map[string]interface{}{
			field(fieldFront, 0),
			field(fieldBack, 1),
		},
		"tmpls": []map[string]interface{}{
			{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  "{{" + fieldFront + "}}",
				"afmt":  "{{FrontSide}}\n\n<hr id=answer>\n\n{{" + fieldBack + "}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": `.card {
  font-family: Arial, sans-serif;
  font-size: 28px;
  text-align: center;
  color: #333;
  background-color: white;
}`,
	}
}

func (s *APKGSink) insertNotes(db *sql.DB) error {
	mod := s.now().Unix()

	for i, note := range s.notes {
		noteID := s.noteID(i)
		front := note.Front()

		tags := note.TagString()
		if tags != "" {
			tags = " " + tags + " "
		}

		// Fields are joined with the unit separator (ASCII 31)
		fields := strings.Join([]string{front, note.Back()}, "\x1f")

		_, err := db.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID,                               // id
			internal.NoteGUID(s.deckName, front), // guid
			s.modelID,                            // mid
			mod,                                  // mod
			-1,                                   // usn
			tags,                                 // tags
			fields,                               // flds
			front,                                // sfld (sort field)
			fieldChecksum(front),                 // csum
			0,                                    // flags
			"",                                   // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		_, err = db.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID+1, // id
			noteID,   // nid
			s.deckID, // did
			0,        // ord
			mod,      // mod
			-1,       // usn
			0,        // type (0=new)
			0,        // queue (0=new)
			i+1,      // due (position for new cards)
			0,        // ivl
			0,        // factor
			0,        // reps
			0,        // lapses
			0,        // left
			0,        // odue
			0,        // odid
			0,        // flags
			"",       // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
	}
	return nil
}

// fieldChecksum is Anki's duplicate check: the first 8 hex digits of the
// SHA-1 of the sort field
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func createZipPackage(srcDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addToZip(archive, srcDir, entry.Name()); err != nil {
			return err
		}
	}

	return archive.Close()
}

func addToZip(archive *zip.Writer, dir, name string) error {
	writer, err := archive.Create(name)
	if err != nil {
		return err
	}

	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(writer, file)
	return err
}
