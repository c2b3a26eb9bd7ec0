package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"beatbox/logger"

	"github.com/google/uuid"
)

// RootDir is the directory (or object prefix) holding every kind directory.
const RootDir = "music"

// Per-kind directories below RootDir.
const (
	BeatsDir  = "beats"
	TracksDir = "prods"
	VocalsDir = "vocals"
)

// Dirs lists every kind directory created at startup.
var Dirs = []string{BeatsDir, TracksDir, VocalsDir}

// Declared content type prefixes accepted for uploads.
const (
	AudioPrefix = "audio/"
	ImagePrefix = "image/"
)

// AudioContentType is served for every audio download whatever the stored format.
const AudioContentType = "audio/wav"

var (
	ErrInvalidContentType = errors.New("invalid content type")
	ErrWrite              = errors.New("failed to write file")
	ErrFileNotFound       = errors.New("file not found")
)

// Kind selects how a retrieved file's content type is derived.
type Kind int

const (
	Audio Kind = iota
	Image
)

// DeletePolicy decides what happens when removing a stored file fails.
type DeletePolicy int

const (
	// BestEffort logs the failure and reports success.
	BestEffort DeletePolicy = iota
	// Strict returns the failure to the caller.
	Strict
)

func (p DeletePolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "best-effort"
}

// ParseDeletePolicy maps the configuration value onto a DeletePolicy.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch s {
	case "best-effort", "":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	default:
		return BestEffort, fmt.Errorf("unknown delete policy %q", s)
	}
}

// Upload is one file received from a client.
type Upload struct {
	Filename    string // as sent by the client
	ContentType string // as declared by the client
	Size        int64
	Body        io.Reader
}

// Item pairs an upload with the content type prefix it must carry.
type Item struct {
	Upload Upload
	Prefix string
}

// Object is an opened stored file ready to be streamed.
type Object struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Body        io.ReadSeekCloser
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageContentType derives an image's content type from its extension.
func ImageContentType(filename string) string {
	if ct, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// CheckContentType fails with ErrInvalidContentType unless declared starts with prefix.
func CheckContentType(declared, prefix string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(declared)), prefix) {
		return fmt.Errorf("%w: expected %s*, got %q", ErrInvalidContentType, prefix, declared)
	}
	return nil
}

var (
	// Letters and digits of any script survive; separators, dots, quotes and
	// shell metacharacters do not.
	unsafeChars    = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// maxStemRunes bounds the stem so names stay well under filesystem limits.
const maxStemRunes = 100

// sanitize turns runs of whitespace into one underscore and drops every other
// character that is not a letter, digit, underscore or hyphen.
func sanitize(s string) string {
	s = multipleSpaces.ReplaceAllString(strings.TrimSpace(s), "_")
	return unsafeChars.ReplaceAllString(s, "")
}

// UniqueName builds <stem>-<32 hex>.<ext> from a client file name. The stem is
// the base name up to its first dot and the extension the last dot suffix, both
// passed through sanitize. An empty stem becomes "upload".
func UniqueName(original string) string {
	base := original
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	stem := base
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	stem = sanitize(stem)
	if r := []rune(stem); len(r) > maxStemRunes {
		stem = string(r[:maxStemRunes])
	}
	if stem == "" {
		stem = "upload"
	}

	ext := ""
	if e := filepath.Ext(base); e != "" && e != base {
		ext = "." + sanitize(e[1:])
		if ext == "." {
			ext = ""
		}
	}

	return stem + "-" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// validName rejects anything that is not a bare file name.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// FileStore maps uploads onto uniquely named files in the kind directories.
type FileStore struct {
	backend Backend
}

// NewFileStore wraps a backend.
func NewFileStore(backend Backend) *FileStore {
	return &FileStore{backend: backend}
}

// Init creates every kind directory. Safe to call more than once.
func (s *FileStore) Init(ctx context.Context) error {
	for _, dir := range Dirs {
		if err := s.backend.EnsureDir(ctx, dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Store validates the declared content type, then copies the upload to a new
// uniquely named file in dir and returns that name.
func (s *FileStore) Store(ctx context.Context, dir string, up Upload, expectedPrefix string) (string, error) {
	if err := CheckContentType(up.ContentType, expectedPrefix); err != nil {
		return "", err
	}
	name := UniqueName(up.Filename)
	if err := s.backend.Put(ctx, dir, name, up.Body, up.Size, up.ContentType); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWrite, name, err)
	}
	logger.Debug("stored file",
		logger.String("dir", dir),
		logger.String("name", name),
		logger.Int64("size", up.Size))
	return name, nil
}

// StoreAll checks every content type before writing anything, then stores the
// items in order. When one write fails the files already written by this call
// are removed again. Names are returned in item order.
func (s *FileStore) StoreAll(ctx context.Context, dir string, items []Item) ([]string, error) {
	for _, it := range items {
		if err := CheckContentType(it.Upload.ContentType, it.Prefix); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(items))
	for _, it := range items {
		name, err := s.Store(ctx, dir, it.Upload, it.Prefix)
		if err != nil {
			s.Discard(dir, names...)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Discard removes files written earlier in a request that is being abandoned.
// It runs detached from the request context so a cancelled client does not
// leave the files behind.
func (s *FileStore) Discard(dir string, names ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, name := range names {
		_ = s.Delete(ctx, dir, name, BestEffort)
	}
}

// Retrieve opens a stored file. Audio is always served as audio/wav; images get
// a type from their extension.
func (s *FileStore) Retrieve(ctx context.Context, dir, filename string, kind Kind) (*Object, error) {
	if !validName(filename) {
		return nil, ErrFileNotFound
	}
	body, info, err := s.backend.Open(ctx, dir, filename)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open %s/%s: %w", dir, filename, err)
	}

	contentType := AudioContentType
	if kind == Image {
		contentType = ImageContentType(filename)
	}
	return &Object{
		Name:        filename,
		ContentType: contentType,
		Size:        info.Size,
		ModTime:     info.ModTime,
		Body:        body,
	}, nil
}

// Delete removes a stored file if present. Under BestEffort a failure is only
// logged; under Strict it is returned.
func (s *FileStore) Delete(ctx context.Context, dir, filename string, policy DeletePolicy) error {
	if !validName(filename) {
		return nil
	}
	err := s.backend.Remove(ctx, dir, filename)
	if err == nil {
		return nil
	}
	if policy == BestEffort {
		logger.Warn("failed to delete stored file",
			logger.String("dir", dir),
			logger.String("name", filename),
			logger.ErrorField(err))
		return nil
	}
	return fmt.Errorf("failed to delete %s/%s: %w", dir, filename, err)
}

// List returns the files stored in dir.
func (s *FileStore) List(ctx context.Context, dir string) ([]FileInfo, error) {
	return s.backend.List(ctx, dir)
}
