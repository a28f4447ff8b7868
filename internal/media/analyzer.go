// Package media inspects fetched media blobs and keeps them in a local
// cache directory.
package media

import (
	"bytes"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"albumview/internal/log"
)

// Kind is the broad class of a blob.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// Metadata keys filled in by the analyzers.
const (
	MetaTaken  = "taken"
	MetaCamera = "camera"
	MetaMake   = "make"
)

// Info describes a blob.
type Info struct {
	Identity  string
	MIME      string
	Extension string
	Size      int64
	Kind      Kind
	Metadata  map[string]string
}

// HumanSize returns the size in human units, e.g. "3.4 MB".
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Analyzer adds type specific details to Info.
type Analyzer interface {
	// CanHandle checks if this analyzer is suitable for the given MIME type
	CanHandle(mime string) bool
	// Analyze updates info from data
	Analyze(data []byte, info *Info) error
}

// ImageAnalyzer reads EXIF data from images.
type ImageAnalyzer struct{}

// CanHandle accepts formats that may carry EXIF.
func (a *ImageAnalyzer) CanHandle(mime string) bool {
	switch mime {
	case "image/jpeg", "image/tiff", "image/heic", "image/heif", "image/webp":
		return true
	}
	return false
}

// Analyze extracts the capture time and camera. Missing EXIF is not an error.
func (a *ImageAnalyzer) Analyze(data []byte, info *Info) error {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("No EXIF data for %s: %v", info.Identity, err)
		return nil
	}
	if tm, err := x.DateTime(); err == nil {
		info.Metadata[MetaTaken] = tm.Format("2006-01-02 15:04:05")
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil && s != "" {
			info.Metadata[MetaCamera] = strings.TrimSpace(s)
		}
	}
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil && s != "" {
			info.Metadata[MetaMake] = strings.TrimSpace(s)
		}
	}
	return nil
}

// Engine sniffs blobs and runs the matching analyzer.
type Engine struct {
	analyzers []Analyzer
}

var registerParsers sync.Once

// NewEngine creates an engine with the default analyzers registered.
func NewEngine() *Engine {
	registerParsers.Do(func() { exif.RegisterParsers(mknote.All...) })
	e := &Engine{}
	e.Register(&ImageAnalyzer{})
	return e
}

// Register adds an analyzer. The first analyzer that can handle a type wins.
func (e *Engine) Register(a Analyzer) {
	e.analyzers = append(e.analyzers, a)
}

// Describe identifies data and collects what the analyzers find.
func (e *Engine) Describe(identity string, data []byte) Info {
	mt := mimetype.Detect(data)
	mime := mt.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	info := Info{
		Identity:  identity,
		MIME:      mime,
		Extension: mt.Extension(),
		Size:      int64(len(data)),
		Kind:      kindOf(mime),
		Metadata:  make(map[string]string),
	}
	for _, a := range e.analyzers {
		if !a.CanHandle(mime) {
			continue
		}
		if err := a.Analyze(data, &info); err != nil {
			log.LogWithFields(log.F("identity", identity), log.F("error", err.Error())).
				Warn("Analyzer failed, returning partial info")
		}
		break
	}
	return info
}

func kindOf(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	}
	return KindOther
}
