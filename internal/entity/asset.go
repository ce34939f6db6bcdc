package entity

import (
	"fmt"
	"net/url"
)

// Tag identifies the kind of element an asset was found on.
type Tag string

const (
	TagImage      Tag = "img"
	TagScript     Tag = "script"
	TagStylesheet Tag = "link"
)

// AssetTags lists the tags scanned for assets.
var AssetTags = []Tag{TagImage, TagStylesheet, TagScript}

// TargetAttribute returns the attribute holding the reference for tag.
// An unknown tag is a programming error and panics.
func TargetAttribute(tag Tag) string {
	switch tag {
	case TagImage, TagScript:
		return "src"
	case TagStylesheet:
		return "href"
	default:
		panic(fmt.Sprintf("entity: invalid asset tag %q", string(tag)))
	}
}

// Asset is a same-origin resource referenced by the page.
type Asset struct {
	Tag       Tag
	Attribute string
	// Reference is the attribute value as found in the page.
	Reference string
	URL       *url.URL
	// LocalPath is slash-separated and relative to the output directory.
	LocalPath string
	// FilePath is the absolute destination on disk.
	FilePath string
}

// DownloadTask is one fetch-and-write unit, unique per URL.
type DownloadTask struct {
	URL         string
	Destination string
}

// Stage names the step an asset download failed in.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageWrite Stage = "write"
)

// AssetResult is the outcome of a single DownloadTask.
type AssetResult struct {
	Task  DownloadTask
	Stage Stage
	Bytes int
	Err   error
}

// OK reports whether the asset was fetched and written.
func (r AssetResult) OK() bool {
	return r.Err == nil
}
