package entity

import (
	"errors"
	"fmt"
)

// PageJob is the unit of work of one page download.
type PageJob struct {
	URL           string
	OutputDir     string
	PageName      string
	AssetsDirName string
}

// PageResult is returned by a successful page download. Asset failures do
// not fail the download; they are kept here for the caller to inspect.
type PageResult struct {
	PagePath  string
	AssetsDir string
	Assets    []AssetResult
}

// Failed returns the results of assets that were not saved.
func (r *PageResult) Failed() []AssetResult {
	var failed []AssetResult
	for _, a := range r.Assets {
		if !a.OK() {
			failed = append(failed, a)
		}
	}
	return failed
}

// Err joins all asset failures, or returns nil when every asset was saved.
func (r *PageResult) Err() error {
	var errs []error
	for _, a := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s %s: %w", a.Stage, a.Task.URL, a.Err))
	}
	return errors.Join(errs...)
}
