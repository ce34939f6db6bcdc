package loader

// State is a step of a page download.
type State int

const (
	StateInit State = iota
	StatePageFetched
	StateProcessed
	StatePageWritten
	StateAssetsDirCreated
	StateAssetsDownloaded
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:             "init",
	StatePageFetched:      "page_fetched",
	StateProcessed:        "processed",
	StatePageWritten:      "page_written",
	StateAssetsDirCreated: "assets_dir_created",
	StateAssetsDownloaded: "assets_downloaded",
	StateDone:             "done",
	StateFailed:           "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
