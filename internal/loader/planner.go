package loader

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/naming"
)

// plan fills in local paths for every asset and returns one download task
// per distinct absolute URL. Distinct URLs that transform to the same file
// name are told apart by a numeric suffix, assigned in document order.
func plan(assets []*pageAsset, outputDir, assetsDirName string) []entity.DownloadTask {
	var tasks []entity.DownloadTask
	byURL := make(map[string]string)  // absolute URL -> local name
	owners := make(map[string]string) // local name -> absolute URL

	for _, a := range assets {
		abs := a.URL.String()
		name, planned := byURL[abs]
		if !planned {
			name = uniqueName(naming.AssetFileName(a.URL), abs, owners)
			byURL[abs] = name
			owners[name] = abs
		}

		a.LocalPath = path.Join(assetsDirName, name)
		a.FilePath = filepath.Join(outputDir, assetsDirName, name)

		if !planned {
			tasks = append(tasks, entity.DownloadTask{URL: abs, Destination: a.FilePath})
		}
	}
	return tasks
}

func uniqueName(name, abs string, owners map[string]string) string {
	if owner, taken := owners[name]; !taken || owner == abs {
		return name
	}
	stem, ext := splitExt(name)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, taken := owners[candidate]; !taken {
			return candidate
		}
	}
}

func splitExt(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
