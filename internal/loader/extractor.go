package loader

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/pkg/utils"
	"go.uber.org/zap"
)

// pageAsset ties an asset to the node it was read from, so the rewriter can
// update the attribute in place.
type pageAsset struct {
	entity.Asset
	sel *goquery.Selection
}

func assetSelector() string {
	names := make([]string, 0, len(entity.AssetTags))
	for _, tag := range entity.AssetTags {
		names = append(names, string(tag))
	}
	return strings.Join(names, ", ")
}

// extractAssets scans doc for same-origin references in document order.
// References are resolved against the origin of pageURL. A reference is
// same-origin when the page URL contains its hostname or it contains the
// page hostname. References already pointing into assetsDirName are
// treated as local and skipped.
func extractAssets(doc *goquery.Document, pageURL *url.URL, assetsDirName string, logger *zap.Logger) []*pageAsset {
	origin := utils.Origin(pageURL)
	rawPageURL := pageURL.String()
	pageHost := pageURL.Hostname()

	var assets []*pageAsset
	doc.Find(assetSelector()).Each(func(_ int, s *goquery.Selection) {
		tag := entity.Tag(goquery.NodeName(s))
		attr := entity.TargetAttribute(tag)

		ref, exists := s.Attr(attr)
		if !exists || ref == "" {
			return
		}
		if isLocalReference(ref, assetsDirName) {
			return
		}

		resolved, err := utils.ToAbsoluteURL(origin, ref)
		if err != nil {
			logger.Debug("skipping unparsable reference", zap.String("ref", ref), zap.Error(err))
			return
		}
		resolved.Fragment, resolved.RawFragment = "", ""
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		refHost := resolved.Hostname()
		if refHost == "" {
			return
		}
		if !strings.Contains(rawPageURL, refHost) && !strings.Contains(ref, pageHost) {
			return
		}

		assets = append(assets, &pageAsset{
			Asset: entity.Asset{
				Tag:       tag,
				Attribute: attr,
				Reference: ref,
				URL:       resolved,
			},
			sel: s,
		})
	})
	return assets
}

func isLocalReference(ref, assetsDirName string) bool {
	ref = strings.TrimPrefix(ref, "./")
	return strings.HasPrefix(ref, assetsDirName+"/")
}
