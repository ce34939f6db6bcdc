package loader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const savedCharset = "utf-8"

// rewrite points every kept asset's attribute at its local copy. Nodes that
// were filtered out are never touched.
func rewrite(assets []*pageAsset) {
	for _, a := range assets {
		a.sel.SetAttr(a.Attribute, a.LocalPath)
	}
}

// declareUTF8 makes the page's charset declarations match the UTF-8 bytes
// it is rendered as.
func declareUTF8(doc *goquery.Document) {
	doc.Find("meta[charset]").Each(func(_ int, s *goquery.Selection) {
		if cs, _ := s.Attr("charset"); !strings.EqualFold(strings.TrimSpace(cs), savedCharset) {
			s.SetAttr("charset", savedCharset)
		}
	})
	doc.Find("meta[http-equiv][content]").Each(func(_ int, s *goquery.Selection) {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "content-type") {
			return
		}
		content, _ := s.Attr("content")
		if i := strings.Index(strings.ToLower(content), "charset="); i >= 0 {
			cs := strings.TrimSpace(content[i+len("charset="):])
			if strings.EqualFold(cs, savedCharset) {
				return
			}
			content = content[:i]
		} else {
			content = strings.TrimRight(content, "; ") + "; "
		}
		s.SetAttr("content", content+"charset="+savedCharset)
	})
}
