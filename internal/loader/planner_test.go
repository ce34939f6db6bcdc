package loader

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractAssetsKeepsSameOriginInDocumentOrder(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<link rel="stylesheet" href="/a.css">
		<script src="https://cdn.example.com/lib.js"></script>
		<script></script>
	</head><body>
		<img src="img/b.png">
		<img>
		<img src="">
		<img src="data:image/png;base64,AAAA">
		<script src="//ru.hexlet.io/c.js"></script>
		<a href="/page">link</a>
	</body></html>`)

	assets := extractAssets(doc, mustParse(t, pageURL), assetsDirName, zap.NewNop())

	want := []string{
		"https://ru.hexlet.io/a.css",
		"https://ru.hexlet.io/img/b.png",
		"https://ru.hexlet.io/c.js",
	}
	if len(assets) != len(want) {
		t.Fatalf("got %d assets, want %d", len(assets), len(want))
	}
	for i, a := range assets {
		if a.URL.String() != want[i] {
			t.Errorf("asset %d = %s, want %s", i, a.URL, want[i])
		}
	}
	if assets[0].Attribute != "href" || assets[1].Attribute != "src" {
		t.Errorf("unexpected attributes %q %q", assets[0].Attribute, assets[1].Attribute)
	}
}

func TestExtractAssetsLooseHostContainment(t *testing.T) {
	doc := mustDoc(t, `
		<img src="https://hexlet.io/x.png">
		<img src="https://cdn.ru.hexlet.io/y.png">
		<img src="https://hexlet.com/z.png">`)
	assets := extractAssets(doc, mustParse(t, pageURL), assetsDirName, zap.NewNop())

	// The page URL contains hexlet.io, and the second reference contains the
	// page host; hexlet.com matches neither way.
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].URL.Host != "hexlet.io" || assets[1].URL.Host != "cdn.ru.hexlet.io" {
		t.Errorf("unexpected hosts %s %s", assets[0].URL.Host, assets[1].URL.Host)
	}
}

func TestPlanDeduplicatesAndSuffixesCollisions(t *testing.T) {
	doc := mustDoc(t, `
		<img src="/a-b.png">
		<img src="/a/b.png">
		<img src="/a-b.png">
		<img src="/a.b.png">`)
	assets := extractAssets(doc, mustParse(t, pageURL), assetsDirName, zap.NewNop())
	out := filepath.Join("out", "dir")

	tasks := plan(assets, out, assetsDirName)

	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	wantLocal := []string{
		assetsDirName + "/ru-hexlet-io-a-b.png",
		assetsDirName + "/ru-hexlet-io-a-b-1.png",
		assetsDirName + "/ru-hexlet-io-a-b.png",
		assetsDirName + "/ru-hexlet-io-a-b-2.png",
	}
	for i, a := range assets {
		if a.LocalPath != wantLocal[i] {
			t.Errorf("asset %d LocalPath = %q, want %q", i, a.LocalPath, wantLocal[i])
		}
		if want := filepath.Join(out, filepath.FromSlash(wantLocal[i])); a.FilePath != want {
			t.Errorf("asset %d FilePath = %q, want %q", i, a.FilePath, want)
		}
	}
	if tasks[1].URL != "https://ru.hexlet.io/a/b.png" || tasks[1].Destination != assets[1].FilePath {
		t.Errorf("unexpected task %+v", tasks[1])
	}
}

func TestRewriteOnlyTouchesKeptAssets(t *testing.T) {
	doc := mustDoc(t, `<img src="/a.png"><img src="https://other.example/b.png">`)
	assets := extractAssets(doc, mustParse(t, pageURL), assetsDirName, zap.NewNop())
	plan(assets, "/out", assetsDirName)
	rewrite(assets)

	var srcs []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})
	if srcs[0] != assetsDirName+"/ru-hexlet-io-a.png" {
		t.Errorf("kept asset src = %q", srcs[0])
	}
	if srcs[1] != "https://other.example/b.png" {
		t.Errorf("cross-origin src changed to %q", srcs[1])
	}
}

func TestPlanIgnoresFragments(t *testing.T) {
	doc := mustDoc(t, `<img src="/a.png"><img src="/a.png#x"><img src="/a.png?v=1#top">`)
	assets := extractAssets(doc, mustParse(t, pageURL), assetsDirName, zap.NewNop())

	tasks := plan(assets, "/out", assetsDirName)

	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}
	if tasks[0].URL != "https://ru.hexlet.io/a.png" || tasks[1].URL != "https://ru.hexlet.io/a.png?v=1" {
		t.Errorf("unexpected task URLs %q %q", tasks[0].URL, tasks[1].URL)
	}
	if assets[0].LocalPath != assets[1].LocalPath {
		t.Errorf("fragment changed local path: %q vs %q", assets[0].LocalPath, assets[1].LocalPath)
	}
}

func TestDeclareUTF8(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"meta charset", `<meta charset="koi8-r">`, `<meta charset="utf-8"/>`},
		{"already utf-8", `<meta charset="UTF-8">`, `<meta charset="UTF-8"/>`},
		{"http-equiv", `<meta http-equiv="content-type" content="text/html;charset=cp1251">`, `content="text/html;charset=utf-8"`},
		{"http-equiv without charset", `<meta http-equiv="Content-Type" content="text/html">`, `content="text/html; charset=utf-8"`},
		{"other http-equiv", `<meta http-equiv="refresh" content="5">`, `content="5"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<html><head>"+tt.html+"</head></html>")
			declareUTF8(doc)
			got, err := doc.Html()
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("got %s, want it to contain %s", got, tt.want)
			}
		})
	}
}
