package scanner

import "testing"

func TestScanAssets(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html":      `<img src="logo.png"><img src="gone.png"><img src="https://cdn.x/y.png">`,
		"style.css":       `.a { background: url('assets/bg.jpg'); }`,
		"assets/bg.jpg":   "jpg",
		"logo.png":        "png",
	})

	d := NewDiscovery(root, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatal(err)
	}
	cat := NewCategorizer(nil, nil)
	g := NewGraph()
	for _, f := range files {
		g.AddNode(&FileNode{Key: f.RelPath, Kind: NodeInternal, Category: cat.Categorize(f.RelPath)})
	}

	scan := ScanAssets(files, g, NewResolver(root))

	if !scan.Referenced["logo.png"] || !scan.Referenced["assets/bg.jpg"] {
		t.Errorf("Referenced = %v", scan.Referenced)
	}
	missing := scan.Missing["index.html"]
	if len(missing) != 1 || missing[0] != "gone.png" {
		t.Errorf("Missing = %v, want [gone.png]", missing)
	}
	// Remote URLs are ignored entirely.
	for _, m := range missing {
		if m == "https://cdn.x/y.png" {
			t.Error("Remote URL should not be scanned")
		}
	}
	if len(scan.Missing["style.css"]) != 0 {
		t.Errorf("style.css has no missing assets: %v", scan.Missing["style.css"])
	}
}

func TestScanAssetsSkipsBinaryDeclarers(t *testing.T) {
	root := t.TempDir()
	// An image is never scanned for references, whatever its bytes contain.
	writeTree(t, root, map[string]string{
		"pic.png": `<img src="other.png">`,
	})

	d := NewDiscovery(root, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatal(err)
	}
	g := NewGraph()
	g.AddNode(&FileNode{Key: "pic.png", Kind: NodeInternal, Category: "Image"})

	scan := ScanAssets(files, g, NewResolver(root))
	if len(scan.Missing) != 0 {
		t.Errorf("Binary declarer should contribute nothing, got %v", scan.Missing)
	}
}

func TestScanAssetsMissingButOnDisk(t *testing.T) {
	// A referenced file that exists on disk but was excluded from the node
	// set still counts as missing for the declaring file.
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html": `<img src="huge.png">`,
		"huge.png":   "png",
	})

	d := NewDiscovery(root, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatal(err)
	}
	g := NewGraph()
	g.AddNode(&FileNode{Key: "index.html", Kind: NodeInternal, Category: "HTML"})

	scan := ScanAssets(files, g, NewResolver(root))
	if len(scan.Missing["index.html"]) != 1 {
		t.Errorf("Expected huge.png reported missing, got %v", scan.Missing)
	}
	if !scan.Referenced["huge.png"] {
		t.Error("Resolved target should still be recorded as referenced")
	}
}
