package scanner

import (
	"log/slog"
	"testing"
)

func hasRef(refs []string, want string) bool {
	for _, r := range refs {
		if r == want {
			return true
		}
	}
	return false
}

func TestExtractJSImports(t *testing.T) {
	src := `
import React from 'react';
import { sum } from "./math/util";
const fs = require('fs');
const lazy = import('./lazy');
`
	refs := extractJSImports([]byte(src))
	for _, want := range []string{"react", "./math/util", "fs", "./lazy"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractPythonImports(t *testing.T) {
	src := `
import os
import utils.helpers
from models.user import User
from . import siblings

def late():
    import json
    from pkg.sub import thing
`
	refs := newPythonStrategy().Extract([]byte(src))
	for _, want := range []string{"os.py", "utils/helpers.py", "models/user.py", "json.py", "pkg/sub.py"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractPythonMalformed(t *testing.T) {
	// Error-tolerant parse still finds the clean import.
	src := "import good\ndef broken(:\n"
	refs := newPythonStrategy().Extract([]byte(src))
	if !hasRef(refs, "good.py") {
		t.Errorf("Expected good.py despite syntax error, got %v", refs)
	}
}

func TestExtractJavaImports(t *testing.T) {
	src := `
package com.app;
import com.example.Widget;
import com.example.util.*;
import static com.example.Constants.MAX;
`
	refs := extractJavaImports([]byte(src))
	for _, want := range []string{"com/example/Widget.java", "com/example/util", "com/example/Constants.java"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractGoImports(t *testing.T) {
	src := `package main

import "fmt"
import alias "strings"

import (
	"os"
	sub "example.com/pkg/sub"
)
`
	refs := extractGoImports([]byte(src))
	for _, want := range []string{"fmt", "strings", "os", "example.com/pkg/sub"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractRustImports(t *testing.T) {
	src := `
use crate::engine;
use std::collections::{HashMap, HashSet};
mod parser;
pub mod lexer;
`
	refs := extractRustImports([]byte(src))
	for _, want := range []string{
		"crate/engine.rs",
		"std/collections/HashMap.rs",
		"std/collections/HashSet.rs",
		"parser.rs", "parser/mod.rs",
		"lexer.rs", "lexer/mod.rs",
	} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractPHPDependencies(t *testing.T) {
	src := `<?php
use App\Utils\Logger;
require_once 'lib/bootstrap.php';
include($dynamic . '/path.php');
`
	refs := extractPHPDependencies([]byte(src))
	if !hasRef(refs, "App/Utils/Logger.php") || !hasRef(refs, "lib/bootstrap.php") {
		t.Errorf("Missing expected refs in %v", refs)
	}
	for _, r := range refs {
		if r == "$dynamic . '/path.php'" {
			t.Error("Dynamic include should be dropped")
		}
	}
}

func TestExtractHTMLRefs(t *testing.T) {
	src := `<html>
<script src="app.js"></script>
<link href="style.css" rel="stylesheet">
<img src="logo.png">
<script src="https://cdn.example.com/lib.js"></script>
</html>`
	refs := extractHTMLRefs([]byte(src))
	for _, want := range []string{"app.js", "style.css", "logo.png"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
	if hasRef(refs, "https://cdn.example.com/lib.js") {
		t.Error("Remote URL should be dropped")
	}
}

func TestExtractCSSRefs(t *testing.T) {
	src := `@import "base.css";
.hero { background: url('img/hero.png'); }
.remote { background: url(https://x.test/a.png); }`
	refs := extractCSSRefs([]byte(src))
	if !hasRef(refs, "base.css") || !hasRef(refs, "img/hero.png") {
		t.Errorf("Missing expected refs in %v", refs)
	}
	if hasRef(refs, "https://x.test/a.png") {
		t.Error("Remote URL should be dropped")
	}
}

func TestExtractJSONRefs(t *testing.T) {
	src := `{"main": "dist/index.js", "nested": {"src": "app.ts"}, "other": 5}`
	refs := extractJSONRefs([]byte(src))
	if !hasRef(refs, "dist/index.js") || !hasRef(refs, "app.ts") {
		t.Errorf("Missing expected refs in %v", refs)
	}
}

func TestExtractorCustomPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomParsers = map[string][]PatternConfig{
		"rust": {
			{Regex: `use\s+([\w:]+);`, CaptureGroup: 1, Multiline: true, Name: "use_statement"},
			{Regex: `mod\s+(\w+);`, CaptureGroup: 1, Multiline: true, Name: "mod_declaration"},
		},
	}
	e := NewExtractor(cfg, slog.New(slog.DiscardHandler))

	refs := e.Extract("src/main.rs", []byte("use crate::engine;\nmod parser;\n"))
	for _, want := range []string{"crate/engine.rs", "parser.rs", "parser/mod.rs"} {
		if !hasRef(refs, want) {
			t.Errorf("Missing %q in %v", want, refs)
		}
	}
}

func TestExtractorCustomPatternFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomParsers = map[string][]PatternConfig{
		"go": {{Regex: `never_matches_zzz\s+"([^"]+)"`, CaptureGroup: 1, Name: "noop"}},
	}
	e := NewExtractor(cfg, slog.New(slog.DiscardHandler))

	// Zero custom matches fall back to the built-in strategy.
	refs := e.Extract("main.go", []byte(`package main
import "fmt"
`))
	if !hasRef(refs, "fmt") {
		t.Errorf("Expected built-in fallback to find fmt, got %v", refs)
	}
}

func TestExtractorInvalidPatternSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomParsers = map[string][]PatternConfig{
		"go": {
			{Regex: `([`, CaptureGroup: 1, Name: "broken"},
			{Regex: `import\s+"([^"]+)"`, CaptureGroup: 1, Multiline: true, Name: "single_import"},
		},
	}
	e := NewExtractor(cfg, slog.New(slog.DiscardHandler))

	refs := e.Extract("main.go", []byte(`import "strings"`))
	if !hasRef(refs, "strings") {
		t.Errorf("Valid pattern should survive a broken sibling, got %v", refs)
	}
}

func TestExtractorUnknownExtension(t *testing.T) {
	e := NewExtractor(DefaultConfig(), nil)
	if refs := e.Extract("notes.txt", []byte("import nothing")); len(refs) != 0 {
		t.Errorf("Expected no refs for unhandled extension, got %v", refs)
	}
}

func TestConvertImportToPathGoBlock(t *testing.T) {
	block := "\t\"os\"\n\tsub \"example.com/pkg\"\n"
	paths := convertImportToPath(block, "go", "block_import")
	if !hasRef(paths, "os") || !hasRef(paths, "example.com/pkg") {
		t.Errorf("Block import split failed: %v", paths)
	}
}
