package scanner

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadExternalDeps collects declared third-party dependencies from the
// project's manifests, keyed by ecosystem. Every reader is best-effort: a
// missing or malformed manifest contributes nothing.
func ReadExternalDeps(root string) map[string][]string {
	deps := make(map[string][]string)

	if npm := readPackageJSON(filepath.Join(root, "package.json")); len(npm) > 0 {
		deps["javascript"] = npm
	}
	if gomod := readGoMod(filepath.Join(root, "go.mod")); len(gomod) > 0 {
		deps["go"] = gomod
	}
	if cargo := readCargoToml(filepath.Join(root, "Cargo.toml")); len(cargo) > 0 {
		deps["rust"] = cargo
	}
	if py := readRequirements(filepath.Join(root, "requirements.txt")); len(py) > 0 {
		deps["python"] = py
	}

	return deps
}

func readPackageJSON(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	var deps []string
	for name, version := range manifest.Dependencies {
		deps = append(deps, name+"@"+version)
	}
	for name, version := range manifest.DevDependencies {
		deps = append(deps, name+"@"+version+" (dev)")
	}
	sort.Strings(deps)
	return deps
}

func readGoMod(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var deps []string
	inBlock := false
	scan := bufio.NewScanner(file)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock && line != "":
			deps = append(deps, strings.TrimSuffix(line, " // indirect"))
		case strings.HasPrefix(line, "require "):
			deps = append(deps, strings.TrimPrefix(line, "require "))
		}
	}
	return deps
}

func readCargoToml(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var deps []string
	inDeps := false
	scan := bufio.NewScanner(file)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if strings.HasPrefix(line, "[") {
			inDeps = line == "[dependencies]"
			continue
		}
		if !inDeps || line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, rest, ok := strings.Cut(line, "="); ok {
			name = strings.TrimSpace(name)
			version := strings.Trim(strings.TrimSpace(rest), `"`)
			// Table-valued deps keep just the name.
			if strings.HasPrefix(version, "{") {
				deps = append(deps, name)
			} else {
				deps = append(deps, name+"@"+version)
			}
		}
	}
	return deps
}

func readRequirements(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var deps []string
	scan := bufio.NewScanner(file)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		deps = append(deps, line)
	}
	return deps
}
