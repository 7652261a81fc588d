// Package main provides build targets for the reels project using Mage.
//
// Usage:
//
//	mage build          Compile the reels binary to bin/
//	mage test           Run all tests
//	mage testShort      Run tests with -short
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install reels to GOPATH/bin
//	mage serve          Build, seed a local SQLite catalog, and serve the API
//	mage mysqlUp        Start a MySQL container for local development
//	mage mysqlDown      Stop and remove the MySQL container
//	mage stats          Print Go LOC and documentation word counts
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "reels"
	binaryDir  = "bin"
	cmdDir     = "./cmd/reels"
	versionVar = "github.com/mesh-intelligence/reels/internal/cli.Version"
)

// MySQL container settings. They match the DB_* defaults.
const (
	mysqlContainer = "reels-mysql"
	mysqlImage     = "mysql:8.4"
	mysqlDatabase  = "christmas_movies"
)

func version() string {
	if v := os.Getenv("REELS_VERSION"); v != "" {
		return v
	}
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || out == "" {
		return "0.1.0-dev"
	}
	return strings.TrimPrefix(out, "v")
}

// Build compiles the reels binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X " + versionVar + "=" + version()
	return sh.RunV("go", "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestShort runs tests with -short.
func TestShort() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Serve builds, seeds a SQLite catalog under bin/data, and serves the API.
func Serve() error {
	mg.Deps(Build)
	bin := filepath.Join(binaryDir, binaryName)
	dirs := []string{"--config-dir", filepath.Join(binaryDir, "config"), "--data-dir", filepath.Join(binaryDir, "data")}
	if err := sh.RunV(bin, append(dirs, "init", "--seed")...); err != nil {
		return err
	}
	return sh.RunV(bin, append(dirs, "serve")...)
}

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

// MySQLUp starts a MySQL container listening on localhost:3306. The root
// password comes from DB_PASSWORD.
func MySQLUp() error {
	rt := containerRuntime()
	if rt == "" {
		return errors.New("no usable container runtime (podman or docker)")
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		return errors.New("set DB_PASSWORD to the root password for the container")
	}
	return sh.RunV(rt, "run", "-d", "--rm",
		"--name", mysqlContainer,
		"-p", "3306:3306",
		"-e", "MYSQL_ROOT_PASSWORD="+password,
		"-e", "MYSQL_DATABASE="+mysqlDatabase,
		mysqlImage)
}

// MySQLDown stops the MySQL container.
func MySQLDown() error {
	rt := containerRuntime()
	if rt == "" {
		return errors.New("no usable container runtime (podman or docker)")
	}
	return sh.RunV(rt, "stop", mysqlContainer)
}

// Stats prints Go lines of code and documentation word counts.
func Stats() error {
	var prodLines, testLines int

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			// The go tool ignores directories starting with "_" or ".".
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			if path == "vendor" || path == binaryDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasPrefix(path, "magefiles") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
		} else {
			prodLines += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	docWords, err := countDocWords()
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines of code (Go, total):      %d\n", prodLines+testLines)
	fmt.Printf("Words (documentation):          %d\n", docWords)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func countDocWords() (int, error) {
	total := 0
	seen := map[string]bool{}
	for _, pattern := range []string{"README.md", "docs/*.md", "docs/**/*.md"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			words, err := countWordsInFile(path)
			if err != nil {
				continue
			}
			total += words
		}
	}
	return total, nil
}

func countWordsInFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	count := 0
	inWord := false
	for _, r := range string(data) {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count, nil
}
