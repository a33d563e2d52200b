//go:build ignore

// build.go - gddpanel build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, ingest, cohorts, generations, server, clean, test

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const versionPkg = "gddpanel/pkg/contracts"

var (
	rootDir string
	distDir string

	// Binaries built from ./cmd/<name>
	binaries = []string{"ingest", "cohorts", "generations", "server"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	startTime := time.Now()

	switch *target {
	case "all":
		for _, name := range binaries {
			buildBinary(name, *verbose)
		}
	case "ingest", "cohorts", "generations", "server":
		buildBinary(*target, *verbose)
	case "clean":
		clean()
	case "test":
		runTests(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func buildBinary(name string, verbose bool) {
	printInfo(fmt.Sprintf("Building %s...", name))

	output := filepath.Join(distDir, name)
	if runtime.GOOS == "windows" {
		output += ".exe"
	}

	ldflags := strings.Join([]string{
		"-s -w",
		fmt.Sprintf("-X %s.BuildTime=%s", versionPkg, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s.GitCommit=%s", versionPkg, gitCommit()),
	}, " ")

	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", output, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stderr = os.Stderr
	if verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(output); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", filepath.Base(output), float64(info.Size())/1024/1024))
	}
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all           Build every binary (default)")
	fmt.Println("  ingest        Build the ingestion pipeline")
	fmt.Println("  cohorts       Build the cohort-by-education report")
	fmt.Println("  generations   Build the generational trend report")
	fmt.Println("  server        Build the report API server")
	fmt.Println("  clean         Remove dist/")
	fmt.Println("  test          Run all tests with the race detector")
}
