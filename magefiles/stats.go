//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stats prints Go lines of code split by production and test files.
func Stats() error {
	lines := map[string]int{}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch {
			case path == "vendor", path == ".git", path == binaryDir, strings.HasPrefix(path, "_"):
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
		key := "go_loc_prod"
		if strings.HasSuffix(path, "_test.go") {
			key = "go_loc_test"
		}
		lines[key] += count
		return nil
	})
	if err != nil {
		return err
	}
	lines["go_loc"] = lines["go_loc_prod"] + lines["go_loc_test"]

	out, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
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
