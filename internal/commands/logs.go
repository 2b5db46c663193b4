package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

const logTailLines = 20

// tailLog returns the last n lines of the log file at path.
func tailLog(path string, n int) (string, error) {
	if path == "" {
		return "No log file configured", nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "Log file is empty", nil
	}
	if err != nil {
		return "", fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading log file: %w", err)
	}
	if len(ring) == 0 {
		return "Log file is empty", nil
	}
	return strings.Join(ring, "\n"), nil
}
