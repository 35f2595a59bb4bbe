// Package profanity detects abusive language in trainee replies.
package profanity

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

// DefaultStems are matched as case-insensitive substrings
var DefaultStems = []string{
	"хуй", "пизд", "еба", "бля", "сука", "гондо", "муда", "залуп", "уеб", "охуе", "хуе",
}

// Filter matches text against a list of word stems
type Filter struct {
	mu    sync.RWMutex
	stems []string
}

// New creates a Filter over the given stems
func New(stems []string) *Filter {
	f := &Filter{}
	f.LoadStems(stems)
	return f
}

// Default creates a Filter over DefaultStems
func Default() *Filter {
	return New(DefaultStems)
}

// LoadFromFile replaces the stem list with one stem per line from path.
// Blank lines and lines starting with # are skipped.
func (f *Filter) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var stems []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stems = append(stems, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	f.LoadStems(stems)
	return nil
}

// LoadStems replaces the stem list
func (f *Filter) LoadStems(stems []string) {
	lowered := make([]string, 0, len(stems))
	for _, s := range stems {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.stems = lowered
}

// Contains reports whether text contains any stem
func (f *Filter) Contains(text string) bool {
	lowered := strings.ToLower(text)

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, stem := range f.stems {
		if strings.Contains(lowered, stem) {
			return true
		}
	}
	return false
}

// StemCount returns the number of loaded stems
func (f *Filter) StemCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.stems)
}
