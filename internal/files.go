package internal

import (
	"log"
	"os"
	"path/filepath"
)

func Directory(file string) (files []string, err error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Base(file)}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		nerr := f.Close()
		if err == nil {
			err = nerr
		}
	}()
	return f.Readdirnames(0)
}

func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}

// FileOpen opens a file for reading, panicking on failure. Reserved
// for call sites (FASTA/reference loading) where a missing input file
// is a configuration mistake the caller should never try to recover
// from mid-batch.
func FileOpen(name string) *os.File {
	f, err := os.Open(name)
	if err != nil {
		log.Panic(err)
	}
	return f
}

// FileCreate creates a file for writing, creating parent directories
// as needed and panicking on failure.
func FileCreate(name string) *os.File {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		log.Panic(err)
	}
	f, err := os.Create(name)
	if err != nil {
		log.Panic(err)
	}
	return f
}

// Close closes c, panicking on failure.
func Close(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Panic(err)
	}
}

// Write writes buf to f in full, panicking on failure, and returns
// the number of bytes written.
func Write(f *os.File, buf []byte) int {
	n, err := f.Write(buf)
	if err != nil {
		log.Panic(err)
	}
	return n
}

// WriteString writes s to f in full, panicking on failure, and
// returns the number of bytes written.
func WriteString(f *os.File, s string) int {
	n, err := f.WriteString(s)
	if err != nil {
		log.Panic(err)
	}
	return n
}
