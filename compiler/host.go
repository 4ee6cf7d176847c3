package compiler

import (
	"fmt"
	"os"

	"github.com/morler/frontpack/syntax"
)

// CompilerHost is how a Program reaches files.
type CompilerHost interface {
	GetSourceFile(fileName string, target syntax.Target) (*syntax.SourceFile, error)
	ReadFile(fileName string) (string, error)
	FileExists(fileName string) bool
	GetCurrentDirectory() string
}

// FileSystemHost reads and parses files straight from disk.
type FileSystemHost struct {
	options *CompilerOptions
	cwd     string
}

func NewCompilerHost(options *CompilerOptions) (*FileSystemHost, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}
	if options == nil {
		options = DefaultCompilerOptions()
	}
	return &FileSystemHost{options: options, cwd: cwd}, nil
}

func (h *FileSystemHost) GetSourceFile(fileName string, target syntax.Target) (*syntax.SourceFile, error) {
	text, err := h.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = h.options.Target
	}
	return syntax.ParseSourceFile(fileName, text, target)
}

func (h *FileSystemHost) ReadFile(fileName string) (string, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", fileName, err)
	}
	return string(data), nil
}

func (h *FileSystemHost) FileExists(fileName string) bool {
	info, err := os.Stat(fileName)
	return err == nil && !info.IsDir()
}

func (h *FileSystemHost) GetCurrentDirectory() string {
	return h.cwd
}
