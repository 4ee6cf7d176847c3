// Package source_store keeps the virtual view of TypeScript sources that the
// compiler program type-checks. Real .ts/.tsx/.d.ts files are stored under
// their own path; Vue components are stored under a synthetic "<file>.vue.ts"
// path holding the extracted script block.
package source_store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar"
	"github.com/morler/frontpack/source_store/models"
	"github.com/morler/frontpack/syntax"
	"github.com/morler/frontpack/utils"
	"github.com/morler/frontpack/vue_extractor"
	"golang.org/x/sync/errgroup"
)

const preloadConcurrency = 16

// StoreOptions configures a VirtualSourceStore.
type StoreOptions struct {
	Target syntax.Target
}

// VirtualSourceStore maps virtual paths to parsed source records.
type VirtualSourceStore struct {
	target syntax.Target

	mutex           sync.RWMutex
	records         map[string]*models.SourceRecord
	syntheticToReal map[string]string
	realToSynthetic map[string]string
	included        map[string]struct{}

	stats *StoreStats
}

// NewVirtualSourceStore creates an empty store parsing with options.Target.
func NewVirtualSourceStore(options StoreOptions) *VirtualSourceStore {
	target := options.Target
	if target == "" {
		target = syntax.TargetLatest
	}

	return &VirtualSourceStore{
		target:          target,
		records:         make(map[string]*models.SourceRecord),
		syntheticToReal: make(map[string]string),
		realToSynthetic: make(map[string]string),
		included:        make(map[string]struct{}),
		stats:           newStoreStats(),
	}
}

// IncludeFile adds path to the permanent root set.
func (s *VirtualSourceStore) IncludeFile(path string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.included[path] = struct{}{}
}

// IncludeFiles adds every path to the permanent root set.
func (s *VirtualSourceStore) IncludeFiles(paths []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, path := range paths {
		s.included[path] = struct{}{}
	}
}

// RegisterSyntheticGlob maps every component matched by pattern to its
// virtual path. Contents are not read until Preload or first use.
func (s *VirtualSourceStore) RegisterSyntheticGlob(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty synthetic glob pattern")
	}

	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to resolve glob %q: %w", pattern, err)
	}

	base := utils.GlobBase(pattern)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, match := range matches {
		if !vue_extractor.IsSyntheticSource(match) || utils.IsDefaultIgnoredBelow(base, match) {
			continue
		}
		s.registerSyntheticLocked(match)
	}

	return nil
}

// Preload reads and parses every included file and every registered
// component concurrently. The first read failure is returned.
func (s *VirtualSourceStore) Preload(ctx context.Context) error {
	s.mutex.RLock()
	paths := make([]string, 0, len(s.included)+len(s.realToSynthetic))
	for path := range s.included {
		paths = append(paths, path)
	}
	for realPath := range s.realToSynthetic {
		paths = append(paths, realPath)
	}
	s.mutex.RUnlock()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(preloadConcurrency)

	for _, path := range paths {
		path := path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := s.Upsert(path, nil)
			return err
		})
	}

	return group.Wait()
}

// Upsert stores the content of realPath, reading it from disk when rawText
// is nil. Components are run through the script extractor and stored under
// their virtual path. It returns false without reparsing when the content
// version is unchanged. Declaration files become permanent roots.
func (s *VirtualSourceStore) Upsert(realPath string, rawText *string) (bool, error) {
	var text string
	if rawText != nil {
		text = *rawText
	} else {
		data, err := os.ReadFile(realPath)
		if err != nil {
			return false, fmt.Errorf("failed to read source file %s: %w", realPath, err)
		}
		text = string(data)
	}

	virtualPath := realPath
	if vue_extractor.IsSyntheticSource(realPath) {
		text = vue_extractor.ExtractScript(text)
		virtualPath = vue_extractor.VirtualPath(realPath)
	}

	version := ContentVersion(text)

	s.mutex.RLock()
	existing, exists := s.records[virtualPath]
	unchanged := exists && existing.ContentVersion == version
	s.mutex.RUnlock()

	if unchanged {
		s.stats.recordUnchanged()
		return false, nil
	}

	sourceFile, err := syntax.ParseSourceFile(virtualPath, text, s.target)
	if err != nil {
		return false, err
	}
	s.stats.recordParse()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if record, ok := s.records[virtualPath]; ok {
		if record.ContentVersion == version {
			return false, nil
		}
		record.RealFilePath = realPath
		record.SyntaxTree = sourceFile
		record.ContentVersion = version
	} else {
		s.records[virtualPath] = &models.SourceRecord{
			RealFilePath:   realPath,
			SyntaxTree:     sourceFile,
			ContentVersion: version,
		}
	}

	if virtualPath != realPath {
		s.registerSyntheticLocked(realPath)
	}
	if syntax.IsDeclarationFile(realPath) {
		s.included[realPath] = struct{}{}
	}

	return true, nil
}

// UpsertAsync reads realPath from disk and upserts it on its own goroutine.
// The channel receives exactly one result and is then closed.
func (s *VirtualSourceStore) UpsertAsync(ctx context.Context, realPath string) <-chan models.UpsertResult {
	results := make(chan models.UpsertResult, 1)

	go func() {
		defer close(results)

		if err := ctx.Err(); err != nil {
			results <- models.UpsertResult{RealFilePath: realPath, Err: err}
			return
		}
		changed, err := s.Upsert(realPath, nil)
		results <- models.UpsertResult{RealFilePath: realPath, Changed: changed, Err: err}
	}()

	return results
}

// GetSyntaxTree returns the parsed source for virtualPath, loading it
// synchronously on first request. Read failures are returned as errors.
func (s *VirtualSourceStore) GetSyntaxTree(virtualPath string) (*syntax.SourceFile, error) {
	s.mutex.RLock()
	record, ok := s.records[virtualPath]
	s.mutex.RUnlock()

	if ok {
		s.stats.recordCachedTree()
		return record.SyntaxTree, nil
	}

	s.stats.recordLazyLoad()
	if _, err := s.Upsert(s.loadPathFor(virtualPath), nil); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	record, ok = s.records[virtualPath]
	if !ok {
		return nil, fmt.Errorf("no source record for %s", virtualPath)
	}
	return record.SyntaxTree, nil
}

// ResolveRealPath returns the component path behind a registered synthetic
// virtual path, or virtualPath itself.
func (s *VirtualSourceStore) ResolveRealPath(virtualPath string) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if realPath, ok := s.syntheticToReal[virtualPath]; ok {
		return realPath
	}
	return virtualPath
}

// Remove drops the record and synthetic mapping for realPath, and its root
// entry when it is a declaration file. It reports whether the program's view
// changed.
func (s *VirtualSourceStore) Remove(realPath string) bool {
	virtualPath := realPath
	if vue_extractor.IsSyntheticSource(realPath) {
		virtualPath = vue_extractor.VirtualPath(realPath)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, hadRecord := s.records[virtualPath]
	_, hadMapping := s.syntheticToReal[virtualPath]

	delete(s.records, virtualPath)
	delete(s.syntheticToReal, virtualPath)
	delete(s.realToSynthetic, realPath)

	wasIncluded := false
	if syntax.IsDeclarationFile(realPath) {
		_, wasIncluded = s.included[realPath]
		delete(s.included, realPath)
	}

	return hadRecord || hadMapping || wasIncluded
}

// RemoveUnder drops every record, synthetic mapping and declaration root
// whose real path lies inside dir. It reports whether anything was dropped.
func (s *VirtualSourceStore) RemoveUnder(dir string) bool {
	prefix := filepath.Clean(dir) + string(filepath.Separator)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := false
	for virtualPath, record := range s.records {
		if strings.HasPrefix(record.RealFilePath, prefix) {
			delete(s.records, virtualPath)
			removed = true
		}
	}
	for virtualPath, realPath := range s.syntheticToReal {
		if strings.HasPrefix(realPath, prefix) {
			delete(s.syntheticToReal, virtualPath)
			delete(s.realToSynthetic, realPath)
			removed = true
		}
	}
	for path := range s.included {
		if syntax.IsDeclarationFile(path) && strings.HasPrefix(path, prefix) {
			delete(s.included, path)
			removed = true
		}
	}

	return removed
}

// EntryFilePaths returns the root set for the next program: included files
// plus every mapped synthetic path, sorted.
func (s *VirtualSourceStore) EntryFilePaths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seen := make(map[string]struct{}, len(s.included)+len(s.syntheticToReal))
	paths := make([]string, 0, len(seen))
	for path := range s.included {
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	for virtualPath := range s.syntheticToReal {
		if _, ok := seen[virtualPath]; ok {
			continue
		}
		paths = append(paths, virtualPath)
	}

	sort.Strings(paths)
	return paths
}

func (s *VirtualSourceStore) registerSyntheticLocked(realPath string) {
	virtualPath := vue_extractor.VirtualPath(realPath)
	s.syntheticToReal[virtualPath] = realPath
	s.realToSynthetic[realPath] = virtualPath
}

// loadPathFor picks the file to read for a virtual path that has no record
// yet. Components reached through an import are not mapped until loaded.
func (s *VirtualSourceStore) loadPathFor(virtualPath string) string {
	realPath := s.ResolveRealPath(virtualPath)
	if realPath != virtualPath {
		return realPath
	}

	if strings.HasSuffix(virtualPath, vue_extractor.VirtualSuffix) {
		candidate := strings.TrimSuffix(virtualPath, vue_extractor.VirtualSuffix)
		if vue_extractor.IsSyntheticSource(candidate) {
			return candidate
		}
	}
	return virtualPath
}
