package main

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
	"github.com/enzeeeh/patient-symptom-chatbot/vecstore"
	"github.com/fsnotify/fsnotify"
)

type vectorIndex interface {
	Index(ctx context.Context, doc vecstore.Doc) error
	Forget(ctx context.Context, doc vecstore.IndexedDoc) error
	Indexed(ctx context.Context) ([]vecstore.IndexedDoc, error)
}

type fileReader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

type chunkifier interface {
	Chunkify(text string) []string
}

// GuidelineRegistry mirrors a folder of guideline documents into an in-memory
// corpus for keyword search and, when available, a vector index for semantic
// search. The index is optional: with no embedder the registry still serves
// the corpus.
type GuidelineRegistry struct {
	log              *slog.Logger
	root             string
	mergeEventsDelay time.Duration
	index            vectorIndex
	chunkifier       chunkifier
	readers          []fileReader

	mu     sync.RWMutex
	corpus []retrieval.Document
}

type guidelineFile struct {
	Path   string
	Source string
	Text   string
	Crc    uint32
}

type diskDocs map[string]guidelineFile
type indexedDocs map[string]vecstore.IndexedDoc

func (gr *GuidelineRegistry) Sync(ctx context.Context) error {
	disk := gr.collectDocs()
	gr.setCorpus(disk)

	if gr.index == nil {
		return nil
	}

	diskMap := make(diskDocs)
	for _, d := range disk {
		diskMap[d.Path] = d
	}

	indexed, err := gr.index.Indexed(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexed guidelines: %w", err)
	}

	indexedMap := make(indexedDocs)
	for _, d := range indexed {
		indexedMap[d.Source] = d
	}

	err = gr.indexNewGuidelines(ctx, diskMap, indexedMap)
	if err != nil {
		return err
	}

	err = gr.forgetRemovedGuidelines(ctx, diskMap, indexedMap)
	if err != nil {
		return err
	}

	return nil
}

// Corpus returns the latest guideline snapshot. The slice is replaced
// wholesale on every sync, so callers may keep it without copying.
func (gr *GuidelineRegistry) Corpus() []retrieval.Document {
	gr.mu.RLock()
	defer gr.mu.RUnlock()

	return gr.corpus
}

// Watch re-syncs the registry whenever the guideline folder changes. Bursts
// of events are merged, so a bulk copy into the folder triggers one sync.
func (gr *GuidelineRegistry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create guideline watcher: %w", err)
	}

	err = watcher.Add(gr.root)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", gr.root, err)
	}

	go gr.watchLoop(ctx, watcher)

	return nil
}

func (gr *GuidelineRegistry) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	merge := time.NewTimer(gr.mergeEventsDelay)
	if !merge.Stop() {
		<-merge.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			merge.Reset(gr.mergeEventsDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			gr.log.Warn("guideline watcher error", "error", err)

		case <-merge.C:
			err := gr.Sync(ctx)
			if err != nil {
				gr.log.Warn("failed to sync guidelines", "error", err)
			}
		}
	}
}

func (gr *GuidelineRegistry) collectDocs() []guidelineFile {
	var docs []guidelineFile
	err := filepath.Walk(gr.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			gr.log.Warn("failed to access guideline path", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			return nil
		}

		reader := gr.findReader(path)
		if reader == nil {
			gr.log.Warn("unsupported guideline file", "path", path)
			return nil
		}

		text, err := reader.ReadText(path)
		if err != nil {
			gr.log.Warn("failed to read guideline file", "path", path, "error", err)
			return nil
		}

		docs = append(docs, guidelineFile{
			Path:   path,
			Source: filepath.Base(path),
			Text:   text,
			Crc:    crc32.Checksum([]byte(text), crc32.IEEETable),
		})

		return nil
	})
	if err != nil {
		gr.log.Warn("failed to scan guideline folder", "root", gr.root, "error", err)
	}

	return docs
}

func (gr *GuidelineRegistry) setCorpus(docs []guidelineFile) {
	corpus := make([]retrieval.Document, 0, len(docs))
	for _, d := range docs {
		corpus = append(corpus, retrieval.Document{
			Content: d.Text,
			Source:  d.Source,
		})
	}

	sort.Slice(corpus, func(i, j int) bool {
		return corpus[i].Source < corpus[j].Source
	})

	gr.mu.Lock()
	gr.corpus = corpus
	gr.mu.Unlock()

	gr.log.Info("guideline corpus loaded", "documents", len(corpus))
}

func (gr *GuidelineRegistry) indexNewGuidelines(ctx context.Context, disk diskDocs, indexed indexedDocs) error {
	for _, doc := range disk {
		known, ok := indexed[doc.Path]
		if ok && known.Crc == doc.Crc {
			continue
		}

		err := gr.index.Index(ctx, vecstore.Doc{
			Source: doc.Path,
			Crc:    doc.Crc,
			Chunks: gr.chunkifier.Chunkify(doc.Text),
		})
		if err != nil {
			return fmt.Errorf("failed to index guideline %s: %w", doc.Path, err)
		}
	}

	return nil
}

// forgetRemovedGuidelines drops index entries whose file is gone. Changed
// files are not forgotten here: indexing replaces their chunks in place.
func (gr *GuidelineRegistry) forgetRemovedGuidelines(ctx context.Context, disk diskDocs, indexed indexedDocs) error {
	for _, doc := range indexed {
		_, ok := disk[doc.Source]
		if ok {
			continue
		}

		err := gr.index.Forget(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to forget guideline %s: %w", doc.Source, err)
		}
	}

	return nil
}

func (gr *GuidelineRegistry) findReader(file string) fileReader {
	for _, r := range gr.readers {
		if r.CanRead(file) {
			return r
		}
	}

	return nil
}
