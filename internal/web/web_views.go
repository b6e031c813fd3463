package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrTemplateNotFound is returned when a page has no template file
var ErrTemplateNotFound = errors.New("template not found")

const templateExt = ".html"

// Views holds one parsed template set per page. Each page is parsed on its
// own clone of the partials so that pages never overwrite each other's blocks.
type Views struct {
	mux         sync.RWMutex
	viewsDir    string
	partialsDir string
	pages       map[string]*template.Template
}

// NewViews parses all pages in viewsDir together with the partials in partialsDir
func NewViews(viewsDir, partialsDir string) (*Views, error) {
	v := &Views{
		viewsDir:    viewsDir,
		partialsDir: partialsDir,
	}
	if err := v.Reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reload re-parses every template from disk. On error the previous set stays active.
func (v *Views) Reload() error {
	pages, err := v.parse()
	if err != nil {
		return err
	}
	v.mux.Lock()
	v.pages = pages
	v.mux.Unlock()
	return nil
}

func (v *Views) parse() (map[string]*template.Template, error) {
	if fi, err := os.Stat(v.partialsDir); err != nil {
		return nil, fmt.Errorf("partials directory %s: %w", v.partialsDir, err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("partials directory %s is not a directory", v.partialsDir)
	}

	partials, err := filepath.Glob(filepath.Join(v.partialsDir, "*"+templateExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list partials: %w", err)
	}

	base := template.New("").Funcs(TemplateFuncs())
	if len(partials) > 0 {
		if base, err = base.ParseFiles(partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	files, err := filepath.Glob(filepath.Join(v.viewsDir, "*"+templateExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found in %s", v.viewsDir)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone partials for %s: %w", file, err)
		}
		if _, err := tmpl.ParseFiles(file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[pageName(file)] = tmpl
	}
	return pages, nil
}

// pageName maps "views/home.html" to "home"
func pageName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), templateExt)
}

// Pages returns the sorted names of all loaded pages
func (v *Views) Pages() []string {
	v.mux.RLock()
	defer v.mux.RUnlock()
	names := make([]string, 0, len(v.pages))
	for name := range v.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named page into w
func (v *Views) Render(w io.Writer, page string, data any) error {
	v.mux.RLock()
	tmpl, ok := v.pages[page]
	v.mux.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, page)
	}
	return tmpl.ExecuteTemplate(w, page+templateExt, data)
}

// Watch reloads the templates whenever a file in the views or partials
// directory changes. It blocks until ctx is done.
func (v *Views) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{v.viewsDir, v.partialsDir} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	log.Printf("[VIEWS]: Watching %s and %s for template changes", v.viewsDir, v.partialsDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != templateExt {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := v.Reload(); err != nil {
				log.Printf("[VIEWS]: Reload after %s failed, keeping previous templates: %v", event, err)
				continue
			}
			log.Printf("[VIEWS]: Reloaded %d templates after %s", len(v.Pages()), event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[VIEWS]: Watcher error: %v", err)
		}
	}
}
