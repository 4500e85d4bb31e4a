// Package history persists playback positions so a session can resume where a
// previous one left off.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/vidstack/elements/filesystem"
	"github.com/vidstack/elements/where"
)

// Positions inside the leading margin are not worth resuming; positions past
// the trailing ratio count as finished and drop the record instead.
const (
	minResumable  = 10.0
	finishedRatio = 0.95
)

// cacher provides an abstracted, disk-backed registry for playback positions.
var cacher = gache.New[map[string]*SavedPosition](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of saved positions from the persistent store.
func Get() (map[string]*SavedPosition, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedPosition), nil
	}
	return cached, nil
}

// Lookup returns the saved position for a source URL, if one is worth resuming.
func Lookup(url string) mo.Option[*SavedPosition] {
	saved, err := Get()
	if err != nil {
		return mo.None[*SavedPosition]()
	}

	record, ok := saved[url]
	if !ok {
		return mo.None[*SavedPosition]()
	}
	return mo.Some(record)
}

// Save records where playback stopped. Positions near the start are dropped,
// and positions near the end remove the record, so a finished source starts
// over on the next play.
func Save(record *SavedPosition) error {
	if record.Position < minResumable || record.finished() {
		return Remove(record.URL)
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	record.SavedAt = time.Now().Unix()
	saved[record.URL] = record

	return cacher.Set(saved)
}

// Remove permanently deletes the saved position for a source URL.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if _, ok := saved[url]; !ok {
		return nil
	}

	delete(saved, url)
	return cacher.Set(saved)
}
