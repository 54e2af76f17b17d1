package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spaghettifunk/tinyrender/engine/assets/loaders"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
	"github.com/spaghettifunk/tinyrender/engine/systems"
)

var ErrManagerClosed = errors.New("asset manager already closed")
var ErrNoLoader = errors.New("no loader registered for asset type")

type AssetInfo struct {
	ID         uuid.UUID
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

type watchEntry struct {
	assetType metadata.ResourceType
	params    interface{}
}

type AssetManager struct {
	dir     string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader
	watched map[string]watchEntry

	mutex sync.RWMutex

	jobs     *systems.JobSystem
	reloaded chan *metadata.Resource

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	running  bool
}

func NewAssetManager(jobs *systems.JobSystem) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		watched:  make(map[string]watchEntry),
		jobs:     jobs,
		reloaded: make(chan *metadata.Resource, 1),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes every file under assetsDir and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.dir = filepath.Clean(assetsDir)

	// Register loaders
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})

	if err := am.addRecursive(am.dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: assets directory %s: %w", core.ErrAssetNotFound, am.dir, err)
		}
		return err
	}

	am.mutex.Lock()
	am.running = true
	am.mutex.Unlock()
	go am.start()

	core.LogInfo("asset manager watching %s (%d assets indexed)", am.dir, am.count())
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.closed() {
		return ErrManagerClosed
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Path resolves an asset name against the assets directory.
func (am *AssetManager) Path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(am.dir, name)
}

// Lookup returns the index entry of an asset, by name relative to the assets directory.
func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.Path(name)]
	return info, ok
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	path := am.Path(name)

	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	res, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	info, exists := am.assets[path]
	if !exists {
		info = AssetInfo{ID: uuid.New(), Path: path, Type: resourceType}
	}
	// Update the loaded time
	info.LastLoaded = time.Now()
	am.assets[path] = info
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	if m, ok := asset.Data.(*metadata.Mesh); ok && m != nil {
		am.mutex.RLock()
		loader := am.loaders[metadata.ResourceTypeMesh]
		am.mutex.RUnlock()
		return loader.Unload(asset)
	}
	return nil
}

/**
 * @brief Reloads the named asset in the background every time it changes on
 * disk. Finished resources are delivered on Reloaded. A failed reload is
 * logged and leaves nothing on the channel.
 */
func (am *AssetManager) Watch(name string, resourceType metadata.ResourceType, params interface{}) error {
	if am.closed() {
		return ErrManagerClosed
	}
	path := am.Path(name)

	am.mutex.Lock()
	_, loaderExists := am.loaders[resourceType]
	if loaderExists {
		am.watched[path] = watchEntry{assetType: resourceType, params: params}
	}
	am.mutex.Unlock()
	if !loaderExists {
		return fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	// Editors often replace the file, so watch its directory instead of the file.
	return am.fsnotify.Add(filepath.Dir(path))
}

// Reloaded delivers resources rebuilt after a change on disk. Only the latest is kept.
func (am *AssetManager) Reloaded() <-chan *metadata.Resource {
	return am.reloaded
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	running := am.running
	am.mutex.Unlock()

	close(am.done)
	if !running {
		return am.fsnotify.Close()
	}
	<-am.stopped
	return nil
}

func (am *AssetManager) closed() bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return am.isClosed
}

func (am *AssetManager) count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
				am.reload(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogWarn("asset watcher close: %s", err)
			}
			return
		}
	}
}

// reload queues a background load of path if it is watched.
func (am *AssetManager) reload(path string) {
	am.mutex.RLock()
	entry, watched := am.watched[filepath.Clean(path)]
	loader := am.loaders[entry.assetType]
	am.mutex.RUnlock()
	if !watched || loader == nil {
		return
	}

	core.LogDebug("asset %s changed, reloading", path)
	am.jobs.AddWorkNonBlocking(metadata.JobTask{
		JobType:     metadata.JOB_TYPE_RESOURCE_LOAD,
		InputParams: entry.params,
		OnStart: func(params interface{}, out chan<- interface{}) error {
			res, err := loader.Load(path, entry.assetType, params)
			if err != nil {
				return err
			}
			out <- res
			return nil
		},
		OnComplete: func(result interface{}) {
			res, ok := result.(*metadata.Resource)
			if !ok {
				return
			}
			am.handleFileEvent(path)
			am.publish(res)
		},
		OnFailure: func(err error) {
			core.LogWarn("reload of %s failed, keeping the current version: %s", path, err)
		},
	})
}

// publish replaces any undelivered resource with res.
func (am *AssetManager) publish(res *metadata.Resource) {
	for {
		select {
		case am.reloaded <- res:
			return
		default:
		}
		select {
		case <-am.reloaded:
		default:
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType, ok := determineAssetType(path)
	if !ok {
		return
	}
	path = filepath.Clean(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()

	info, exists := am.assets[path]
	if !exists {
		info = AssetInfo{ID: uuid.New(), Path: path, Type: assetType}
	}
	info.LastLoaded = time.Now()
	am.assets[path] = info
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

func determineAssetType(path string) (metadata.ResourceType, bool) {
	switch filepath.Ext(path) {
	case ".obj":
		return metadata.ResourceTypeMesh, true
	case ".toml":
		return metadata.ResourceTypeConfig, true
	case ".txt":
		return metadata.ResourceTypeText, true
	default:
		return metadata.ResourceTypeCustom, false
	}
}
